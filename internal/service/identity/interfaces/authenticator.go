package interfaces

import (
	"context"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/service/identity/application"
)

// TokenAuthenticator 把身份服务适配为 httpx.Authenticator，供所有上下文的路由守卫使用。
type TokenAuthenticator struct {
	service *application.IdentityService
}

func NewTokenAuthenticator(service *application.IdentityService) *TokenAuthenticator {
	return &TokenAuthenticator{service: service}
}

func (a *TokenAuthenticator) Authenticate(ctx context.Context, token string) (*httpx.Principal, error) {
	claims, err := a.service.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return &httpx.Principal{
		UserID:   claims.UserID,
		UserName: claims.UserName,
		Email:    claims.Email,
		Role:     claims.Role.String(),
	}, nil
}
