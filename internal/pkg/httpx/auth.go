package httpx

import (
	"context"
	"net/http"
	"strings"
)

// Principal 是通过认证的调用者。
type Principal struct {
	UserID   string
	UserName string
	Email    string
	Role     string
}

// Authenticator 校验 bearer token 并返回调用者信息。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

type principalKey struct{}

// WithPrincipal 把调用者放入 context。
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom 取出调用者，未认证时返回 false。
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// Guard 负责路由级的认证与角色校验。
type Guard struct {
	auth Authenticator
}

func NewGuard(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Require 要求请求携带有效 token；roles 为空时任何角色均可访问。
func (g *Guard) Require(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "Invalid! Token is missing")
				return
			}
			p, err := g.auth.Authenticate(r.Context(), token)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if len(roles) > 0 && !hasRole(p.Role, roles) {
				WriteError(w, http.StatusForbidden, "You do not have permission to access this resource")
				return
			}
			next(w, r.WithContext(WithPrincipal(r.Context(), p)))
		}
	}
}

// BearerToken 依次从 Authorization 头和 access_token 查询参数中取 token（后者用于 websocket）。
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

func hasRole(role string, allowed []string) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
