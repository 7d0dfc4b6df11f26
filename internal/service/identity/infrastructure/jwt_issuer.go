package infrastructure

import (
	"time"

	"bookhub/internal/service/identity/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// tokenClaims 沿用前端依赖的字段名：nameid / name / email / role。
type tokenClaims struct {
	UserID   string `json:"nameid"`
	UserName string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer 使用 HS256 签发令牌。
type JWTIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewJWTIssuer(secret, issuer, audience string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (j *JWTIssuer) Issue(u *domain.User) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.ttl)
	claims := tokenClaims{
		UserID:   u.ID,
		UserName: u.UserName,
		Email:    u.Email,
		Role:     u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign token")
	}
	return token, exp, nil
}

func (j *JWTIssuer) Parse(token string) (*domain.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithTimeFunc(j.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidToken, err.Error())
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Claims{
		UserID:   claims.UserID,
		UserName: claims.UserName,
		Email:    claims.Email,
		Role:     role,
	}, nil
}
