package domain

import "time"

// PasswordHasher 负责口令的单向哈希。
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare 不匹配时返回 ErrInvalidCredentials。
	Compare(hash, password string) error
}

// Claims 是令牌中携带的身份信息。
type Claims struct {
	UserID   string
	UserName string
	Email    string
	Role     Role
}

// TokenIssuer 签发并校验访问令牌。
type TokenIssuer interface {
	Issue(u *User) (token string, expiresAt time.Time, err error)
	Parse(token string) (*Claims, error)
}
