package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role 是封闭的角色枚举。
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
	RoleUser  Role = "User"
)

// ParseRole 只接受已知角色，大小写不敏感。
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "staff":
		return RoleStaff, nil
	case "user":
		return RoleUser, nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }

// User 是身份上下文的聚合根。
// CompleteOrderCount 只能由订单上下文在核销/下单事务中修改。
type User struct {
	ID                 string
	UserName           string
	Email              string
	PasswordHash       string
	Role               Role
	CompleteOrderCount int
	CreatedAt          time.Time
}

// NewUser 创建一个尚未持久化的用户。
func NewUser(userName, email, passwordHash string, role Role) *User {
	return &User{
		ID:           uuid.NewString(),
		UserName:     userName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

// AssignRole 修改角色。管理员只能在 Staff 和 User 之间调整他人。
func (u *User) AssignRole(role Role) error {
	if role != RoleStaff && role != RoleUser {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}
