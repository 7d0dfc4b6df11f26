package infrastructure

import (
	"time"

	"bookhub/internal/service/identity/domain"
)

// UserModel 对应数据库中的 users 表
type UserModel struct {
	ID                 string      `gorm:"type:char(36);primaryKey"`
	UserName           string      `gorm:"size:100;not null;uniqueIndex:idx_users_user_name"`
	Email              string      `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash       string      `gorm:"size:255;not null"`
	Role               domain.Role `gorm:"size:16;not null;index"`
	CompleteOrderCount int         `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName 指定 GORM 应该使用的表名
func (UserModel) TableName() string {
	return "users"
}
