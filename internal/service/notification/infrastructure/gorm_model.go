package infrastructure

import "time"

// NotificationModel 对应 notifications 表
type NotificationModel struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
