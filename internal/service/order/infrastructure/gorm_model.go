package infrastructure

import (
	"time"

	"bookhub/internal/service/order/domain"

	"github.com/shopspring/decimal"
)

// CartModel 对应 carts 表，每个用户每本书至多一行。
type CartModel struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	UserID       string    `gorm:"type:char(36);not null;uniqueIndex:idx_carts_user_book"`
	BookID       string    `gorm:"type:char(36);not null;uniqueIndex:idx_carts_user_book"`
	Quantity     int       `gorm:"not null"`
	PricePerUnit int       `gorm:"not null"`
	DateAdded    time.Time `gorm:"not null"`
}

func (CartModel) TableName() string {
	return "carts"
}

// OrderModel 对应 orders 表。ClaimCode 核销后置空，原值保存在 RedeemedCode。
type OrderModel struct {
	ID           string           `gorm:"type:char(36);primaryKey"`
	UserID       string           `gorm:"type:char(36);not null;index"`
	OrderDate    time.Time        `gorm:"not null;index"`
	Subtotal     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DiscountRate decimal.Decimal  `gorm:"type:decimal(5,4);not null"`
	FinalAmount  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Status       domain.Status    `gorm:"size:16;not null;index"`
	ClaimCode    *string          `gorm:"size:16;index"`
	RedeemedCode *string          `gorm:"size:16;index"`
	Items        []OrderItemModel `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 对应 order_items 表
type OrderItemModel struct {
	ID           string          `gorm:"type:char(36);primaryKey"`
	OrderID      string          `gorm:"type:char(36);not null;index"`
	BookID       string          `gorm:"type:char(36);not null;index"`
	BookTitle    string          `gorm:"size:100"`
	BookImage    string          `gorm:"size:512"`
	Quantity     int             `gorm:"not null"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}
