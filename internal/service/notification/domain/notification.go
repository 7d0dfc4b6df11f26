package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Notification 是一条面向所有用户的购买动态。
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	// ListRecent 按创建时间倒序返回全部通知。
	ListRecent(ctx context.Context) ([]*Notification, error)
}

// Publisher 把通知发布到集群内的所有 API 节点。
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

// OrderConfirmation 是 order-emails 主题上的消息体，字段与下单事件一致。
type OrderConfirmation struct {
	EventID      string             `json:"eventId"`
	OrderID      string             `json:"orderId"`
	UserID       string             `json:"userId"`
	Email        string             `json:"email"`
	UserName     string             `json:"userName"`
	ClaimCode    string             `json:"claimCode"`
	FinalAmount  decimal.Decimal    `json:"finalAmount"`
	DiscountRate decimal.Decimal    `json:"discountRate"`
	Items        []ConfirmationItem `json:"items"`
	PlacedAt     time.Time          `json:"placedAt"`
}

type ConfirmationItem struct {
	Title        string          `json:"title"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

// Email 是一封待发送的 HTML 邮件。
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer 负责实际投递邮件。
type Mailer interface {
	Send(ctx context.Context, e *Email) error
}
