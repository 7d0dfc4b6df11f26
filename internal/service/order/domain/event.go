package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPlaced 在下单事务提交后发布，notification-worker 据此发送确认邮件。
type OrderPlaced struct {
	EventID      string          `json:"eventId"`
	OrderID      string          `json:"orderId"`
	UserID       string          `json:"userId"`
	Email        string          `json:"email"`
	UserName     string          `json:"userName"`
	ClaimCode    string          `json:"claimCode"`
	FinalAmount  decimal.Decimal `json:"finalAmount"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Items        []PlacedItem    `json:"items"`
	PlacedAt     time.Time       `json:"placedAt"`
}

type PlacedItem struct {
	Title        string          `json:"title"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

// NewOrderPlaced 由订单和下单用户构造事件。
func NewOrderPlaced(o *Order, c *Customer) *OrderPlaced {
	e := &OrderPlaced{
		EventID:      uuid.NewString(),
		OrderID:      o.ID,
		UserID:       o.UserID,
		Email:        c.Email,
		UserName:     c.UserName,
		ClaimCode:    o.ClaimCode,
		FinalAmount:  o.FinalAmount,
		DiscountRate: o.DiscountRate,
		PlacedAt:     o.OrderDate,
	}
	for _, it := range o.Items {
		e.Items = append(e.Items, PlacedItem{Title: it.BookTitle, Quantity: it.Quantity, PricePerUnit: it.PricePerUnit})
	}
	return e
}

// Notice 是提货完成后广播给所有在线用户、并持久化的购买动态。
type Notice struct {
	ID        string
	Message   string
	CreatedAt time.Time
}

// NewPurchaseNotice 生成 "{username} purchased {n} book(s): {titles}"。
func NewPurchaseNotice(userName string, o *Order, now time.Time) *Notice {
	titles := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		titles = append(titles, it.BookTitle)
	}
	return &Notice{
		ID:        uuid.NewString(),
		Message:   fmt.Sprintf("%s purchased %d book(s): %s", userName, o.TotalQuantity(), strings.Join(titles, ", ")),
		CreatedAt: now,
	}
}
