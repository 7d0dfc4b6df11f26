package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem 是订单中的一行，单价和书名在下单时固化。
type OrderItem struct {
	ID           string
	OrderID      string
	BookID       string
	BookTitle    string
	BookImage    string
	Quantity     int
	PricePerUnit decimal.Decimal
}

// Order 是订单聚合根。下单后明细不再变化，只有状态和提货码会被修改。
type Order struct {
	ID           string
	UserID       string
	OrderDate    time.Time
	Subtotal     decimal.Decimal
	DiscountRate decimal.Decimal
	FinalAmount  decimal.Decimal
	Status       Status
	ClaimCode    string
	// RedeemedCode 保存已核销的提货码，用于识别重复核销。
	RedeemedCode string
	Items        []OrderItem
}

// NewClaimCode 生成 8 位大写字母数字提货码。
func NewClaimCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// NewOrder 把购物车行和计价结果固化为一张待提货订单。
func NewOrder(userID string, lines []CartLine, quote Quote, now time.Time) *Order {
	o := &Order{
		ID:           uuid.NewString(),
		UserID:       userID,
		OrderDate:    now,
		Subtotal:     quote.Subtotal,
		DiscountRate: quote.DiscountRate,
		FinalAmount:  quote.FinalAmount,
		Status:       StatusPending,
		ClaimCode:    NewClaimCode(),
		Items:        make([]OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		item := OrderItem{
			ID:           uuid.NewString(),
			OrderID:      o.ID,
			BookID:       l.BookID,
			Quantity:     l.Quantity,
			PricePerUnit: decimal.NewFromInt(int64(l.PricePerUnit)),
		}
		if l.Book != nil {
			item.BookTitle = l.Book.Title
			item.BookImage = l.Book.Image
		}
		o.Items = append(o.Items, item)
	}
	return o
}

// CheckPending 在订单不是 Pending 时返回对应的业务错误。
func (o *Order) CheckPending() error {
	switch o.Status {
	case StatusCompleted:
		return ErrOrderAlreadyCompleted
	case StatusCancelled:
		return ErrOrderCancelled
	}
	return nil
}

// Cancel 取消一张待提货订单。提货码保留，核销时据此给出"已取消"。
func (o *Order) Cancel() error {
	if err := o.CheckPending(); err != nil {
		return err
	}
	o.Status = StatusCancelled
	return nil
}

// Complete 标记订单已提货，提货码一次性失效。
func (o *Order) Complete() error {
	if err := o.CheckPending(); err != nil {
		return err
	}
	o.Status = StatusCompleted
	o.RedeemedCode = o.ClaimCode
	o.ClaimCode = ""
	return nil
}

// TotalQuantity 是订单所有行的数量之和。
func (o *Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// OrderView 是带下单用户信息的订单，供员工和仪表盘查看。
type OrderView struct {
	Order
	UserName string
	Email    string
}
