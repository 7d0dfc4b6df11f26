package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book 是订单流程用到的图书快照，数据来自 catalog 维护的 books 表。
type Book struct {
	ID       string
	Title    string
	Author   string
	Genre    string
	Image    string
	Price    int
	Quantity int
	Discount int
}

// CheckStock 校验 requested 是否超出当前库存。
func (b *Book) CheckStock(requested int) error {
	if requested > b.Quantity {
		return &StockLimitError{Available: b.Quantity, Requested: requested}
	}
	return nil
}

// CartItem 是购物车中的一行。PricePerUnit 是加入购物车时的价格快照，
// 结算时原样使用，与图书后续调价无关。
type CartItem struct {
	ID           string
	UserID       string
	BookID       string
	Quantity     int
	PricePerUnit int
	DateAdded    time.Time
}

// NewCartItem 以图书当前价格创建购物车行。
func NewCartItem(userID string, book *Book, quantity int, now time.Time) (*CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := book.CheckStock(quantity); err != nil {
		return nil, err
	}
	return &CartItem{
		ID:           uuid.NewString(),
		UserID:       userID,
		BookID:       book.ID,
		Quantity:     quantity,
		PricePerUnit: book.Price,
		DateAdded:    now,
	}, nil
}

// Increase 把数量累加到已有的行上，累加后的总量不能超过库存。
func (c *CartItem) Increase(book *Book, quantity int, now time.Time) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := book.CheckStock(c.Quantity + quantity); err != nil {
		return err
	}
	c.Quantity += quantity
	c.DateAdded = now
	return nil
}

// SetQuantity 覆盖数量，同样受库存约束。
func (c *CartItem) SetQuantity(book *Book, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := book.CheckStock(quantity); err != nil {
		return err
	}
	c.Quantity = quantity
	return nil
}

// LineTotal = 数量 × 快照单价。
func (c *CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(c.PricePerUnit)).Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartLine 是带图书信息的购物车行，用于展示和结算。
// 图书已被删除时 Book 为 nil。
type CartLine struct {
	CartItem
	Book *Book
}
