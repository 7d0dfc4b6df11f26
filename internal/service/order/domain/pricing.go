package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// PricingFacts 是购物车级折扣规则可见的事实。
type PricingFacts struct {
	TotalQuantity      int
	CompleteOrderCount int
	Subtotal           decimal.Decimal
}

// Adjustment 是一条命中的购物车级折扣。
type Adjustment struct {
	Name          string
	Rate          decimal.Decimal
	ResetsLoyalty bool
}

// DiscountPolicy 根据事实给出命中的购物车级折扣，按规则配置顺序返回。
type DiscountPolicy interface {
	Evaluate(ctx context.Context, facts PricingFacts) ([]Adjustment, error)
}

// Quote 是一次下单的计价结果。
type Quote struct {
	Subtotal      decimal.Decimal
	TotalQuantity int
	DiscountRate  decimal.Decimal
	FinalAmount   decimal.Decimal
	ResetLoyalty  bool
	Applied       []string
}

// LineAmount 计算一行在书籍级折扣后的金额：数量 × 单价 × (1 − 折扣/100)。
func LineAmount(quantity, unitPrice, discountPercent int) decimal.Decimal {
	factor := one.Sub(decimal.NewFromInt(int64(discountPercent)).Div(hundred))
	return decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromInt(int64(unitPrice))).Mul(factor)
}

// Subtotal 汇总所有行的书籍级折扣后金额与总数量。每行都必须能找到对应图书。
func Subtotal(lines []CartLine) (decimal.Decimal, int, error) {
	subtotal := decimal.Zero
	total := 0
	for _, l := range lines {
		if l.Book == nil {
			return decimal.Zero, 0, ErrCartBookUnavailable
		}
		subtotal = subtotal.Add(LineAmount(l.Quantity, l.PricePerUnit, l.Book.Discount))
		total += l.Quantity
	}
	return subtotal, total, nil
}

// NewQuote 把命中的折扣率相加，finalAmount = subtotal × (1 − rate)，保留两位小数。
func NewQuote(subtotal decimal.Decimal, totalQuantity int, adjustments []Adjustment) Quote {
	q := Quote{Subtotal: subtotal, TotalQuantity: totalQuantity, DiscountRate: decimal.Zero}
	for _, a := range adjustments {
		q.DiscountRate = q.DiscountRate.Add(a.Rate)
		q.ResetLoyalty = q.ResetLoyalty || a.ResetsLoyalty
		q.Applied = append(q.Applied, a.Name)
	}
	if q.DiscountRate.GreaterThan(one) {
		q.DiscountRate = one
	}
	q.FinalAmount = subtotal.Mul(one.Sub(q.DiscountRate)).Round(2)
	return q
}

// DiscountPercent 把折扣率格式化成 "15%" 这样的文本。
func DiscountPercent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String() + "%"
}
