package domain

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(qty, price, discount int) CartLine {
	return CartLine{
		CartItem: CartItem{BookID: "b1", Quantity: qty, PricePerUnit: price},
		Book:     &Book{ID: "b1", Title: "Dune", Price: price, Quantity: 100, Discount: discount},
	}
}

func bulk() Adjustment {
	return Adjustment{Name: "bulk", Rate: decimal.RequireFromString("0.05")}
}

func loyalty() Adjustment {
	return Adjustment{Name: "loyalty", Rate: decimal.RequireFromString("0.10"), ResetsLoyalty: true}
}

func TestQuoteScenarios(t *testing.T) {
	t.Run("single line without cart discount", func(t *testing.T) {
		sub, total, err := Subtotal([]CartLine{line(3, 100, 10)})
		require.NoError(t, err)
		q := NewQuote(sub, total, nil)
		assert.Equal(t, "270", q.Subtotal.String())
		assert.Equal(t, "270", q.FinalAmount.String())
		assert.Equal(t, "0%", DiscountPercent(q.DiscountRate))
	})

	t.Run("bulk discount at five books", func(t *testing.T) {
		sub, total, err := Subtotal([]CartLine{line(5, 100, 10)})
		require.NoError(t, err)
		q := NewQuote(sub, total, []Adjustment{bulk()})
		assert.Equal(t, "427.5", q.FinalAmount.String())
		assert.Equal(t, "5%", DiscountPercent(q.DiscountRate))
		assert.False(t, q.ResetLoyalty)
	})

	t.Run("bulk and loyalty stack", func(t *testing.T) {
		sub, total, err := Subtotal([]CartLine{line(5, 100, 10)})
		require.NoError(t, err)
		q := NewQuote(sub, total, []Adjustment{bulk(), loyalty()})
		assert.Equal(t, "0.15", q.DiscountRate.String())
		assert.Equal(t, "382.5", q.FinalAmount.String())
		assert.True(t, q.ResetLoyalty)
		assert.Equal(t, []string{"bulk", "loyalty"}, q.Applied)
	})

	t.Run("rate is capped at one", func(t *testing.T) {
		q := NewQuote(decimal.NewFromInt(10), 1, []Adjustment{{Rate: decimal.NewFromInt(2)}})
		assert.True(t, q.FinalAmount.IsZero())
	})
}

func TestFinalAmountNonIncreasingInRate(t *testing.T) {
	sub := decimal.RequireFromString("123.45")
	prev := NewQuote(sub, 1, nil).FinalAmount
	for _, adj := range [][]Adjustment{{bulk()}, {loyalty()}, {bulk(), loyalty()}} {
		q := NewQuote(sub, 1, adj)
		assert.True(t, q.FinalAmount.LessThanOrEqual(prev))
		assert.True(t, q.FinalAmount.Equal(sub.Mul(one.Sub(q.DiscountRate)).Round(2)))
		prev = q.FinalAmount
	}
}

func TestSubtotalRejectsMissingBook(t *testing.T) {
	l := line(1, 10, 0)
	l.Book = nil
	_, _, err := Subtotal([]CartLine{l})
	assert.ErrorIs(t, err, ErrCartBookUnavailable)
}

func TestCartItemStockRules(t *testing.T) {
	book := &Book{ID: "b1", Price: 40, Quantity: 4}
	now := time.Now()

	_, err := NewCartItem("u1", book, 0, now)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewCartItem("u1", book, 5, now)
	assert.ErrorIs(t, err, ErrStockLimit)
	assert.EqualError(t, err, "Only 4 units available in stock. You tried to add 5.")

	item, err := NewCartItem("u1", book, 3, now)
	require.NoError(t, err)
	assert.Equal(t, 40, item.PricePerUnit)

	err = item.Increase(book, 2, now)
	assert.EqualError(t, err, "Only 4 units available in stock. You tried to add 5.")
	assert.Equal(t, 3, item.Quantity)

	require.NoError(t, item.Increase(book, 1, now))
	assert.Equal(t, "160", item.LineTotal().String())

	assert.ErrorIs(t, item.SetQuantity(book, 9), ErrStockLimit)
	assert.ErrorIs(t, item.SetQuantity(book, -1), ErrInvalidQuantity)
	require.NoError(t, item.SetQuantity(book, 2))
	assert.Equal(t, 2, item.Quantity)
}

func TestOrderTransitions(t *testing.T) {
	newOrder := func() *Order {
		q := NewQuote(decimal.NewFromInt(100), 1, nil)
		return NewOrder("u1", []CartLine{line(1, 100, 0)}, q, time.Now())
	}

	o := newOrder()
	assert.Equal(t, StatusPending, o.Status)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), o.ClaimCode)
	assert.Equal(t, "Dune", o.Items[0].BookTitle)

	code := o.ClaimCode
	require.NoError(t, o.Complete())
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Empty(t, o.ClaimCode)
	assert.Equal(t, code, o.RedeemedCode)
	assert.ErrorIs(t, o.Complete(), ErrOrderAlreadyCompleted)
	assert.ErrorIs(t, o.Cancel(), ErrOrderAlreadyCompleted)
	assert.Equal(t, StatusCompleted, o.Status)

	c := newOrder()
	require.NoError(t, c.Cancel())
	assert.NotEmpty(t, c.ClaimCode)
	assert.ErrorIs(t, c.Cancel(), ErrOrderCancelled)
	assert.ErrorIs(t, c.Complete(), ErrOrderCancelled)

	assert.True(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
}

func TestPurchaseNotice(t *testing.T) {
	o := &Order{Items: []OrderItem{{BookTitle: "Dune", Quantity: 2}, {BookTitle: "Emma", Quantity: 1}}}
	n := NewPurchaseNotice("alice", o, time.Now())
	assert.Equal(t, "alice purchased 3 book(s): Dune, Emma", n.Message)

	err := &InsufficientStockError{Title: "Dune", Available: 1, Requested: 2}
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Dune")
}
