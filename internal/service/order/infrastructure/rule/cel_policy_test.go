package rule

import (
	"context"
	"testing"

	"bookhub/internal/pkg/bootstrap"
	"bookhub/internal/service/order/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(adj []domain.Adjustment) []string {
	out := []string{}
	for _, a := range adj {
		out = append(out, a.Name)
	}
	return out
}

func TestDefaultRules(t *testing.T) {
	p, err := NewCELDiscountPolicy(bootstrap.DefaultDiscountRules())
	require.NoError(t, err)

	cases := []struct {
		name     string
		qty      int
		complete int
		want     []string
	}{
		{"nothing", 4, 0, []string{}},
		{"bulk", 5, 3, []string{"bulk"}},
		{"loyalty only on exactly ten", 1, 10, []string{"loyalty"}},
		{"eleven is not ten", 1, 11, []string{}},
		{"both", 7, 10, []string{"bulk", "loyalty"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hits, err := p.Evaluate(context.Background(), domain.PricingFacts{
				TotalQuantity:      tc.qty,
				CompleteOrderCount: tc.complete,
				Subtotal:           decimal.NewFromInt(100),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(hits))
		})
	}

	hits, err := p.Evaluate(context.Background(), domain.PricingFacts{TotalQuantity: 5, CompleteOrderCount: 10})
	require.NoError(t, err)
	assert.False(t, hits[0].ResetsLoyalty)
	assert.True(t, hits[1].ResetsLoyalty)
	assert.Equal(t, "0.1", hits[1].Rate.String())
}

func TestSubtotalRule(t *testing.T) {
	p, err := NewCELDiscountPolicy([]bootstrap.DiscountRule{
		{Name: "big-spender", Expression: "subtotal >= 1000.0", Rate: "0.02"},
	})
	require.NoError(t, err)

	hits, err := p.Evaluate(context.Background(), domain.PricingFacts{Subtotal: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestInvalidRules(t *testing.T) {
	cases := []bootstrap.DiscountRule{
		{Name: "syntax", Expression: "total_quantity >=", Rate: "0.1"},
		{Name: "not-bool", Expression: "total_quantity + 1", Rate: "0.1"},
		{Name: "unknown-var", Expression: "coupons > 1", Rate: "0.1"},
		{Name: "bad-rate", Expression: "true", Rate: "ten"},
		{Name: "rate-range", Expression: "true", Rate: "1.5"},
	}
	for _, d := range cases {
		t.Run(d.Name, func(t *testing.T) {
			_, err := NewCELDiscountPolicy([]bootstrap.DiscountRule{d})
			assert.Error(t, err)
		})
	}
}
