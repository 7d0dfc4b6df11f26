package application

import (
	"errors"

	"bookhub/internal/service/order/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookhub_orders_placed_total",
		Help: "Number of orders placed.",
	})

	claimsRedeemed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookhub_claims_redeemed_total",
		Help: "Claim code redemptions by result.",
	}, []string{"result"})
)

// claimResult 把核销结果归类为指标标签。
func claimResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrClaimCodeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrOrderAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, domain.ErrOrderCancelled):
		return "cancelled"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrClaimInProgress):
		return "busy"
	default:
		return "error"
	}
}
