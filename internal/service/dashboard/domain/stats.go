package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LatestOrderLimit 是仪表盘展示的最新订单数。
const LatestOrderLimit = 5

// LatestOrder 是仪表盘上的一条最新订单摘要。
type LatestOrder struct {
	OrderDate   time.Time
	FinalAmount decimal.Decimal
	Status      string
	UserName    string
	Email       string
}

// Stats 汇总了后台首页需要的全部指标。
type Stats struct {
	TotalUsers          int64
	TotalStaff          int64
	TotalBooks          int64
	TotalPendingOrder   int64
	TotalCompletedOrder int64
	TotalRevenue        decimal.Decimal
	OutOfStock          int64
	LatestOrders        []LatestOrder
}

// StatsReader 提供各项只读统计，每个方法是一次独立查询。
type StatsReader interface {
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	CountBooks(ctx context.Context) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context, status string) (int64, error)
	CompletedRevenue(ctx context.Context) (decimal.Decimal, error)
	LatestOrders(ctx context.Context, limit int) ([]LatestOrder, error)
}
