package infrastructure

import (
	"context"
	"time"

	catalogstore "bookhub/internal/service/catalog/infrastructure"
	"bookhub/internal/service/dashboard/domain"
	identitystore "bookhub/internal/service/identity/infrastructure"
	orderdomain "bookhub/internal/service/order/domain"
	orderstore "bookhub/internal/service/order/infrastructure"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStatsReader 直接在各上下文的表上做聚合查询。
type GormStatsReader struct {
	db *gorm.DB
}

func NewGormStatsReader(db *gorm.DB) *GormStatsReader {
	return &GormStatsReader{db: db}
}

func (r *GormStatsReader) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&identitystore.UserModel{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "failed to count %s users", role)
	}
	return n, nil
}

func (r *GormStatsReader) CountBooks(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&catalogstore.BookModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count books")
	}
	return n, nil
}

func (r *GormStatsReader) CountOutOfStock(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&catalogstore.BookModel{}).Where("quantity = 0").Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count out of stock books")
	}
	return n, nil
}

func (r *GormStatsReader) CountOrdersByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&orderstore.OrderModel{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "failed to count %s orders", status)
	}
	return n, nil
}

func (r *GormStatsReader) CompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).Model(&orderstore.OrderModel{}).
		Select("COALESCE(SUM(final_amount), 0)").
		Where("status = ?", orderdomain.StatusCompleted).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum revenue")
	}
	return total, nil
}

type latestOrderRow struct {
	OrderDate   time.Time
	FinalAmount decimal.Decimal
	Status      string
	UserName    string
	Email       string
}

func (r *GormStatsReader) LatestOrders(ctx context.Context, limit int) ([]domain.LatestOrder, error) {
	var rows []latestOrderRow
	err := r.db.WithContext(ctx).Model(&orderstore.OrderModel{}).
		Select("orders.order_date, orders.final_amount, orders.status, users.user_name, users.email").
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.order_date DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query latest orders")
	}
	out := make([]domain.LatestOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LatestOrder(row))
	}
	return out, nil
}
