package infrastructure

import (
	"context"

	catalogdomain "bookhub/internal/service/catalog/domain"
	"bookhub/internal/service/order/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PurchaseLedger 基于订单数据为 catalog 提供购买校验和畅销榜。
type PurchaseLedger struct {
	db *gorm.DB
}

func NewPurchaseLedger(db *gorm.DB) *PurchaseLedger {
	return &PurchaseLedger{db: db}
}

// HasCompletedPurchase 实现 catalogdomain.PurchaseVerifier。
func (l *PurchaseLedger) HasCompletedPurchase(ctx context.Context, userID, bookID string) (bool, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.book_id = ?", userID, domain.StatusCompleted, bookID).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check purchase")
	}
	return n > 0, nil
}

// TopSelling 实现 catalogdomain.SalesRanking，按出现在订单行中的次数排序。
func (l *PurchaseLedger) TopSelling(ctx context.Context, limit int) ([]catalogdomain.SalesCount, error) {
	var rows []catalogdomain.SalesCount
	err := l.db.WithContext(ctx).Model(&OrderItemModel{}).
		Select("book_id, COUNT(*) AS order_count").
		Group("book_id").
		Order("order_count DESC").Order("book_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank books")
	}
	return rows, nil
}
