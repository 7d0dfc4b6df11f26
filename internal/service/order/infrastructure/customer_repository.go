package infrastructure

import (
	"context"

	identitystore "bookhub/internal/service/identity/infrastructure"
	notificationstore "bookhub/internal/service/notification/infrastructure"
	"bookhub/internal/service/order/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// customerRepository 读写 identity 的 users 表。完成单数只在这里被修改。
type customerRepository struct {
	db *gorm.DB
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	var m identitystore.UserModel
	err := r.db.WithContext(ctx).Select("id", "user_name", "email", "complete_order_count").
		Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, errors.Wrap(err, "failed to query customer")
	}
	return &domain.Customer{ID: m.ID, UserName: m.UserName, Email: m.Email, CompleteOrderCount: m.CompleteOrderCount}, nil
}

func (r *customerRepository) ResetLoyalty(ctx context.Context, id string, expected int) error {
	res := r.db.WithContext(ctx).Model(&identitystore.UserModel{}).
		Where("id = ? AND complete_order_count = ?", id, expected).
		UpdateColumn("complete_order_count", 0)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to reset loyalty counter")
	}
	if res.RowsAffected == 0 {
		return domain.ErrLoyaltyChanged
	}
	return nil
}

func (r *customerRepository) IncrementCompleted(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&identitystore.UserModel{}).
		Where("id = ?", id).
		UpdateColumn("complete_order_count", gorm.Expr("complete_order_count + 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to increment completed orders")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// noticeRepository 写入 notification 上下文的 notifications 表，与核销同一事务。
type noticeRepository struct {
	db *gorm.DB
}

func (r *noticeRepository) Create(ctx context.Context, n *domain.Notice) error {
	m := &notificationstore.NotificationModel{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return errors.Wrap(err, "failed to create notification")
	}
	return nil
}
