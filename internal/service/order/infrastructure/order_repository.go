package infrastructure

import (
	"context"

	identitystore "bookhub/internal/service/identity/infrastructure"
	"bookhub/internal/service/order/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(FromDomainOrder(o)).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	return nil
}

func (r *orderRepository) first(ctx context.Context, notFound error, query string, args ...any) (*domain.Order, error) {
	var m OrderModel
	err := r.db.WithContext(ctx).Preload("Items").Where(query, args...).
		Order("order_date DESC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, errors.Wrap(err, "failed to query order")
	}
	return ToDomainOrder(&m), nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.first(ctx, domain.ErrOrderNotFound, "id = ?", id)
}

func (r *orderRepository) FindByClaimCode(ctx context.Context, code string) (*domain.Order, error) {
	return r.first(ctx, domain.ErrClaimCodeNotFound, "claim_code = ? OR redeemed_code = ?", code, code)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).
		Order("order_date DESC").Order("id").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	out := make([]*domain.Order, 0, len(models))
	for i := range models {
		out = append(out, ToDomainOrder(&models[i]))
	}
	return out, nil
}

// ListAll 返回全部订单并附上下单用户的用户名和邮箱。
func (r *orderRepository) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	var models []OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").Order("order_date DESC").Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	userIDs := make([]string, 0, len(models))
	for _, m := range models {
		userIDs = append(userIDs, m.UserID)
	}
	var users []identitystore.UserModel
	if len(userIDs) > 0 {
		err := r.db.WithContext(ctx).Select("id", "user_name", "email").Where("id IN ?", userIDs).Find(&users).Error
		if err != nil {
			return nil, errors.Wrap(err, "failed to query order owners")
		}
	}
	byID := make(map[string]identitystore.UserModel, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]domain.OrderView, 0, len(models))
	for i := range models {
		u := byID[models[i].UserID]
		out = append(out, domain.OrderView{Order: *ToDomainOrder(&models[i]), UserName: u.UserName, Email: u.Email})
	}
	return out, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, o *domain.Order, from domain.Status) error {
	res := r.db.WithContext(ctx).Model(&OrderModel{}).
		Where("id = ? AND status = ?", o.ID, from).
		Updates(map[string]any{
			"status":        o.Status,
			"claim_code":    nullable(o.ClaimCode),
			"redeemed_code": nullable(o.RedeemedCode),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update order status")
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusChanged
	}
	return nil
}
