package infrastructure

import (
	"context"

	"bookhub/internal/pkg/database"
	"bookhub/internal/service/order/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

func (r *cartRepository) first(ctx context.Context, query string, args ...any) (*domain.CartItem, error) {
	var m CartModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, errors.Wrap(err, "failed to query cart item")
	}
	return ToDomainCartItem(&m), nil
}

func (r *cartRepository) FindByID(ctx context.Context, id, userID string) (*domain.CartItem, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *cartRepository) FindByBook(ctx context.Context, userID, bookID string) (*domain.CartItem, error) {
	return r.first(ctx, "user_id = ? AND book_id = ?", userID, bookID)
}

func (r *cartRepository) Create(ctx context.Context, c *domain.CartItem) error {
	if err := r.db.WithContext(ctx).Create(FromDomainCartItem(c)).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return domain.ErrCartConflict
		}
		return errors.Wrap(err, "failed to create cart item")
	}
	return nil
}

func (r *cartRepository) Save(ctx context.Context, c *domain.CartItem) error {
	res := r.db.WithContext(ctx).Model(&CartModel{}).
		Where("id = ? AND user_id = ?", c.ID, c.UserID).
		Updates(map[string]any{"quantity": c.Quantity, "date_added": c.DateAdded})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update cart item")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&CartModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete cart item")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// ListByUser 返回用户的购物车行并附上图书信息，已删除的图书对应 Book 为 nil。
func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	var models []CartModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date_added").Order("id").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart")
	}

	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.BookID)
	}
	books, err := (&bookRepository{db: r.db}).findByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(models))
	for i := range models {
		lines = append(lines, domain.CartLine{CartItem: *ToDomainCartItem(&models[i]), Book: books[models[i].BookID]})
	}
	return lines, nil
}

func (r *cartRepository) ClearUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	return nil
}
