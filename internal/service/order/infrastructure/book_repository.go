package infrastructure

import (
	"context"

	catalogstore "bookhub/internal/service/catalog/infrastructure"
	"bookhub/internal/service/order/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// bookRepository 读写 catalog 的 books 表，只涉及订单流程需要的列。
type bookRepository struct {
	db *gorm.DB
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	var m catalogstore.BookModel
	err := r.db.WithContext(ctx).
		Select("id", "title", "author", "genre", "image", "price", "quantity", "discount").
		Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, errors.Wrap(err, "failed to query book")
	}
	return toOrderBook(&m), nil
}

func (r *bookRepository) findByIDs(ctx context.Context, ids []string) (map[string]*domain.Book, error) {
	out := make(map[string]*domain.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []catalogstore.BookModel
	err := r.db.WithContext(ctx).
		Select("id", "title", "author", "genre", "image", "price", "quantity", "discount").
		Where("id IN ?", ids).Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}
	for i := range models {
		out[models[i].ID] = toOrderBook(&models[i])
	}
	return out, nil
}

// DecrementStock 使用 quantity >= ? 作为条件，库存永远不会被扣成负数。
func (r *bookRepository) DecrementStock(ctx context.Context, bookID string, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&catalogstore.BookModel{}).
		Where("id = ? AND quantity >= ?", bookID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "failed to decrement stock")
	}
	return res.RowsAffected == 1, nil
}

func toOrderBook(m *catalogstore.BookModel) *domain.Book {
	return &domain.Book{
		ID:       m.ID,
		Title:    m.Title,
		Author:   m.Author,
		Genre:    m.Genre,
		Image:    m.Image,
		Price:    m.Price,
		Quantity: m.Quantity,
		Discount: m.Discount,
	}
}
