package infrastructure

import (
	"context"
	"time"

	"bookhub/internal/pkg/database"
	"bookhub/internal/service/catalog/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := &ReviewModel{
		ID:        rv.ID,
		UserID:    rv.UserID,
		BookID:    rv.BookID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return domain.ErrAlreadyReviewed
		}
		return errors.Wrap(err, "failed to create review")
	}
	return nil
}

func (r *GormReviewRepository) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check review")
	}
	return n > 0, nil
}

type reviewRow struct {
	ID        string
	UserID    string
	BookID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
	BookTitle string
	UserName  string
}

func (r *GormReviewRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("reviews").
		Select("reviews.id, reviews.user_id, reviews.book_id, reviews.rating, reviews.comment, reviews.created_at, " +
			"books.title AS book_title, COALESCE(users.user_name, '') AS user_name").
		Joins("JOIN books ON books.id = reviews.book_id").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Order("reviews.created_at DESC")
}

func (r *GormReviewRepository) ListByBook(ctx context.Context, bookID string) ([]domain.ReviewView, error) {
	var rows []reviewRow
	if err := r.query(ctx).Where("reviews.book_id = ?", bookID).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}
	return toReviewViews(rows), nil
}

func (r *GormReviewRepository) ListAll(ctx context.Context) ([]domain.ReviewView, error) {
	var rows []reviewRow
	if err := r.query(ctx).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}
	return toReviewViews(rows), nil
}

func toReviewViews(rows []reviewRow) []domain.ReviewView {
	out := make([]domain.ReviewView, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ReviewView{
			Review: domain.Review{
				ID:        row.ID,
				UserID:    row.UserID,
				BookID:    row.BookID,
				Rating:    row.Rating,
				Comment:   row.Comment,
				CreatedAt: row.CreatedAt,
			},
			BookTitle: row.BookTitle,
			UserName:  row.UserName,
		})
	}
	return out
}
