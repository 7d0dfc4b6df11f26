package infrastructure

import (
	"context"
	"time"

	"bookhub/internal/pkg/database"
	"bookhub/internal/service/catalog/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormBookmarkRepository struct {
	db *gorm.DB
}

func NewGormBookmarkRepository(db *gorm.DB) *GormBookmarkRepository {
	return &GormBookmarkRepository{db: db}
}

func (r *GormBookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	m := &BookmarkModel{ID: b.ID, UserID: b.UserID, BookID: b.BookID, CreatedAt: b.CreatedAt}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return domain.ErrAlreadyBookmarked
		}
		return errors.Wrap(err, "failed to create bookmark")
	}
	return nil
}

type bookmarkRow struct {
	ID        string
	UserID    string
	BookID    string
	CreatedAt time.Time
	Title     string
	Author    string
	Image     string
	Price     int
}

func (r *GormBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]domain.BookmarkView, error) {
	var rows []bookmarkRow
	err := r.db.WithContext(ctx).Table("bookmarks").
		Select("bookmarks.id, bookmarks.user_id, bookmarks.book_id, bookmarks.created_at, "+
			"books.title, books.author, books.image, books.price").
		Joins("JOIN books ON books.id = bookmarks.book_id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookmarks")
	}
	out := make([]domain.BookmarkView, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BookmarkView{
			Bookmark: domain.Bookmark{ID: row.ID, UserID: row.UserID, BookID: row.BookID, CreatedAt: row.CreatedAt},
			Title:    row.Title,
			Author:   row.Author,
			Image:    row.Image,
			Price:    row.Price,
		})
	}
	return out, nil
}

func (r *GormBookmarkRepository) Delete(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&BookmarkModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete bookmark")
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookmarkNotFound
	}
	return nil
}
