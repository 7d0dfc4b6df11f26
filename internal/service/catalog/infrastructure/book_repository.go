package infrastructure

import (
	"context"
	"strings"
	"time"

	"bookhub/internal/pkg/database"
	"bookhub/internal/service/catalog/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormBookRepository 是 BookRepository 的 GORM 实现
type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) Create(ctx context.Context, b *domain.Book) error {
	if err := r.db.WithContext(ctx).Create(FromDomainBook(b)).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return domain.ErrDuplicateBook
		}
		return errors.Wrap(err, "failed to create book")
	}
	return nil
}

// Save 更新可编辑字段。库存字段也由管理员维护，因此一并写回。
func (r *GormBookRepository) Save(ctx context.Context, b *domain.Book) error {
	m := FromDomainBook(b)
	res := r.db.WithContext(ctx).Model(&BookModel{}).Where("id = ?", b.ID).
		Select("title", "description", "author", "genre", "image", "publish_date", "publisher",
			"language", "format", "isbn", "price", "quantity", "discount", "start_date", "end_date",
			"award_winner", "available_in_library", "is_on_sale").
		Updates(m)
	if res.Error != nil {
		if database.IsDuplicateKey(res.Error) {
			return domain.ErrDuplicateBook
		}
		return errors.Wrap(res.Error, "failed to update book")
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// Delete 删除图书及其评论和收藏。
func (r *GormBookRepository) Delete(ctx context.Context, id string) error {
	return database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&BookModel{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to delete book")
		}
		if res.RowsAffected == 0 {
			return domain.ErrBookNotFound
		}
		if err := tx.Where("book_id = ?", id).Delete(&ReviewModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete reviews")
		}
		if err := tx.Where("book_id = ?", id).Delete(&BookmarkModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete bookmarks")
		}
		return nil
	})
}

func (r *GormBookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	var m BookModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, errors.Wrap(err, "failed to query book")
	}
	return ToDomainBook(&m), nil
}

func (r *GormBookRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []BookModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}
	return toDomainBooks(models), nil
}

func (r *GormBookRepository) ExistsByTitleOrISBN(ctx context.Context, title, isbn, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&BookModel{}).Where("(title = ? OR isbn = ?)", title, isbn)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "failed to check duplicate book")
	}
	return n > 0, nil
}

func (r *GormBookRepository) List(ctx context.Context, offset, limit int) ([]*domain.Book, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookModel{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count books")
	}
	var models []BookModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Offset(offset).Limit(limit).Find(&models).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list books")
	}
	return toDomainBooks(models), total, nil
}

// Search 标题模糊匹配、类型/语言精确匹配（均不区分大小写）、价格闭区间过滤。
func (r *GormBookRepository) Search(ctx context.Context, c domain.SearchCriteria) ([]*domain.Book, error) {
	q := r.db.WithContext(ctx).Model(&BookModel{})
	if s := strings.TrimSpace(c.Query); s != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(s))+"%")
	}
	if s := strings.TrimSpace(c.Genre); s != "" {
		q = q.Where("LOWER(genre) = ?", strings.ToLower(s))
	}
	if s := strings.TrimSpace(c.Language); s != "" {
		q = q.Where("LOWER(language) = ?", strings.ToLower(s))
	}
	if c.MinPrice != nil {
		q = q.Where("price >= ?", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		q = q.Where("price <= ?", *c.MaxPrice)
	}

	dir := "ASC"
	if c.Descending {
		dir = "DESC"
	}
	switch c.SortBy {
	case domain.SortByPrice:
		q = q.Order("price " + dir)
	case domain.SortByTitle:
		q = q.Order("title " + dir)
	default:
		q = q.Order("created_at DESC")
	}

	var models []BookModel
	if err := q.Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to search books")
	}
	return toDomainBooks(models), nil
}

// escapeLike 使用 '!' 作为转义符，MySQL 与 SQLite 行为一致。
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func (r *GormBookRepository) CreatedSince(ctx context.Context, since time.Time) ([]*domain.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).Where("created_at >= ?", since).Order("created_at DESC").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent books")
	}
	return toDomainBooks(models), nil
}

func (r *GormBookRepository) ListByFeed(ctx context.Context, feed domain.Feed) ([]*domain.Book, error) {
	q := r.db.WithContext(ctx).Model(&BookModel{})
	switch feed {
	case domain.FeedAwardWinning:
		q = q.Where("award_winner = ?", true)
	case domain.FeedComingSoon:
		q = q.Where("available_in_library = ?", false)
	case domain.FeedDeals:
		q = q.Where("is_on_sale = ?", true)
	default:
		return nil, errors.Errorf("unsupported feed %q", feed)
	}
	var models []BookModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list feed")
	}
	return toDomainBooks(models), nil
}

type ratingRow struct {
	BookID  string
	Average float64
	Total   int
}

// RatingSummaries 在读取时按书聚合评论，没有评论的书不出现在结果中。
func (r *GormBookRepository) RatingSummaries(ctx context.Context, bookIDs []string) (map[string]domain.RatingSummary, error) {
	out := make(map[string]domain.RatingSummary, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	var rows []ratingRow
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Select("book_id, AVG(rating) AS average, COUNT(*) AS total").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate ratings")
	}
	for _, row := range rows {
		out[row.BookID] = domain.RatingSummary{AverageRating: row.Average, TotalReviews: row.Total}
	}
	return out, nil
}
