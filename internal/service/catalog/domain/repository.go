package domain

import (
	"context"
	"time"
)

// BookRepository 定义了图书的持久化接口
type BookRepository interface {
	Create(ctx context.Context, b *Book) error
	Save(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Book, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Book, error)
	// ExistsByTitleOrISBN 检查重名或重复 ISBN，excludeID 用于修改时排除自身。
	ExistsByTitleOrISBN(ctx context.Context, title, isbn, excludeID string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*Book, int64, error)
	Search(ctx context.Context, c SearchCriteria) ([]*Book, error)
	CreatedSince(ctx context.Context, since time.Time) ([]*Book, error)
	ListByFeed(ctx context.Context, feed Feed) ([]*Book, error)
	RatingSummaries(ctx context.Context, bookIDs []string) (map[string]RatingSummary, error)
}

type ReviewRepository interface {
	// Create 在 (user, book) 已存在评论时返回 ErrAlreadyReviewed。
	Create(ctx context.Context, r *Review) error
	Exists(ctx context.Context, userID, bookID string) (bool, error)
	ListByBook(ctx context.Context, bookID string) ([]ReviewView, error)
	ListAll(ctx context.Context) ([]ReviewView, error)
}

type BookmarkRepository interface {
	// Create 在 (user, book) 已收藏时返回 ErrAlreadyBookmarked。
	Create(ctx context.Context, b *Bookmark) error
	ListByUser(ctx context.Context, userID string) ([]BookmarkView, error)
	// Delete 只删除属于 userID 的收藏。
	Delete(ctx context.Context, id, userID string) error
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	Save(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Announcement, error)
	ListAll(ctx context.Context) ([]*Announcement, error)
	ListLive(ctx context.Context, now time.Time) ([]*Announcement, error)
}
