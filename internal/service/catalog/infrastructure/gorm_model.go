package infrastructure

import "time"

// BookModel 对应数据库中的 books 表
type BookModel struct {
	ID                 string `gorm:"type:char(36);primaryKey"`
	Title              string `gorm:"size:100;not null;uniqueIndex:idx_books_title"`
	Description        string `gorm:"type:text"`
	Author             string `gorm:"size:255;not null"`
	Genre              string `gorm:"size:100;not null;index"`
	Image              string `gorm:"size:512"`
	PublishDate        time.Time
	Publisher          string `gorm:"size:255"`
	Language           string `gorm:"size:64;not null;index"`
	Format             string `gorm:"size:64"`
	ISBN               string `gorm:"column:isbn;size:32;not null;uniqueIndex:idx_books_isbn"`
	Price              int    `gorm:"not null;index"`
	Quantity           int    `gorm:"not null"`
	Discount           int    `gorm:"not null;default:0"`
	StartDate          *time.Time
	EndDate            *time.Time
	AwardWinner        bool      `gorm:"not null;default:false"`
	AvailableInLibrary bool      `gorm:"not null;default:false"`
	IsOnSale           bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

// TableName 指定 GORM 应该使用的表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel 对应 reviews 表，(user_id, book_id) 唯一。
type ReviewModel struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	UserID    string `gorm:"type:char(36);not null;uniqueIndex:idx_reviews_user_book"`
	BookID    string `gorm:"type:char(36);not null;uniqueIndex:idx_reviews_user_book;index"`
	Rating    int    `gorm:"not null"`
	Comment   string `gorm:"type:text"`
	CreatedAt time.Time
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// BookmarkModel 对应 bookmarks 表，(user_id, book_id) 唯一。
type BookmarkModel struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	UserID    string `gorm:"type:char(36);not null;uniqueIndex:idx_bookmarks_user_book"`
	BookID    string `gorm:"type:char(36);not null;uniqueIndex:idx_bookmarks_user_book"`
	CreatedAt time.Time
}

func (BookmarkModel) TableName() string {
	return "bookmarks"
}

// AnnouncementModel 对应 announcements 表
type AnnouncementModel struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Message   string    `gorm:"type:text;not null"`
	StartTime time.Time `gorm:"index"`
	EndTime   time.Time
	IsActive  bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (AnnouncementModel) TableName() string {
	return "announcements"
}
