package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"bookhub/internal/pkg/validation"

	"github.com/google/uuid"
)

const maxTitleLength = 100

// BookAttributes 是新增/修改图书时可由管理员填写的字段。
type BookAttributes struct {
	Title              string
	Description        string
	Author             string
	Genre              string
	PublishDate        time.Time
	Publisher          string
	Language           string
	Format             string
	ISBN               string
	Price              int
	Quantity           int
	Discount           int
	AwardWinner        bool
	AvailableInLibrary bool
	IsOnSale           bool
}

// Validate 检查必填项与数值范围。
func (a *BookAttributes) Validate() error {
	a.Title = strings.TrimSpace(a.Title)
	a.ISBN = strings.TrimSpace(a.ISBN)
	if err := validation.Required(
		"title", a.Title,
		"description", a.Description,
		"author", a.Author,
		"genre", a.Genre,
		"language", a.Language,
		"format", a.Format,
		"isbn", a.ISBN,
	); err != nil {
		return err
	}
	if utf8.RuneCountInString(a.Title) > maxTitleLength {
		return validation.Errorf("Title cannot be longer than %d characters", maxTitleLength)
	}
	if a.Price < 0 {
		return validation.New("Price must not be negative")
	}
	if a.Quantity < 0 {
		return validation.New("Quantity must not be negative")
	}
	return validateDiscount(a.Discount)
}

func validateDiscount(d int) error {
	if d < 0 || d > 100 {
		return validation.New("Discount must be between 0 and 100")
	}
	return nil
}

// Book 是目录上下文的聚合根。库存只能通过订单核销扣减。
type Book struct {
	ID string
	BookAttributes
	Image     string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

// NewBook 创建一本尚未持久化的图书。
func NewBook(attrs BookAttributes, image string) (*Book, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	return &Book{
		ID:             uuid.NewString(),
		BookAttributes: attrs,
		Image:          image,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Update 覆盖可编辑字段；image 为空时保留原图。
func (b *Book) Update(attrs BookAttributes, image string) error {
	if err := attrs.Validate(); err != nil {
		return err
	}
	b.BookAttributes = attrs
	if image != "" {
		b.Image = image
	}
	return nil
}

// DiscountOffer 是管理员设置的促销信息。
type DiscountOffer struct {
	Discount  int
	StartDate *time.Time
	EndDate   *time.Time
	IsOnSale  bool
}

// ApplyDiscount 设置折扣百分比与促销窗口。
func (b *Book) ApplyDiscount(o DiscountOffer) error {
	if err := validateDiscount(o.Discount); err != nil {
		return err
	}
	if o.StartDate != nil && o.EndDate != nil && o.EndDate.Before(*o.StartDate) {
		return validation.New("Start date must be before end date.")
	}
	b.Discount = o.Discount
	b.StartDate = o.StartDate
	b.EndDate = o.EndDate
	b.IsOnSale = o.IsOnSale
	return nil
}

// RatingSummary 是按书聚合的评分。没有评论时均为零值。
type RatingSummary struct {
	AverageRating float64
	TotalReviews  int
}

// BookWithRating 是带评分聚合的查询结果。
type BookWithRating struct {
	*Book
	RatingSummary
}

// SortField 是搜索允许的排序字段。
type SortField string

const (
	SortByRecency SortField = ""
	SortByPrice   SortField = "price"
	SortByTitle   SortField = "title"
)

// SearchCriteria 描述一次图书搜索。
type SearchCriteria struct {
	Query      string
	Genre      string
	Language   string
	MinPrice   *int
	MaxPrice   *int
	SortBy     SortField
	Descending bool
}

// Feed 是首页的固定书单。
type Feed string

const (
	FeedNewReleases  Feed = "newreleases"
	FeedNewArrivals  Feed = "newarrivals"
	FeedAwardWinning Feed = "awardwinning"
	FeedComingSoon   Feed = "commingsoon"
	FeedDeals        Feed = "deals"
)
