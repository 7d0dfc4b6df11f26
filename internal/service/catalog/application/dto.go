package application

import (
	"io"
	"time"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/service/catalog/domain"
)

// ImageUpload 是随表单上传的封面文件。
type ImageUpload struct {
	FileName string
	Content  io.Reader
}

type BookDTO struct {
	BookID             string     `json:"bookId"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Author             string     `json:"author"`
	Genre              string     `json:"genre"`
	Image              string     `json:"image"`
	PublishDate        time.Time  `json:"publishDate"`
	Publisher          string     `json:"publisher"`
	Language           string     `json:"language"`
	Format             string     `json:"format"`
	ISBN               string     `json:"isbn"`
	Price              int        `json:"price"`
	Quantity           int        `json:"quantity"`
	Discount           int        `json:"discount"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	AwardWinner        bool       `json:"awardWinner"`
	AvailableInLibrary bool       `json:"availableInLibrary"`
	IsOnSale           bool       `json:"isOnSale"`
	CreatedAt          time.Time  `json:"createdAt"`
	AverageRating      float64    `json:"averageRating"`
	TotalReviews       int        `json:"totalReviews"`
}

type BookPage struct {
	Pagination httpx.Pagination `json:"pagination"`
	Data       []BookDTO        `json:"data"`
}

type BestSellerDTO struct {
	Book       BookDTO `json:"book"`
	OrderCount int64   `json:"orderCount"`
}

type DiscountRequest struct {
	Discount  int        `json:"discount"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsOnSale  bool       `json:"isOnSale"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewDTO struct {
	ReviewID  string    `json:"reviewId"`
	BookID    string    `json:"bookId"`
	BookTitle string    `json:"title"`
	UserID    string    `json:"userId,omitempty"`
	UserName  string    `json:"username,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookmarkRequest struct {
	BookID string `json:"bookId"`
}

type BookmarkDTO struct {
	BookmarkID string `json:"bookMarkId"`
	BookID     string `json:"bookId"`
	UserID     string `json:"userId"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Image      string `json:"image"`
	Price      int    `json:"price"`
}

type AnnouncementRequest struct {
	Message   string    `json:"message"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	IsActive  bool      `json:"isActive"`
}

type AnnouncementDTO struct {
	AnnouncementID string    `json:"announcementId,omitempty"`
	Message        string    `json:"message"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toBookDTO(b *domain.Book, r domain.RatingSummary) BookDTO {
	return BookDTO{
		BookID:             b.ID,
		Title:              b.Title,
		Description:        b.Description,
		Author:             b.Author,
		Genre:              b.Genre,
		Image:              b.Image,
		PublishDate:        b.PublishDate,
		Publisher:          b.Publisher,
		Language:           b.Language,
		Format:             b.Format,
		ISBN:               b.ISBN,
		Price:              b.Price,
		Quantity:           b.Quantity,
		Discount:           b.Discount,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		AwardWinner:        b.AwardWinner,
		AvailableInLibrary: b.AvailableInLibrary,
		IsOnSale:           b.IsOnSale,
		CreatedAt:          b.CreatedAt,
		AverageRating:      r.AverageRating,
		TotalReviews:       r.TotalReviews,
	}
}

func toReviewDTO(v domain.ReviewView) ReviewDTO {
	return ReviewDTO{
		ReviewID:  v.ID,
		BookID:    v.BookID,
		BookTitle: v.BookTitle,
		UserID:    v.UserID,
		UserName:  v.UserName,
		Rating:    v.Rating,
		Comment:   v.Comment,
		CreatedAt: v.CreatedAt,
	}
}

func toAnnouncementDTO(a *domain.Announcement) AnnouncementDTO {
	return AnnouncementDTO{
		AnnouncementID: a.ID,
		Message:        a.Message,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
	}
}
