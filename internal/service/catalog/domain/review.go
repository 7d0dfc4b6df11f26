package domain

import (
	"strings"
	"time"

	"bookhub/internal/pkg/validation"

	"github.com/google/uuid"
)

type Review struct {
	ID        string
	UserID    string
	BookID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// NewReview 校验评分范围 1..5。
func NewReview(userID, bookID string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, validation.New("Rating must be between 1 and 5")
	}
	return &Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		BookID:    bookID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReviewView 是带书名和用户名的评论展示。
type ReviewView struct {
	Review
	BookTitle string
	UserName  string
}
