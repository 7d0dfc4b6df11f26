package domain

import (
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	ID        string
	UserID    string
	BookID    string
	CreatedAt time.Time
}

func NewBookmark(userID, bookID string) *Bookmark {
	return &Bookmark{ID: uuid.NewString(), UserID: userID, BookID: bookID, CreatedAt: time.Now().UTC()}
}

// BookmarkView 附带书目信息，便于心愿单直接展示。
type BookmarkView struct {
	Bookmark
	Title  string
	Author string
	Image  string
	Price  int
}
