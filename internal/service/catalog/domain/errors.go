package domain

import "errors"

var (
	ErrBookNotFound         = errors.New("Book not found.")
	ErrDuplicateBook        = errors.New("Book with same titel or ISBN already exists")
	ErrNotPurchased         = errors.New("You can only review books you have purchased")
	ErrAlreadyReviewed      = errors.New("You have already reviewed this book")
	ErrNoReviews            = errors.New("No reviews found for this book")
	ErrAlreadyBookmarked    = errors.New("Already bookmarked")
	ErrBookmarkNotFound     = errors.New("Bookmark not found")
	ErrNoBookmarks          = errors.New("No bookmarks found")
	ErrAnnouncementNotFound = errors.New("Announcement not found")
)
