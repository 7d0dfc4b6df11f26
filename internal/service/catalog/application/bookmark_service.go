package application

import (
	"context"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/catalog/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BookmarkService 管理用户的心愿单。
type BookmarkService struct {
	books     domain.BookRepository
	bookmarks domain.BookmarkRepository
	tracer    trace.Tracer
}

func NewBookmarkService(books domain.BookRepository, bookmarks domain.BookmarkRepository, tracer trace.Tracer) *BookmarkService {
	return &BookmarkService{books: books, bookmarks: bookmarks, tracer: tracer}
}

func (s *BookmarkService) Add(ctx context.Context, userID, bookID string) error {
	ctx, span := s.tracer.Start(ctx, "app.AddBookmark")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("book.id", bookID))

	if bookID == "" {
		return validation.New("bookId is required")
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.bookmarks.Create(ctx, domain.NewBookmark(userID, bookID)); err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("book_id", bookID).Msg("bookmarked")
	return nil
}

func (s *BookmarkService) List(ctx context.Context, userID string) ([]BookmarkDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListBookmarks")
	defer span.End()

	views, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(views) == 0 {
		return nil, domain.ErrNoBookmarks
	}
	out := make([]BookmarkDTO, 0, len(views))
	for _, v := range views {
		out = append(out, BookmarkDTO{
			BookmarkID: v.ID,
			BookID:     v.BookID,
			UserID:     v.UserID,
			Title:      v.Title,
			Author:     v.Author,
			Image:      v.Image,
			Price:      v.Price,
		})
	}
	return out, nil
}

func (s *BookmarkService) Remove(ctx context.Context, userID, bookmarkID string) error {
	ctx, span := s.tracer.Start(ctx, "app.RemoveBookmark")
	defer span.End()

	if err := s.bookmarks.Delete(ctx, bookmarkID, userID); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
