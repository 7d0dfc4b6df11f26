package application

import (
	"context"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/catalog/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ReviewService 负责评论的提交与查询。只有买过并已提货的用户才能评论。
type ReviewService struct {
	books     domain.BookRepository
	reviews   domain.ReviewRepository
	purchases domain.PurchaseVerifier
	tracer    trace.Tracer
}

func NewReviewService(books domain.BookRepository, reviews domain.ReviewRepository, purchases domain.PurchaseVerifier, tracer trace.Tracer) *ReviewService {
	return &ReviewService{books: books, reviews: reviews, purchases: purchases, tracer: tracer}
}

func (s *ReviewService) AddReview(ctx context.Context, userID, bookID string, req *ReviewRequest) error {
	ctx, span := s.tracer.Start(ctx, "app.AddReview")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("book.id", bookID))

	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		span.RecordError(err)
		return err
	}
	review, err := domain.NewReview(userID, bookID, req.Rating, req.Comment)
	if err != nil {
		return err
	}

	purchased, err := s.purchases.HasCompletedPurchase(ctx, userID, bookID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "purchase check failed")
		return err
	}
	if !purchased {
		span.SetStatus(codes.Error, domain.ErrNotPurchased.Error())
		return domain.ErrNotPurchased
	}
	if exists, err := s.reviews.Exists(ctx, userID, bookID); err != nil {
		return err
	} else if exists {
		return domain.ErrAlreadyReviewed
	}

	// 并发的重复提交由唯一索引兜底，Create 会返回 ErrAlreadyReviewed。
	if err := s.reviews.Create(ctx, review); err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("book_id", bookID).Int("rating", req.Rating).Msg("review submitted")
	return nil
}

func (s *ReviewService) ListForBook(ctx context.Context, bookID string) ([]ReviewDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListReviews")
	defer span.End()

	views, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(views) == 0 {
		return nil, domain.ErrNoReviews
	}
	out := make([]ReviewDTO, 0, len(views))
	for _, v := range views {
		dto := toReviewDTO(v)
		dto.UserID = ""
		out = append(out, dto)
	}
	return out, nil
}

func (s *ReviewService) ListAll(ctx context.Context) ([]ReviewDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListAllReviews")
	defer span.End()

	views, err := s.reviews.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]ReviewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toReviewDTO(v))
	}
	return out, nil
}
