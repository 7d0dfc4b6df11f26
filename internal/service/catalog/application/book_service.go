package application

import (
	"context"
	"time"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/catalog/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const bestSellerLimit = 10

// BookService 提供图书的管理、查询、搜索与首页书单用例。
type BookService struct {
	books   domain.BookRepository
	images  domain.ImageStore
	ranking domain.SalesRanking
	tracer  trace.Tracer
	now     func() time.Time
}

func NewBookService(books domain.BookRepository, images domain.ImageStore, ranking domain.SalesRanking, tracer trace.Tracer) *BookService {
	return &BookService{books: books, images: images, ranking: ranking, tracer: tracer, now: time.Now}
}

// AddBook 新增图书，书名或 ISBN 重复时拒绝。
func (s *BookService) AddBook(ctx context.Context, attrs domain.BookAttributes, img *ImageUpload) (*BookDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.AddBook")
	defer span.End()

	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if dup, err := s.books.ExistsByTitleOrISBN(ctx, attrs.Title, attrs.ISBN, ""); err != nil {
		span.RecordError(err)
		return nil, err
	} else if dup {
		span.SetStatus(codes.Error, domain.ErrDuplicateBook.Error())
		return nil, domain.ErrDuplicateBook
	}

	image, err := s.upload(ctx, img)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image upload failed")
		return nil, err
	}
	book, err := domain.NewBook(attrs, image)
	if err != nil {
		return nil, err
	}
	if err := s.books.Create(ctx, book); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("book.id", book.ID))
	logger.Ctx(ctx).Info().Str("book_id", book.ID).Str("title", book.Title).Msg("book created")
	dto := toBookDTO(book, domain.RatingSummary{})
	return &dto, nil
}

// UpdateBook 覆盖图书信息；未上传新封面时保留原图。
func (s *BookService) UpdateBook(ctx context.Context, id string, attrs domain.BookAttributes, img *ImageUpload) (*BookDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateBook")
	defer span.End()
	span.SetAttributes(attribute.String("book.id", id))

	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if dup, err := s.books.ExistsByTitleOrISBN(ctx, attrs.Title, attrs.ISBN, id); err != nil {
		span.RecordError(err)
		return nil, err
	} else if dup {
		return nil, domain.ErrDuplicateBook
	}

	image, err := s.upload(ctx, img)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image upload failed")
		return nil, err
	}
	if err := book.Update(attrs, image); err != nil {
		return nil, err
	}
	if err := s.books.Save(ctx, book); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.Ctx(ctx).Info().Str("book_id", id).Msg("book updated")
	return s.withRating(ctx, book)
}

func (s *BookService) upload(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || img.Content == nil {
		return "", nil
	}
	return s.images.Upload(ctx, img.FileName, img.Content)
}

func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "app.DeleteBook")
	defer span.End()
	span.SetAttributes(attribute.String("book.id", id))

	if err := s.books.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("book_id", id).Msg("book deleted")
	return nil
}

// GetBook 返回单本书及其评分聚合。
func (s *BookService) GetBook(ctx context.Context, id string) (*BookDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetBook")
	defer span.End()

	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.withRating(ctx, book)
}

func (s *BookService) withRating(ctx context.Context, book *domain.Book) (*BookDTO, error) {
	ratings, err := s.books.RatingSummaries(ctx, []string{book.ID})
	if err != nil {
		return nil, err
	}
	dto := toBookDTO(book, ratings[book.ID])
	return &dto, nil
}

// ListBooks 分页列出图书，page 与 pageSize 必须为正数。
func (s *BookService) ListBooks(ctx context.Context, page, pageSize int) (*BookPage, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListBooks")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize))

	if page <= 0 || pageSize <= 0 {
		return nil, httpx.ErrInvalidPage
	}
	books, total, err := s.books.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	data, err := s.decorate(ctx, books)
	if err != nil {
		return nil, err
	}
	return &BookPage{Pagination: httpx.NewPagination(page, pageSize, total), Data: data}, nil
}

// Search 按条件搜索图书，结果附带评分聚合。
func (s *BookService) Search(ctx context.Context, c domain.SearchCriteria) ([]BookDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.SearchBooks")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", c.Query), attribute.String("search.sort", string(c.SortBy)))

	books, err := s.books.Search(ctx, c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, err
	}
	return s.decorate(ctx, books)
}

// Feed 返回首页书单：新书按创建时间窗口，其他按标记位。
func (s *BookService) Feed(ctx context.Context, feed domain.Feed) ([]BookDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.Feed")
	defer span.End()
	span.SetAttributes(attribute.String("feed", string(feed)))

	var (
		books []*domain.Book
		err   error
	)
	now := s.now().UTC()
	switch feed {
	case domain.FeedNewReleases:
		books, err = s.books.CreatedSince(ctx, now.AddDate(0, -3, 0))
	case domain.FeedNewArrivals:
		books, err = s.books.CreatedSince(ctx, now.AddDate(0, -1, 0))
	default:
		books, err = s.books.ListByFeed(ctx, feed)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.decorate(ctx, books)
}

// BestSellers 返回订单行出现次数最多的前 10 本书，按次数降序。
func (s *BookService) BestSellers(ctx context.Context) ([]BestSellerDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.BestSellers")
	defer span.End()

	counts, err := s.ranking.TopSelling(ctx, bestSellerLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ranking failed")
		return nil, err
	}
	ids := make([]string, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.BookID)
	}
	books, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratings, err := s.books.RatingSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	out := make([]BestSellerDTO, 0, len(counts))
	for _, c := range counts {
		b, ok := byID[c.BookID]
		if !ok {
			// 已删除的书不再上榜
			continue
		}
		out = append(out, BestSellerDTO{Book: toBookDTO(b, ratings[b.ID]), OrderCount: c.OrderCount})
	}
	return out, nil
}

// ApplyDiscount 设置单本书的折扣与促销窗口。
func (s *BookService) ApplyDiscount(ctx context.Context, id string, req *DiscountRequest) (*BookDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ApplyDiscount")
	defer span.End()
	span.SetAttributes(attribute.String("book.id", id), attribute.Int("book.discount", req.Discount))

	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := book.ApplyDiscount(domain.DiscountOffer{
		Discount:  req.Discount,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsOnSale:  req.IsOnSale,
	}); err != nil {
		return nil, err
	}
	if err := s.books.Save(ctx, book); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.Ctx(ctx).Info().Str("book_id", id).Int("discount", req.Discount).Msg("discount applied")
	return s.withRating(ctx, book)
}

func (s *BookService) decorate(ctx context.Context, books []*domain.Book) ([]BookDTO, error) {
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	ratings, err := s.books.RatingSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]BookDTO, 0, len(books))
	for _, b := range books {
		out = append(out, toBookDTO(b, ratings[b.ID]))
	}
	return out, nil
}
