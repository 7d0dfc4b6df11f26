package application

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"bookhub/internal/pkg/database/dbtest"
	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/catalog/domain"
	"bookhub/internal/service/catalog/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"gorm.io/gorm"
)

type fakeImages struct{ uploads []string }

func (f *fakeImages) Upload(_ context.Context, name string, content io.Reader) (string, error) {
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, string(b))
	return "https://img.example.com/" + name, nil
}

type fakePurchases map[string]bool

func (f fakePurchases) HasCompletedPurchase(_ context.Context, userID, bookID string) (bool, error) {
	return f[userID+"/"+bookID], nil
}

type fakeRanking []domain.SalesCount

func (f fakeRanking) TopSelling(_ context.Context, limit int) ([]domain.SalesCount, error) {
	if len(f) > limit {
		return f[:limit], nil
	}
	return f, nil
}

var tracer = noop.NewTracerProvider().Tracer("test")

func openDB(t *testing.T) *gorm.DB {
	return dbtest.Open(t, &infrastructure.BookModel{}, &infrastructure.ReviewModel{},
		&infrastructure.BookmarkModel{}, &infrastructure.AnnouncementModel{})
}

func attrs(title string) domain.BookAttributes {
	return domain.BookAttributes{
		Title: title, Description: "desc", Author: "author", Genre: "Fiction", Language: "English",
		Format: "Hardcover", ISBN: "isbn-" + title, Price: 100, Quantity: 5, Discount: 10,
	}
}

func TestBookServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	images := &fakeImages{}
	svc := NewBookService(infrastructure.NewGormBookRepository(openDB(t)), images, fakeRanking{}, tracer)

	created, err := svc.AddBook(ctx, attrs("Dune"), &ImageUpload{FileName: "dune.png", Content: strings.NewReader("img")})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/dune.png", created.Image)
	assert.Equal(t, []string{"img"}, images.uploads)

	_, err = svc.AddBook(ctx, attrs("Dune"), nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateBook)

	bad := attrs("Bad")
	bad.Discount = 120
	_, err = svc.AddBook(ctx, bad, nil)
	assert.ErrorIs(t, err, validation.ErrInvalid)

	t.Run("update keeps image when none uploaded", func(t *testing.T) {
		a := attrs("Dune Messiah")
		a.Quantity = 9
		updated, err := svc.UpdateBook(ctx, created.BookID, a, nil)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", updated.Title)
		assert.Equal(t, 9, updated.Quantity)
		assert.Equal(t, created.Image, updated.Image)

		_, err = svc.UpdateBook(ctx, "missing", a, nil)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})

	t.Run("discount offer", func(t *testing.T) {
		start := time.Now().UTC()
		end := start.Add(48 * time.Hour)
		got, err := svc.ApplyDiscount(ctx, created.BookID, &DiscountRequest{Discount: 25, StartDate: &start, EndDate: &end, IsOnSale: true})
		require.NoError(t, err)
		assert.Equal(t, 25, got.Discount)
		assert.True(t, got.IsOnSale)

		_, err = svc.ApplyDiscount(ctx, created.BookID, &DiscountRequest{Discount: 10, StartDate: &end, EndDate: &start})
		assert.ErrorIs(t, err, validation.ErrInvalid)

		deals, err := svc.Feed(ctx, domain.FeedDeals)
		require.NoError(t, err)
		require.Len(t, deals, 1)
	})

	t.Run("pagination", func(t *testing.T) {
		for _, title := range []string{"A", "B", "C"} {
			_, err := svc.AddBook(ctx, attrs(title), nil)
			require.NoError(t, err)
		}
		page, err := svc.ListBooks(ctx, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, httpx.Pagination{CurrentPage: 2, PageSize: 3, TotalPages: 2, TotalItems: 4}, page.Pagination)
		assert.Len(t, page.Data, 1)

		_, err = svc.ListBooks(ctx, 0, 10)
		assert.ErrorIs(t, err, httpx.ErrInvalidPage)

		releases, err := svc.Feed(ctx, domain.FeedNewReleases)
		require.NoError(t, err)
		assert.Len(t, releases, 4)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteBook(ctx, created.BookID))
		_, err := svc.GetBook(ctx, created.BookID)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})
}

func TestBestSellersSkipsDeletedBooks(t *testing.T) {
	ctx := context.Background()
	repo := infrastructure.NewGormBookRepository(openDB(t))
	plain := NewBookService(repo, &fakeImages{}, fakeRanking{}, tracer)

	a, err := plain.AddBook(ctx, attrs("A"), nil)
	require.NoError(t, err)
	b, err := plain.AddBook(ctx, attrs("B"), nil)
	require.NoError(t, err)

	svc := NewBookService(repo, &fakeImages{}, fakeRanking{
		{BookID: b.BookID, OrderCount: 7},
		{BookID: "deleted-book", OrderCount: 5},
		{BookID: a.BookID, OrderCount: 2},
	}, tracer)

	list, err := svc.BestSellers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Book.Title)
	assert.EqualValues(t, 7, list[0].OrderCount)
	assert.Equal(t, "A", list[1].Book.Title)
}

func TestReviewRequiresCompletedPurchase(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	books := infrastructure.NewGormBookRepository(db)
	book, err := NewBookService(books, &fakeImages{}, fakeRanking{}, tracer).AddBook(ctx, attrs("Dune"), nil)
	require.NoError(t, err)

	purchases := fakePurchases{"buyer/" + book.BookID: true}
	svc := NewReviewService(books, infrastructure.NewGormReviewRepository(db), purchases, tracer)

	err = svc.AddReview(ctx, "buyer", "missing", &ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	err = svc.AddReview(ctx, "buyer", book.BookID, &ReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	err = svc.AddReview(ctx, "browser", book.BookID, &ReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, domain.ErrNotPurchased)

	_, err = svc.ListForBook(ctx, book.BookID)
	assert.ErrorIs(t, err, domain.ErrNoReviews)

	require.NoError(t, svc.AddReview(ctx, "buyer", book.BookID, &ReviewRequest{Rating: 4, Comment: "  good  "}))
	err = svc.AddReview(ctx, "buyer", book.BookID, &ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	reviews, err := svc.ListForBook(ctx, book.BookID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "good", reviews[0].Comment)
	assert.Equal(t, "Dune", reviews[0].BookTitle)

	detail, err := NewBookService(books, &fakeImages{}, fakeRanking{}, tracer).GetBook(ctx, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, detail.AverageRating)
	assert.Equal(t, 1, detail.TotalReviews)
}

func TestBookmarkService(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	books := infrastructure.NewGormBookRepository(db)
	book, err := NewBookService(books, &fakeImages{}, fakeRanking{}, tracer).AddBook(ctx, attrs("Dune"), nil)
	require.NoError(t, err)
	svc := NewBookmarkService(books, infrastructure.NewGormBookmarkRepository(db), tracer)

	_, err = svc.List(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNoBookmarks)

	assert.ErrorIs(t, svc.Add(ctx, "u1", "missing"), domain.ErrBookNotFound)
	require.NoError(t, svc.Add(ctx, "u1", book.BookID))
	assert.ErrorIs(t, svc.Add(ctx, "u1", book.BookID), domain.ErrAlreadyBookmarked)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, svc.Remove(ctx, "u2", list[0].BookmarkID), domain.ErrBookmarkNotFound)
	require.NoError(t, svc.Remove(ctx, "u1", list[0].BookmarkID))
}

func TestAnnouncementService(t *testing.T) {
	ctx := context.Background()
	svc := NewAnnouncementService(infrastructure.NewGormAnnouncementRepository(openDB(t)), tracer)
	now := time.Now().UTC()

	_, err := svc.Add(ctx, &AnnouncementRequest{Message: "sale", StartTime: now, EndTime: now})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	a, err := svc.Add(ctx, &AnnouncementRequest{Message: "sale", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)})
	require.NoError(t, err)

	live, err := svc.ListLive(ctx)
	require.NoError(t, err)
	assert.Empty(t, live, "inactive announcements are hidden")

	_, err = svc.Update(ctx, a.AnnouncementID, &AnnouncementRequest{Message: "big sale", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), IsActive: true})
	require.NoError(t, err)

	live, err = svc.ListLive(ctx)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "big sale", live[0].Message)

	_, err = svc.Update(ctx, "missing", &AnnouncementRequest{Message: "x", StartTime: now, EndTime: now.Add(time.Minute)})
	assert.ErrorIs(t, err, domain.ErrAnnouncementNotFound)

	require.NoError(t, svc.Delete(ctx, a.AnnouncementID))
	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
