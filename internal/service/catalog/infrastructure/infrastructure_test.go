package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookhub/internal/pkg/database/dbtest"
	"bookhub/internal/pkg/httpclient"
	"bookhub/internal/service/catalog/domain"
	identityinfra "bookhub/internal/service/identity/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	return dbtest.Open(t, &BookModel{}, &ReviewModel{}, &BookmarkModel{}, &AnnouncementModel{}, &identityinfra.UserModel{})
}

func newBook(t *testing.T, title, genre string, price int, created time.Time) *domain.Book {
	t.Helper()
	b, err := domain.NewBook(domain.BookAttributes{
		Title: title, Description: "d", Author: "a", Genre: genre, Language: "English",
		Format: "Paperback", ISBN: "isbn-" + title, Price: price, Quantity: 10,
	}, "")
	require.NoError(t, err)
	b.CreatedAt = created
	return b
}

func TestBookRepository(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := NewGormBookRepository(db)
	now := time.Now().UTC()

	dune := newBook(t, "Dune", "SciFi", 300, now.Add(-3*time.Hour))
	emma := newBook(t, "Emma", "Classic", 100, now.Add(-2*time.Hour))
	it := newBook(t, "It_100%", "Horror", 200, now.Add(-time.Hour))
	for _, b := range []*domain.Book{dune, emma, it} {
		require.NoError(t, repo.Create(ctx, b))
	}

	t.Run("duplicate", func(t *testing.T) {
		dup := newBook(t, "Dune", "SciFi", 1, now)
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateBook)

		exists, err := repo.ExistsByTitleOrISBN(ctx, "Other", "isbn-Emma", "")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByTitleOrISBN(ctx, "Emma", "isbn-Emma", emma.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list newest first with total", func(t *testing.T) {
		books, total, err := repo.List(ctx, 0, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, books, 2)
		assert.Equal(t, it.ID, books[0].ID)
		assert.Equal(t, emma.ID, books[1].ID)

		books, _, err = repo.List(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, dune.ID, books[0].ID)
	})

	t.Run("search", func(t *testing.T) {
		got, err := repo.Search(ctx, domain.SearchCriteria{Query: "DU"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dune", got[0].Title)

		// 通配符按字面匹配
		got, err = repo.Search(ctx, domain.SearchCriteria{Query: "_100%"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, it.ID, got[0].ID)

		got, err = repo.Search(ctx, domain.SearchCriteria{Genre: "classic"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, emma.ID, got[0].ID)

		minP, maxP := 100, 200
		got, err = repo.Search(ctx, domain.SearchCriteria{MinPrice: &minP, MaxPrice: &maxP, SortBy: domain.SortByPrice, Descending: true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []int{200, 100}, []int{got[0].Price, got[1].Price})

		got, err = repo.Search(ctx, domain.SearchCriteria{Language: "ENGLISH", SortBy: domain.SortByTitle})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Dune", got[0].Title)
	})

	t.Run("feeds", func(t *testing.T) {
		emma.IsOnSale = true
		emma.AwardWinner = true
		require.NoError(t, repo.Save(ctx, emma))

		deals, err := repo.ListByFeed(ctx, domain.FeedDeals)
		require.NoError(t, err)
		require.Len(t, deals, 1)
		assert.Equal(t, emma.ID, deals[0].ID)

		soon, err := repo.ListByFeed(ctx, domain.FeedComingSoon)
		require.NoError(t, err)
		assert.Len(t, soon, 3)

		recent, err := repo.CreatedSince(ctx, now.Add(-90*time.Minute))
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, it.ID, recent[0].ID)
	})

	t.Run("ratings and delete", func(t *testing.T) {
		reviews := NewGormReviewRepository(db)
		for i, rating := range []int{4, 5} {
			rv, err := domain.NewReview("user-"+string(rune('a'+i)), dune.ID, rating, "ok")
			require.NoError(t, err)
			require.NoError(t, reviews.Create(ctx, rv))
		}

		summaries, err := repo.RatingSummaries(ctx, []string{dune.ID, emma.ID})
		require.NoError(t, err)
		assert.InDelta(t, 4.5, summaries[dune.ID].AverageRating, 1e-9)
		assert.Equal(t, 2, summaries[dune.ID].TotalReviews)
		assert.Zero(t, summaries[emma.ID])

		require.NoError(t, repo.Delete(ctx, dune.ID))
		_, err = repo.FindByID(ctx, dune.ID)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, dune.ID), domain.ErrBookNotFound)

		left, err := reviews.ListByBook(ctx, dune.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestReviewAndBookmarkRepositories(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	books := NewGormBookRepository(db)
	reviews := NewGormReviewRepository(db)
	bookmarks := NewGormBookmarkRepository(db)

	require.NoError(t, db.Create(&identityinfra.UserModel{ID: "u1", UserName: "alice", Email: "a@x", PasswordHash: "h", Role: "User"}).Error)
	book := newBook(t, "Dune", "SciFi", 300, time.Now().UTC())
	require.NoError(t, books.Create(ctx, book))

	rv, err := domain.NewReview("u1", book.ID, 5, "great")
	require.NoError(t, err)
	require.NoError(t, reviews.Create(ctx, rv))

	again, err := domain.NewReview("u1", book.ID, 3, "again")
	require.NoError(t, err)
	assert.ErrorIs(t, reviews.Create(ctx, again), domain.ErrAlreadyReviewed)

	all, err := reviews.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].UserName)
	assert.Equal(t, "Dune", all[0].BookTitle)

	bm := domain.NewBookmark("u1", book.ID)
	require.NoError(t, bookmarks.Create(ctx, bm))
	assert.ErrorIs(t, bookmarks.Create(ctx, domain.NewBookmark("u1", book.ID)), domain.ErrAlreadyBookmarked)

	list, err := bookmarks.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dune", list[0].Title)

	assert.ErrorIs(t, bookmarks.Delete(ctx, bm.ID, "someone-else"), domain.ErrBookmarkNotFound)
	require.NoError(t, bookmarks.Delete(ctx, bm.ID, "u1"))
}

func TestAnnouncementRepositoryListLive(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAnnouncementRepository(openDB(t))
	now := time.Now().UTC()

	mk := func(msg string, start, end time.Time, active bool) *domain.Announcement {
		a, err := domain.NewAnnouncement(domain.AnnouncementInput{Message: msg, StartTime: start, EndTime: end, IsActive: active})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, a))
		return a
	}
	live := mk("live", now.Add(-time.Hour), now.Add(time.Hour), true)
	mk("inactive", now.Add(-time.Hour), now.Add(time.Hour), false)
	mk("expired", now.Add(-2*time.Hour), now.Add(-time.Hour), true)

	got, err := repo.ListLive(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, live.ID, got[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrAnnouncementNotFound)
}

func TestCloudinaryImageStoreUpload(t *testing.T) {
	var gotSignature, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		gotSignature = r.FormValue("signature")
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		b, _ := io.ReadAll(f)
		gotFile = string(b)
		_, _ = w.Write([]byte(`{"secure_url":"https://cdn.example.com/cover.png"}`))
	}))
	defer srv.Close()

	store := NewCloudinaryImageStore(httpclient.NewClient(noop.NewTracerProvider().Tracer("test")), CloudinaryConfig{
		BaseURL: srv.URL, CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "books",
	})
	store.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := store.Upload(context.Background(), "cover.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cover.png", url)
	assert.Equal(t, "png-bytes", gotFile)
	assert.Equal(t, store.sign("1700000000"), gotSignature)
	assert.Len(t, gotSignature, 40)
}
