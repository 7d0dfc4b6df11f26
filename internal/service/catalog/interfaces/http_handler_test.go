package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhub/internal/pkg/database/dbtest"
	"bookhub/internal/pkg/httpx"
	"bookhub/internal/service/catalog/application"
	"bookhub/internal/service/catalog/domain"
	"bookhub/internal/service/catalog/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type staticAuth map[string]*httpx.Principal

func (a staticAuth) Authenticate(_ context.Context, token string) (*httpx.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return nil, errors.New("bad token")
}

type stubImages struct{}

func (stubImages) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return "https://img.example.com/" + name, nil
}

type noPurchases struct{}

func (noPurchases) HasCompletedPurchase(context.Context, string, string) (bool, error) {
	return false, nil
}

type noRanking struct{}

func (noRanking) TopSelling(context.Context, int) ([]domain.SalesCount, error) { return nil, nil }

func newMux(t *testing.T) http.Handler {
	t.Helper()
	db := dbtest.Open(t, &infrastructure.BookModel{}, &infrastructure.ReviewModel{},
		&infrastructure.BookmarkModel{}, &infrastructure.AnnouncementModel{})
	tracer := noop.NewTracerProvider().Tracer("test")
	books := infrastructure.NewGormBookRepository(db)

	h := NewCatalogHandler(
		application.NewBookService(books, stubImages{}, noRanking{}, tracer),
		application.NewReviewService(books, infrastructure.NewGormReviewRepository(db), noPurchases{}, tracer),
		application.NewBookmarkService(books, infrastructure.NewGormBookmarkRepository(db), tracer),
		application.NewAnnouncementService(infrastructure.NewGormAnnouncementRepository(db), tracer),
		httpx.NewGuard(staticAuth{
			"admin": {UserID: "a1", Role: "Admin"},
			"user":  {UserID: "u1", Role: "User"},
		}),
	)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func bookForm(t *testing.T, title string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title": title, "description": "d", "author": "Frank Herbert", "genre": "SciFi",
		"language": "English", "format": "Paperback", "isbn": "isbn-" + title,
		"price": "250", "quantity": "4", "publishDate": "1965-08-01", "awardWinner": "true",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		fw, err := mw.CreateFormFile("images", "cover.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("png"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCatalogRoutes(t *testing.T) {
	mux := newMux(t)

	body, ct := bookForm(t, "Dune", true)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/addBook", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer admin")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Data application.BookDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "https://img.example.com/cover.png", created.Data.Image)
	assert.True(t, created.Data.AwardWinner)

	t.Run("non admin cannot add", func(t *testing.T) {
		body, ct := bookForm(t, "Emma", false)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/addBook", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer user")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("duplicate title", func(t *testing.T) {
		body, ct := bookForm(t, "Dune", false)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/addBook", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer admin")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Book with same titel or ISBN already exists")
	})

	t.Run("public listing rejects bad page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/getbook?page=0", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"status":"error","code":400,"message":"Page and pageSize must be greater than 0"}`, rec.Body.String())

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/getbook", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"pageSize":50`)
	})

	t.Run("search", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search/searchbook?query=dun&maxPrice=300&sortBy=price&sortDir=desc", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Status  string                `json:"status"`
			Results int                   `json:"results"`
			Data    []application.BookDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, 1, resp.Results)

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search/searchbook?minPrice=abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("review without purchase", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/review/addreview/"+created.Data.BookID, bytes.NewBufferString(`{"rating":5,"comment":"x"}`))
		req.Header.Set("Authorization", "Bearer user")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "You can only review books you have purchased")
	})

	t.Run("award winning feed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/book/awardwinning", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var list []application.BookDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "Dune", list[0].Title)
	})
}
