package interfaces

import (
	"context"
	"errors"
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/catalog/application"
	"bookhub/internal/service/catalog/domain"
)

// CatalogHandler 封装了图书、评论、收藏和公告的 HTTP 处理器
type CatalogHandler struct {
	books         *application.BookService
	reviews       *application.ReviewService
	bookmarks     *application.BookmarkService
	announcements *application.AnnouncementService
	guard         *httpx.Guard
}

func NewCatalogHandler(
	books *application.BookService,
	reviews *application.ReviewService,
	bookmarks *application.BookmarkService,
	announcements *application.AnnouncementService,
	guard *httpx.Guard,
) *CatalogHandler {
	return &CatalogHandler{
		books:         books,
		reviews:       reviews,
		bookmarks:     bookmarks,
		announcements: announcements,
		guard:         guard,
	}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	admin := h.guard.Require("Admin")
	user := h.guard.Require()

	// 图书管理
	mux.HandleFunc("POST /api/admin/addBook", admin(h.handleAddBook))
	mux.HandleFunc("PUT /api/admin/updateBook/{id}", admin(h.handleUpdateBook))
	mux.HandleFunc("DELETE /api/admin/deleteBook/{id}", admin(h.handleDeleteBook))
	mux.HandleFunc("GET /api/admin/book/{id}", admin(h.handleGetBook))
	mux.HandleFunc("GET /api/admin/getbook", admin(h.listBooks(adminPageSize)))
	mux.HandleFunc("PUT /api/admin/discountoffer/{bookid}", admin(h.handleDiscountOffer))

	// 公开查询
	mux.HandleFunc("GET /api/user/getbook/{id}", h.handleGetBook)
	mux.HandleFunc("GET /api/user/getbook", h.listBooks(userPageSize))
	mux.HandleFunc("GET /api/search/searchbook", h.handleSearch)
	mux.HandleFunc("GET /api/book/bestSeller", h.handleBestSellers)
	for _, feed := range []domain.Feed{
		domain.FeedNewReleases, domain.FeedNewArrivals, domain.FeedAwardWinning, domain.FeedComingSoon, domain.FeedDeals,
	} {
		mux.HandleFunc("GET /api/book/"+string(feed), h.feed(feed))
	}

	// 评论
	mux.HandleFunc("POST /api/review/addreview/{bookId}", user(h.handleAddReview))
	mux.HandleFunc("GET /api/review/getreview/{bookId}", h.handleGetReviews)
	mux.HandleFunc("GET /api/review/reviewbyadmin", admin(h.handleReviewsByAdmin))

	// 收藏
	mux.HandleFunc("POST /api/bookmark/addbookmark", user(h.handleAddBookmark))
	mux.HandleFunc("GET /api/bookmark/getbookmark", user(h.handleGetBookmarks))
	mux.HandleFunc("DELETE /api/bookmark/deletebookmark/{id}", user(h.handleDeleteBookmark))

	// 公告
	mux.HandleFunc("POST /api/announcement/addannouncement", admin(h.handleAddAnnouncement))
	mux.HandleFunc("PUT /api/announcement/updateannouncement/{id}", admin(h.handleUpdateAnnouncement))
	mux.HandleFunc("GET /api/announcement/getannouncementsbyadmin", admin(h.handleListAnnouncements))
	mux.HandleFunc("DELETE /api/announcement/deleteAnnouncement/{id}", admin(h.handleDeleteAnnouncement))
	mux.HandleFunc("GET /api/announcement/getannouncementbyuser", h.handleLiveAnnouncements)
}

// writeServiceError 根据错误类型返回不同的 HTTP 状态码
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, httpx.ErrInvalidPage),
		errors.Is(err, domain.ErrDuplicateBook),
		errors.Is(err, domain.ErrNotPurchased),
		errors.Is(err, domain.ErrAlreadyReviewed),
		errors.Is(err, domain.ErrAlreadyBookmarked):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrNoReviews),
		errors.Is(err, domain.ErrBookmarkNotFound),
		errors.Is(err, domain.ErrNoBookmarks),
		errors.Is(err, domain.ErrAnnouncementNotFound):
		status = http.StatusNotFound
	default:
		logger.Ctx(ctx).Error().Err(err).Msg("catalog request failed")
		httpx.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	httpx.WriteError(w, status, err.Error())
}

func principal(r *http.Request) *httpx.Principal {
	p, _ := httpx.PrincipalFrom(r.Context())
	return p
}
