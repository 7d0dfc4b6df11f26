package interfaces

import (
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/service/catalog/application"
)

func (h *CatalogHandler) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req application.BookmarkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.bookmarks.Add(r.Context(), principal(r).UserID, req.BookID); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Bookmarked successfully"})
}

func (h *CatalogHandler) handleGetBookmarks(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookmarks.List(r.Context(), principal(r).UserID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.bookmarks.Remove(r.Context(), principal(r).UserID, r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Bookmark removed successfully"})
}
