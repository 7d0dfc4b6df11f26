package interfaces

import (
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/service/catalog/application"
)

func (h *CatalogHandler) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var req application.ReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.reviews.AddReview(r.Context(), principal(r).UserID, r.PathValue("bookId"), &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  http.StatusOK,
		"message": "Review submitted successfully",
	})
}

func (h *CatalogHandler) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListForBook(r.Context(), r.PathValue("bookId"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "reviews": reviews})
}

func (h *CatalogHandler) handleReviewsByAdmin(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListAll(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}
