package interfaces

import (
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/service/catalog/application"
)

func (h *CatalogHandler) handleAddAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req application.AnnouncementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.announcements.Add(r.Context(), &req)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Announcement added successfully", "data": a})
}

func (h *CatalogHandler) handleUpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req application.AnnouncementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.announcements.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Announcement updated successfully", "data": a})
}

func (h *CatalogHandler) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.announcements.ListAll(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.announcements.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Announcement deleted successfully"})
}

func (h *CatalogHandler) handleLiveAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.announcements.ListLive(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}
