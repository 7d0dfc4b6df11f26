package interfaces

import (
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/service/dashboard/application"
)

type DashboardHandler struct {
	service *application.DashboardService
	guard   *httpx.Guard
}

func NewDashboardHandler(service *application.DashboardService, guard *httpx.Guard) *DashboardHandler {
	return &DashboardHandler{service: service, guard: guard}
}

func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	staff := h.guard.Require("Staff", "Admin")
	mux.HandleFunc("GET /api/dashboard/getdata", staff(h.handleGetData))
}

func (h *DashboardHandler) handleGetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.GetData(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, data)
}
