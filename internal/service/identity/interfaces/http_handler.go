package interfaces

import (
	"context"
	"errors"
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/identity/application"
	"bookhub/internal/service/identity/domain"
)

// IdentityHandler 封装了身份相关的 HTTP 处理器
type IdentityHandler struct {
	service *application.IdentityService
	guard   *httpx.Guard
}

func NewIdentityHandler(service *application.IdentityService, guard *httpx.Guard) *IdentityHandler {
	return &IdentityHandler{service: service, guard: guard}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *IdentityHandler) RegisterRoutes(mux *http.ServeMux) {
	admin := h.guard.Require(domain.RoleAdmin.String())

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/user/getuserdetails", h.guard.Require()(h.handleProfile))
	mux.HandleFunc("GET /api/admin/getuserdetails", admin(h.handleListCustomers))
	mux.HandleFunc("PUT /api/admin/updaterole/{email}", admin(h.handleUpdateRole))
}

func (h *IdentityHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "User registered successfully",
		"data":    resp,
	})
}

func (h *IdentityHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    http.StatusOK,
		"token":     resp.Token,
		"expiresAt": resp.ExpiresAt,
		"user":      resp.User,
	})
}

func (h *IdentityHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	resp, err := h.service.Profile(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": http.StatusOK, "data": resp})
}

func (h *IdentityHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": http.StatusOK, "data": users})
}

func (h *IdentityHandler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.UpdateRole(r.Context(), r.PathValue("email"), req.Role)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Role updated to " + user.Role,
		"data":    user,
	})
}

// writeServiceError 根据错误类型返回不同的 HTTP 状态码
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, domain.ErrUserNameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidRole):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	default:
		logger.Ctx(ctx).Error().Err(err).Msg("identity request failed")
		httpx.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	httpx.WriteError(w, status, err.Error())
}
