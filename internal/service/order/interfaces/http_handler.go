package interfaces

import (
	"context"
	"errors"
	"io"
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/order/application"
	"bookhub/internal/service/order/domain"
)

// OrderHandler 封装了购物车、订单和提货核销的 HTTP 处理器
type OrderHandler struct {
	carts  *application.CartService
	orders *application.OrderService
	claims *application.ClaimService
	guard  *httpx.Guard
}

func NewOrderHandler(carts *application.CartService, orders *application.OrderService, claims *application.ClaimService, guard *httpx.Guard) *OrderHandler {
	return &OrderHandler{carts: carts, orders: orders, claims: claims, guard: guard}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	user := h.guard.Require()
	staff := h.guard.Require("Staff", "Admin")

	mux.HandleFunc("POST /api/user/addtocart", user(h.handleAddToCart))
	mux.HandleFunc("GET /api/user/getCart", user(h.handleGetCart))
	mux.HandleFunc("PUT /api/user/updatecart/{id}", user(h.handleUpdateCart))
	mux.HandleFunc("DELETE /api/user/deletecart/{id}", user(h.handleDeleteCart))

	mux.HandleFunc("POST /api/order/placeorder", user(h.handlePlaceOrder))
	mux.HandleFunc("GET /api/order/getorder", user(h.handleMyOrders))
	mux.HandleFunc("GET /api/order/getallorder", staff(h.handleAllOrders))
	mux.HandleFunc("PUT /api/order/cancelorder/{id}", user(h.handleCancelOrder))

	mux.HandleFunc("POST /api/staff/verify-claim-code", staff(h.handleVerifyClaimCode))
}

func (h *OrderHandler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req application.AddToCartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.carts.AddToCart(r.Context(), principal(r).UserID, &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Book added to cart successfully"})
}

func (h *OrderHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.carts.GetCart(r.Context(), principal(r).UserID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, lines)
}

func (h *OrderHandler) handleUpdateCart(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateCartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.carts.UpdateCart(r.Context(), principal(r).UserID, r.PathValue("id"), &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Cart item quantity updated successfully"})
}

func (h *OrderHandler) handleDeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.RemoveFromCart(r.Context(), principal(r).UserID, r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Cart item removed successfully"})
}

func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := h.orders.PlaceOrder(r.Context(), principal(r).UserID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"message":    "Order placed successfully",
		"statusCode": http.StatusOK,
		"data":       resp,
	})
}

func (h *OrderHandler) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.MyOrders(r.Context(), principal(r).UserID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.AllOrders(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.CancelOrder(r.Context(), principal(r).UserID, r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Order cancelled successfully"})
}

// handleVerifyClaimCode 成功时返回纯文本确认信息。
func (h *OrderHandler) handleVerifyClaimCode(w http.ResponseWriter, r *http.Request) {
	var req application.VerifyClaimRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.claims.VerifyClaimCode(r.Context(), &req)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, res.Message)
}

// writeServiceError 根据错误类型返回不同的 HTTP 状态码
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrStockLimit),
		errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrCartBookUnavailable),
		errors.Is(err, domain.ErrOrderAlreadyCompleted),
		errors.Is(err, domain.ErrOrderCancelled),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrLoyaltyChanged):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrClaimCodeNotFound),
		errors.Is(err, domain.ErrCustomerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrClaimInProgress),
		errors.Is(err, domain.ErrStatusChanged):
		status = http.StatusConflict
	default:
		logger.Ctx(ctx).Error().Err(err).Msg("order request failed")
		httpx.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	httpx.WriteError(w, status, err.Error())
}

func principal(r *http.Request) *httpx.Principal {
	p, _ := httpx.PrincipalFrom(r.Context())
	return p
}
