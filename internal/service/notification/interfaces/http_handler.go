package interfaces

import (
	"net/http"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/notification/application"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { // 跨域由 CORS 中间件统一处理
		return true
	},
}

// NotificationHandler 提供通知列表和 websocket 推送入口
type NotificationHandler struct {
	service *application.NotificationService
	hub     *Hub
	guard   *httpx.Guard
}

func NewNotificationHandler(service *application.NotificationService, hub *Hub, guard *httpx.Guard) *NotificationHandler {
	return &NotificationHandler{service: service, hub: hub, guard: guard}
}

func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux) {
	user := h.guard.Require()

	mux.HandleFunc("GET /api/user/fetchnotification", user(h.handleFetch))
	// 浏览器的 websocket 无法带 header，token 通过 access_token 查询参数传入
	mux.HandleFunc("GET /hub/notifications", user(h.serveWs))
}

func (h *NotificationHandler) handleFetch(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) serveWs(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{hub: h.hub, conn: conn, send: make(chan []byte, sendBuffer), userID: p.UserID}
	if !h.hub.attach(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
