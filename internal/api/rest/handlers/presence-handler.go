package handlers

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/middleware"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/presence"
	"go.uber.org/zap"
)

type PresenceHandler struct {
	sessions middleware.SessionResolver
	registry *presence.Registry
}

func NewPresenceHandler(sessions middleware.SessionResolver, registry *presence.Registry) *PresenceHandler {
	return &PresenceHandler{sessions: sessions, registry: registry}
}

func (h *PresenceHandler) SetupRoutes(app *fiber.App) {
	app.Use("/ws", h.upgrade)
	app.Get("/ws", websocket.New(h.serve))
	app.Get("/api/presence/online", middleware.Authenticate(h.sessions), middleware.RequireApproved(), h.Online)
}

// upgrade authenticates the handshake with the token query parameter.
func (h *PresenceHandler) upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	user, err := h.sessions.ResolveSession(ctx.UserContext(), ctx.Query("token"))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	if !user.IsSuperAdmin() && !user.IsApproved() {
		return utils.HandleError(ctx, &domain.ApprovalError{Status: user.ApprovalStatus, Reason: user.RejectionReason})
	}
	middleware.SetCurrentUser(ctx, user)
	return ctx.Next()
}

func (h *PresenceHandler) serve(c *websocket.Conn) {
	user, ok := c.Locals("user").(*domain.User)
	if !ok || user == nil {
		_ = c.Close()
		return
	}

	conn := &wsConn{conn: c}
	h.registry.Register(user.ID, conn)
	h.registry.BroadcastOnline()
	zap.S().Debugw("presence connected", "user_id", user.ID)

	defer func() {
		if h.registry.UnregisterConn(user.ID, conn) {
			h.registry.BroadcastOnline()
		}
		zap.S().Debugw("presence disconnected", "user_id", user.ID)
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *PresenceHandler) Online(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", h.registry.Online())
}

// wsConn serializes writes; the underlying connection allows one writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) Send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}
