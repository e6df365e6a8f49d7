package server

import (
	"context"
	"log/slog"

	"campusgram/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// StartNotificationWiring subscribes the socket hub to the Redis notification
// channels until ctx is done. Without Redis there is nothing to wire.
func (s *Server) StartNotificationWiring(ctx context.Context) error {
	if s.hub == nil {
		return nil
	}
	return s.hub.StartWiring(ctx, s.notifier)
}

// NotificationSocket handles GET /ws/notifications. Each notification written for
// the signed-in user is pushed as a JSON event.
func (s *Server) NotificationSocket() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("notification socket rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		client.Serve()
	})

	return func(c *fiber.Ctx) error {
		if s.hub == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Live notifications are unavailable.")
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
