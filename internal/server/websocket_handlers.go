package server

import (
	"log/slog"

	"quad/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// requireUpgrade rejects plain HTTP requests on websocket routes.
func requireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// NotificationStream handles GET /api/ws/notifications and pushes the
// caller's notification events as JSON text frames.
func (s *Server) NotificationStream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		profileID, _ := conn.Locals(middleware.ProfileIDLocal).(uint)
		if profileID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(profileID, conn)
		if err != nil {
			middleware.Logger.Warn("notification stream rejected",
				slog.Uint64("profile_id", uint64(profileID)),
				slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
