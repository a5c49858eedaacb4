package http

import (
	"context"
	"net/http"

	"qrcafe/internal/adapters/out/realtime"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// RealtimeServer runs an upgraded connection until it closes.
type RealtimeServer interface {
	Serve(ctx context.Context, conn realtime.Conn) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Realtime handles GET /ws.
func (s *Server) Realtime(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		return nil
	}

	principal, _ := PrincipalFrom(c)
	s.logger.InfoContext(c.Request().Context(), "realtime connection opened", "staff", principal.Username)

	if err = s.realtime.Serve(c.Request().Context(), conn); err != nil {
		s.logger.WarnContext(c.Request().Context(), "realtime session rejected", "error", err)
	}
	return nil
}
