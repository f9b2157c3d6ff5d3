package http

import (
	"context"
	"net/http"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 20 * time.Second
)

// EventSubscriber streams the run events of one date until ctx is done.
type EventSubscriber interface {
	Subscribe(ctx context.Context, date string) (<-chan ports.RunEvent, error)
}

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// StreamRunEvents handles GET /api/v1/dispatch/{date}/events. The connection
// is upgraded to a websocket and every run event of the date is written as a
// JSON text frame. Client frames are ignored.
func (s *Server) StreamRunEvents(c echo.Context) error {
	if s.h.Events == nil {
		return c.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "run events are not available without REDIS_URL",
		})
	}
	date, err := pathDate(c, "date")
	if err != nil {
		return badRequest(c, "Invalid date: "+err.Error())
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	events, err := s.h.Events.Subscribe(ctx, date.String())
	if err != nil {
		return s.fail(c, errs.NewExternalServiceError("redis", err))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already answered the client.
		return nil
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(wsPongWait)) })

	// Reading is only needed to see pongs and the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, readErr := conn.NextReader(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err = conn.WriteJSON(evt); err != nil {
				s.logger.DebugContext(ctx, "event stream closed", "date", date.String(), "error", err)
				return nil
			}
		case <-ticker.C:
			if err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return nil
			}
		}
	}
}
