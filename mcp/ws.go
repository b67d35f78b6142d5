package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The server binds locally; cross-origin browser clients are
	// expected during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades HTTP requests to WebSocket sessions, each
// serving the same JSON-RPC dispatch as stdio.
func (s *Server) WSHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Error().Err(err).Msg("websocket upgrade failed")
			return
		}
		sessionID := uuid.Must(uuid.NewV4()).String()
		s.logger.Info().Str("session", sessionID).Str("remote", r.RemoteAddr).Msg("websocket session opened")

		s.serveConn(r.Context(), conn, sessionID)
	})
}

func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn, sessionID string) {
	defer func() {
		conn.Close()
		s.logger.Info().Str("session", sessionID).Msg("websocket session closed")
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Str("session", sessionID).Msg("websocket read failed")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		resp := s.Handle(ctx, message)
		if resp == nil {
			continue
		}

		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			s.logger.Warn().Err(err).Str("session", sessionID).Msg("websocket write failed")
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, resp); err != nil {
			s.logger.Warn().Err(err).Str("session", sessionID).Msg("websocket write failed")
			return
		}
	}
}

// ServeWebSocket listens on addr and serves WebSocket sessions at /ws
// until ctx is cancelled.
func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.WSHandler())

	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info().Str("addr", addr).Msg("websocket server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down websocket server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("websocket server failed: %w", err)
		}
		return nil
	}
}
