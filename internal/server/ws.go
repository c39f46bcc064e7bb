package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/supportbot/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Content string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type       string               `json:"type"` // "response" or "error"
	SessionID  string               `json:"session_id"`
	Error      string               `json:"error,omitempty"`
	Resolution *pipeline.Resolution `json:"resolution,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, sess.ID, "invalid message format")
			continue
		}
		if req.Content == "" {
			s.sendWSError(conn, sess.ID, "content is required")
			continue
		}

		res := s.engine.RespondIn(r.Context(), sess, req.Content)
		s.sendWS(conn, wsResponse{
			Type:       "response",
			SessionID:  sess.ID,
			Resolution: &res,
		})
	}
}

func (s *Server) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn("websocket write failed", zap.Error(err))
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, sessionID, message string) {
	s.sendWS(conn, wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Error:     message,
	})
}
