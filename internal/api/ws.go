package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/edgard/grossessebot/internal/assistant"
)

type wsMessage struct {
	Message string `json:"message"`
}

// chatSocket upgrades the connection and answers each {"message": ...} frame
// with a chat result. The whole connection is one session, identified by the
// session_id query parameter or a generated id.
func (h *handler) chatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := h.logger.With("session_id", sessionID)
	log.InfoContext(r.Context(), "WebSocket session opened")

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WarnContext(r.Context(), "WebSocket read failed", "error", err)
			}
			break
		}

		result, err := h.svc.HandleMessage(r.Context(), sessionID, msg.Message)
		var out any = result
		switch {
		case errors.Is(err, assistant.ErrEmptyMessage):
			out = errorResponse{Response: assistant.EmptyMessageResponse, Error: "empty_message"}
		case err != nil:
			log.ErrorContext(r.Context(), "Failed to handle websocket message", "error", err)
			out = errorResponse{Response: technicalErrorResponse, Error: err.Error()}
		}

		if err := conn.WriteJSON(out); err != nil {
			log.WarnContext(r.Context(), "WebSocket write failed", "error", err)
			break
		}
	}

	log.InfoContext(r.Context(), "WebSocket session closed")
}
