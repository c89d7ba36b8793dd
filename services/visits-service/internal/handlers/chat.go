package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pantrio/zaru-visits/libs/httpx"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/agent"
)

type ChatHandler struct {
	agent  *agent.Agent // nil when the assistant is not configured
	logger *slog.Logger
}

func NewChatHandler(a *agent.Agent, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{agent: a, logger: logger}
}

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type chatResponse struct {
	agent.Reply
	Timestamp string `json:"timestamp"`
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.agent == nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "AI assistant not configured",
		})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "message must not be empty"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = "anonymous"
	}

	reply := h.agent.ProcessMessage(r.Context(), req.UserID, req.Message)
	httpx.WriteJSON(w, http.StatusOK, chatResponse{
		Reply:     reply,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
