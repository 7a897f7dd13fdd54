package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
)

// MessageHandler, konuşma mesajı endpoint'ini yöneten struct.
type MessageHandler struct {
	chat services.ChatService
}

// NewMessageHandler, constructor.
func NewMessageHandler(chat services.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

// Create godoc
// POST /api/conversations/{id}/messages
// Body: { "content": "merhaba" }
//
// Üye değilse veya ban'lıysa 403, spam korumasına takılırsa 429.
// Mesaj kaydedildikten sonra gönderen hariç tüm üyelere "new_message" event'i gider.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	conversationID := r.PathValue("id")
	if conversationID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "conversation id is required")
		return
	}

	var req models.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.chat.PostMessage(r.Context(), caller.Username, conversationID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, msg)
}
