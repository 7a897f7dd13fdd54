// Package handlers: FriendshipHandler: sosyal olay bildirimleri.
//
// Arkadaşlık ve grup kayıtlarını dış CRUD katmanı tutar. O katman bir olay
// gerçekleştiğinde (yönetici rolündeki servis token'ıyla) buraya haber verir,
// biz de ilgili bildirimi üretip canlı teslim ederiz.
//
// Route'lar:
//
//	POST /api/events/friend-requests              → RequestSent
//	POST /api/events/friend-requests/{id}/accepted → RequestAccepted
//	POST /api/events/friend-requests/{id}/rejected → RequestRejected
//	POST /api/events/group-members                → AddedToGroup
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
)

// FriendshipHandler, sosyal olay endpoint'lerini yöneten struct.
type FriendshipHandler struct {
	events services.EventService
}

// NewFriendshipHandler, constructor.
func NewFriendshipHandler(events services.EventService) *FriendshipHandler {
	return &FriendshipHandler{events: events}
}

type friendRequestEvent struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

type groupMemberEvent struct {
	ConversationID string `json:"conversation_id"`
	GroupName      string `json:"group_name"`
	AddedBy        string `json:"added_by"`
	Member         string `json:"member"`
}

// RequestSent godoc
// POST /api/events/friend-requests
// Body: { "id": "req-1", "from": "alice", "to": "bob" }
func (h *FriendshipHandler) RequestSent(w http.ResponseWriter, r *http.Request) {
	var req friendRequestEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" || req.From == "" || req.To == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "id, from and to are required")
		return
	}

	if err := h.events.FriendRequestSent(r.Context(), req.From, req.To, req.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusAccepted, map[string]string{"message": "notified"})
}

// RequestAccepted godoc
// POST /api/events/friend-requests/{id}/accepted
// Body: { "from": "alice", "to": "bob" } (from: isteği gönderen, to: kabul eden)
func (h *FriendshipHandler) RequestAccepted(w http.ResponseWriter, r *http.Request) {
	h.answered(w, r, true)
}

// RequestRejected godoc
// POST /api/events/friend-requests/{id}/rejected
func (h *FriendshipHandler) RequestRejected(w http.ResponseWriter, r *http.Request) {
	h.answered(w, r, false)
}

func (h *FriendshipHandler) answered(w http.ResponseWriter, r *http.Request, accepted bool) {
	var req friendRequestEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.From == "" || req.To == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "from and to are required")
		return
	}
	requestID := r.PathValue("id")

	notify := h.events.FriendRequestRejected
	if accepted {
		notify = h.events.FriendRequestAccepted
	}

	if err := notify(r.Context(), req.To, req.From, requestID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusAccepted, map[string]string{"message": "notified"})
}

// AddedToGroup godoc
// POST /api/events/group-members
func (h *FriendshipHandler) AddedToGroup(w http.ResponseWriter, r *http.Request) {
	var req groupMemberEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ConversationID == "" || req.Member == "" || req.AddedBy == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "conversation_id, added_by and member are required")
		return
	}

	if err := h.events.AddedToGroup(r.Context(), req.AddedBy, req.Member, req.ConversationID, req.GroupName); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusAccepted, map[string]string{"message": "notified"})
}
