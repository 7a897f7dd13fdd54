// Package handlers: NotificationHandler: bildirim kutusu endpoint'leri.
//
// Route'lar (init_routes.go'da bağlanır):
//
//	GET    /api/notifications              → List (?unread=true)
//	POST   /api/notifications/read-all     → MarkAllRead
//	POST   /api/notifications/unread-all   → MarkAllUnread
//	POST   /api/notifications/{id}/read    → MarkRead
//	DELETE /api/notifications/{id}/read    → MarkUnread
//	DELETE /api/notifications/{id}         → Delete
//
// Sahiplik kontrolü service katmanındadır; başkasının bildirimi 401 döner.
package handlers

import (
	"net/http"

	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
)

// NotificationHandler, bildirim endpoint'lerini yöneten struct.
type NotificationHandler struct {
	notifications services.NotificationService
}

// NewNotificationHandler, constructor.
func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List godoc
// GET /api/notifications?unread=true
// En yeni önce sıralı bildirimleri döner. Yöneticiler admin havuzuna gidenleri de görür.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	list, err := h.notifications.List(r.Context(), caller, unreadOnly)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, list)
}

// MarkRead godoc
// POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, true)
}

// MarkUnread godoc
// DELETE /api/notifications/{id}/read
func (h *NotificationHandler) MarkUnread(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, false)
}

func (h *NotificationHandler) setRead(w http.ResponseWriter, r *http.Request, read bool) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "notification id is required")
		return
	}

	mark := h.notifications.MarkUnread
	if read {
		mark = h.notifications.MarkRead
	}

	n, err := mark(r.Context(), caller, id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, n)
}

// MarkAllRead godoc
// POST /api/notifications/read-all
// Değişen bildirimleri döner; değişen yoksa 404.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	changed, err := h.notifications.MarkAllRead(r.Context(), caller)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, changed)
}

// MarkAllUnread godoc
// POST /api/notifications/unread-all
func (h *NotificationHandler) MarkAllUnread(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	changed, err := h.notifications.MarkAllUnread(r.Context(), caller)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, changed)
}

// Delete godoc
// DELETE /api/notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "notification id is required")
		return
	}

	if err := h.notifications.Delete(r.Context(), caller, id); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
