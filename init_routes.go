// Package main: HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: token doğrulaması + presence touch
//   - authAdmin: auth + yönetici yetkisi
package main

import (
	"net/http"

	"github.com/akinalp/relay/middleware"
	"github.com/akinalp/relay/pkg"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama notu: Go 1.22 ServeMux'ta literal segment'ler ("read-all")
// parametrik olanlardan ({id}) daha spesifiktir, kayıt sırası önemsizdir.
func initRoutes(mux *http.ServeMux, h *Handlers, svcs *Services) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(svcs.Token, svcs.Presence)
	platformAdminMw := middleware.NewPlatformAdminMiddleware()

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(platformAdminMw.Require(http.HandlerFunc(handler)))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "relay"})
	})

	// User
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))

	// Presence
	mux.Handle("GET /api/presence", auth(h.Presence.Online))

	// Notifications
	mux.Handle("GET /api/notifications", auth(h.Notification.List))
	mux.Handle("POST /api/notifications/read-all", auth(h.Notification.MarkAllRead))
	mux.Handle("POST /api/notifications/unread-all", auth(h.Notification.MarkAllUnread))
	mux.Handle("POST /api/notifications/{id}/read", auth(h.Notification.MarkRead))
	mux.Handle("DELETE /api/notifications/{id}/read", auth(h.Notification.MarkUnread))
	mux.Handle("DELETE /api/notifications/{id}", auth(h.Notification.Delete))

	// Reports & ban status
	mux.Handle("POST /api/reports", auth(h.Report.File))
	mux.Handle("GET /api/bans/{kind}/{id}", auth(h.Report.BanStatus))

	// Conversations
	mux.Handle("POST /api/conversations/{id}/messages", auth(h.Message.Create))

	// ─── Admin ───
	mux.Handle("GET /api/admin/warnings", authAdmin(h.Admin.ListWarnings))
	mux.Handle("POST /api/admin/warnings", authAdmin(h.Admin.IssueWarning))
	mux.Handle("DELETE /api/admin/bans/{kind}/{id}", authAdmin(h.Admin.LiftBan))
	mux.Handle("GET /api/admin/reports", authAdmin(h.Admin.ListReports))
	mux.Handle("POST /api/admin/reports/{id}/resolve", authAdmin(h.Admin.ResolveReport))
	mux.Handle("GET /api/ws/connections", authAdmin(h.Admin.Connections))

	// Sosyal olaylar: dış CRUD katmanı yönetici rolündeki servis token'ıyla çağırır.
	mux.Handle("POST /api/events/friend-requests", authAdmin(h.Friendship.RequestSent))
	mux.Handle("POST /api/events/friend-requests/{id}/accepted", authAdmin(h.Friendship.RequestAccepted))
	mux.Handle("POST /api/events/friend-requests/{id}/rejected", authAdmin(h.Friendship.RequestRejected))
	mux.Handle("POST /api/events/group-members", authAdmin(h.Friendship.AddedToGroup))

	// WebSocket: tarayıcılar upgrade sırasında header gönderemez,
	// token ?token= query parametresiyle gelir ve handler kendisi doğrular.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
