// Package main: Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Handler'lar "thin" dir: sadece HTTP parse + service call + response write.
package main

import (
	"github.com/akinalp/relay/config"
	"github.com/akinalp/relay/handlers"
	"github.com/akinalp/relay/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Notification *handlers.NotificationHandler
	Presence     *handlers.PresenceHandler
	Report       *handlers.ReportHandler
	Admin        *handlers.AdminHandler
	Message      *handlers.MessageHandler
	Friendship   *handlers.FriendshipHandler
	WS           *ws.Handler
}

// initHandlers, tüm handler'ları service dependency'leri ile oluşturur.
func initHandlers(svcs *Services, hub *ws.Hub, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:         handlers.NewAuthHandler(),
		Notification: handlers.NewNotificationHandler(svcs.Notification),
		Presence:     handlers.NewPresenceHandler(svcs.Presence, cfg.Presence.OnlineWindow),
		Report:       handlers.NewReportHandler(svcs.Moderation),
		Admin:        handlers.NewAdminHandler(svcs.Moderation, hub),
		Message:      handlers.NewMessageHandler(svcs.Chat),
		Friendship:   handlers.NewFriendshipHandler(svcs.Event),
		WS:           ws.NewHandler(hub, svcs.Token, svcs.Presence, cfg.WS, cfg.Server.AllowedOrigins),
	}
}
