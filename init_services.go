// Package main: Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
//
// Sıralama kuralı: NotificationService → ModerationService → ChatService.
// Moderasyon bildirim üretir, chat ise ban kontrolü için moderasyona bakar.
package main

import (
	"database/sql"

	"github.com/akinalp/relay/config"
	"github.com/akinalp/relay/pkg/ratelimit"
	"github.com/akinalp/relay/services"
	"github.com/akinalp/relay/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Token        services.TokenService
	Presence     services.PresenceService
	Notification services.NotificationService
	Event        services.EventService
	Moderation   services.ModerationService
	Chat         services.ChatService
}

// RateLimiters, tüm rate limiter instance'larını tutan container.
type RateLimiters struct {
	Message *ratelimit.MessageRateLimiter
}

// Stop, limiter'ların arka plan goroutine'lerini durdurur.
func (l *RateLimiters) Stop() {
	l.Message.Stop()
}

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
// Saat olarak time.Now kullanılır (nil).
func initServices(db *sql.DB, repos *Repositories, hub ws.EventPublisher, cfg *config.Config) (*Services, *RateLimiters) {
	messageLimiter := ratelimit.NewMessageRateLimiter(
		cfg.Chat.MaxMessages, cfg.Chat.Window, cfg.Chat.Cooldown, nil,
	)

	notificationService := services.NewNotificationService(repos.Notification, hub, nil)
	moderationService := services.NewModerationService(db, notificationService, nil)

	svcs := &Services{
		Token:        services.NewTokenService(cfg.JWT.Secret, nil),
		Presence:     services.NewPresenceService(repos.User, nil),
		Notification: notificationService,
		Event:        services.NewEventService(notificationService),
		Moderation:   moderationService,
		Chat:         services.NewChatService(repos.Conversation, hub, moderationService, messageLimiter, nil),
	}

	return svcs, &RateLimiters{Message: messageLimiter}
}
