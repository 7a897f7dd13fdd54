package repository

import (
	"context"

	"github.com/akinalp/relay/models"
)

// NotificationRepository, bildirim kayıtları için interface.
//
// Sahiplik kontrolü service katmanındadır; repository yalnızca kayıt üzerinde çalışır.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)

	// ListByRecipients, alıcı handle'larından herhangi birine ait bildirimleri
	// en yeniden eskiye döner. Yöneticiler için "admin" handle'ı da listeye eklenir.
	ListByRecipients(ctx context.Context, recipients []string, unreadOnly bool) ([]models.Notification, error)

	SetRead(ctx context.Context, id string, read bool) error

	// SetReadAll, durumu farklı olan tüm kayıtları günceller ve güncellenen kayıtları döner.
	SetReadAll(ctx context.Context, recipients []string, read bool) ([]models.Notification, error)

	Delete(ctx context.Context, id string) error
}
