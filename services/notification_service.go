package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/repository"
	"github.com/akinalp/relay/ws"
)

// NotificationService, domain event'lerini kalıcı bildirime çevirir ve canlı teslim etmeyi dener.
//
// Sıra önemlidir: önce kayıt commit edilir, sonra canlı gönderim denenir.
// Canlı gönderim başarısız olursa Notify yine başarılı döner; alıcı kaydı
// sonradan List ile çeker.
type NotificationService interface {
	Notify(ctx context.Context, in models.NotifyInput) (*models.Notification, error)

	// List, çağıranın bildirimlerini en yeniden eskiye döner.
	// Yöneticiler "admin" alıcılı bildirimleri de görür.
	List(ctx context.Context, caller models.Caller, unreadOnly bool) ([]models.Notification, error)

	MarkRead(ctx context.Context, caller models.Caller, id string) (*models.Notification, error)
	MarkUnread(ctx context.Context, caller models.Caller, id string) (*models.Notification, error)

	// MarkAllRead / MarkAllUnread, değişen kayıtları döner. Hiçbiri değişmediyse pkg.ErrNotFound.
	MarkAllRead(ctx context.Context, caller models.Caller) ([]models.Notification, error)
	MarkAllUnread(ctx context.Context, caller models.Caller) ([]models.Notification, error)

	Delete(ctx context.Context, caller models.Caller, id string) error
}

type notificationService struct {
	repo repository.NotificationRepository
	hub  ws.EventPublisher
	now  func() time.Time
}

// NewNotificationService, constructor.
func NewNotificationService(repo repository.NotificationRepository, hub ws.EventPublisher, now func() time.Time) NotificationService {
	if now == nil {
		now = time.Now
	}
	return &notificationService{repo: repo, hub: hub, now: now}
}

func (s *notificationService) Notify(ctx context.Context, in models.NotifyInput) (*models.Notification, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		Recipient:   in.Recipient,
		Sender:      in.Sender,
		Message:     in.Message,
		Type:        in.Type,
		RelatedID:   in.RelatedID,
		RelatedKind: in.RelatedKind,
		IsRead:      false,
		CreatedAt:   s.now().UTC(),
	}

	// 1. Kalıcılaştır
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	// 2. Canlı teslimat: en fazla bir kez, şimdi
	s.deliver(n)

	return n, nil
}

func (s *notificationService) deliver(n *models.Notification) {
	event := ws.Event{Op: ws.OpNotification, Data: n}

	if n.Recipient.IsAllAdmins() {
		delivered := s.hub.BroadcastAdmins(event)
		log.Debug().Str("component", "notify").Str("id", n.ID).Int("admins", delivered).Msg("admin broadcast")
		return
	}

	handle, _ := n.Recipient.Identity()
	if !s.hub.Unicast(handle, event) {
		log.Debug().Str("component", "notify").Str("id", n.ID).Str("recipient", handle).Msg("live delivery missed")
	}
}

func (s *notificationService) List(ctx context.Context, caller models.Caller, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.ListByRecipients(ctx, ownedHandles(caller), unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, caller models.Caller, id string) (*models.Notification, error) {
	return s.setRead(ctx, caller, id, true)
}

func (s *notificationService) MarkUnread(ctx context.Context, caller models.Caller, id string) (*models.Notification, error) {
	return s.setRead(ctx, caller, id, false)
}

func (s *notificationService) setRead(ctx context.Context, caller models.Caller, id string, read bool) (*models.Notification, error) {
	n, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRead(ctx, id, read); err != nil {
		return nil, err
	}
	n.IsRead = read
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, caller models.Caller) ([]models.Notification, error) {
	return s.setReadAll(ctx, caller, true)
}

func (s *notificationService) MarkAllUnread(ctx context.Context, caller models.Caller) ([]models.Notification, error) {
	return s.setReadAll(ctx, caller, false)
}

func (s *notificationService) setReadAll(ctx context.Context, caller models.Caller, read bool) ([]models.Notification, error) {
	changed, err := s.repo.SetReadAll(ctx, ownedHandles(caller), read)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return nil, fmt.Errorf("%w: no notifications to update", pkg.ErrNotFound)
	}
	return changed, nil
}

func (s *notificationService) Delete(ctx context.Context, caller models.Caller, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// owned, kaydı getirir ve çağıranın sahibi olduğunu doğrular.
// Sahip değilse pkg.ErrUnauthorized; kayda dokunulmaz.
func (s *notificationService) owned(ctx context.Context, caller models.Caller, id string) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.OwnedBy(caller) {
		return nil, fmt.Errorf("%w: notification belongs to another recipient", pkg.ErrUnauthorized)
	}
	return n, nil
}

// ownedHandles, çağıranın sahip olduğu alıcı handle'ları.
func ownedHandles(caller models.Caller) []string {
	if caller.IsAdmin() {
		return []string{caller.Username, models.AllAdmins().Handle()}
	}
	// Ayrılmış handle'ı taşıyan normal kimlik yönetici havuzunun bildirimlerini göremez.
	if models.RecipientFromHandle(caller.Username).IsAllAdmins() {
		return nil
	}
	return []string{caller.Username}
}
