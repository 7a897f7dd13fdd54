package services

import (
	"context"
	"time"

	"github.com/akinalp/relay/repository"
)

// PresenceService, kimliklerin son aktiflik zamanını tutar ve "online mı" sorusunu yanıtlar.
//
// Online durumu saklanmaz; sorgu anında now - last_active < window ile hesaplanır.
// Arka planda çalışan bir süpürücü yoktur.
type PresenceService interface {
	// Touch, last_active'i şimdiye çeker. Bilinmeyen kimlik için no-op.
	Touch(ctx context.Context, handle string) error

	// IsOnline, last_active varsa ve now - last_active < window ise true döner.
	// Kimlik yoksa veya hiç aktif olmamışsa false; yalnızca altyapı hataları döner.
	IsOnline(ctx context.Context, handle string, window time.Duration) (bool, error)

	// OnlineAmong, verilen kimlikler için toplu IsOnline (arkadaş listesi rozetleri).
	OnlineAmong(ctx context.Context, handles []string, window time.Duration) (map[string]bool, error)
}

type presenceService struct {
	users repository.UserRepository
	now   func() time.Time
}

// NewPresenceService, constructor.
func NewPresenceService(users repository.UserRepository, now func() time.Time) PresenceService {
	if now == nil {
		now = time.Now
	}
	return &presenceService{users: users, now: now}
}

func (s *presenceService) Touch(ctx context.Context, handle string) error {
	return s.users.TouchLastActive(ctx, handle, s.now())
}

func (s *presenceService) IsOnline(ctx context.Context, handle string, window time.Duration) (bool, error) {
	online, err := s.OnlineAmong(ctx, []string{handle}, window)
	if err != nil {
		return false, err
	}
	return online[handle], nil
}

func (s *presenceService) OnlineAmong(ctx context.Context, handles []string, window time.Duration) (map[string]bool, error) {
	lastActive, err := s.users.LastActiveMany(ctx, handles)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make(map[string]bool, len(handles))
	for _, h := range handles {
		last, ok := lastActive[h]
		result[h] = ok && now.Sub(last) < window
	}
	return result, nil
}
