package repository

import (
	"context"

	"github.com/akinalp/relay/models"
)

// WarningRepository, moderasyon kayıtları (uyarı / ban) için interface.
//
// (target_kind, target_id) UNIQUE'tir: Create aynı hedef için ikinci kez çağrılırsa
// pkg.ErrConflict döner.
type WarningRepository interface {
	// GetByTarget, hedefin canlı kaydını döner. Kayıt yoksa pkg.ErrNotFound.
	GetByTarget(ctx context.Context, kind models.TargetKind, targetID string) (*models.Warning, error)

	// ListByTarget, hedefe ait tüm kayıtları döner (ban durumu hesaplaması için).
	ListByTarget(ctx context.Context, kind models.TargetKind, targetID string) ([]models.Warning, error)

	Create(ctx context.Context, w *models.Warning) error

	// Escalate, mevcut kaydın gerekçe, süre, sayaç ve zamanını yerinde günceller.
	Escalate(ctx context.Context, w *models.Warning) error

	// SetBanDuration, bir kaydın ban süresini değiştirir (ban kaldırmada 0).
	SetBanDuration(ctx context.Context, id string, minutes int) error

	List(ctx context.Context) ([]models.Warning, error)
}
