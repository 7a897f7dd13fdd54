package repository

import (
	"context"
	"time"

	"github.com/akinalp/relay/models"
)

// ReportRepository, şikayet / hata raporu kayıtları için interface.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)

	// List, raporları en yeniden eskiye döner. status nil ise hepsi.
	List(ctx context.Context, status *models.ReportStatus) ([]models.Report, error)

	// ListPendingByTarget, bir hedefe karşı dosyalanmış bekleyen raporlar.
	ListPendingByTarget(ctx context.Context, kind models.TargetKind, targetID string) ([]models.Report, error)

	// Resolve, pending → resolved geçişini yapar.
	// Rapor yoksa pkg.ErrNotFound, zaten çözülmüşse pkg.ErrConflict.
	Resolve(ctx context.Context, id string, at time.Time) error
}
