package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codeberg.org/gruf/go-mutexes"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/database"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/repository"
)

// ModerationService, uyarı/ban merdivenini ve rapor yaşam döngüsünü yönetir.
//
// Bir hedef (kullanıcı veya grup) üzerindeki her yazma işlemi:
//  1. hedef anahtarı için süreç içi kilidi alır (go-mutexes MutexMap)
//  2. okuma-kontrol-yazma adımlarını tek bir SQL transaction'ında yapar
//  3. commit'ten sonra bildirimleri gönderir
//
// warnings tablosundaki UNIQUE(target_kind, target_id) başka bir süreçle yarışta
// ikinci kaydın oluşmasını engeller; o durumda pkg.ErrConflict döner.
type ModerationService interface {
	// IssueWarning, hedefi merdivende bir basamak ilerletir.
	// Açık bir ban penceresi varsa pkg.ErrConflict döner ve kayda dokunulmaz.
	IssueWarning(ctx context.Context, in models.IssueWarningInput) (*models.Warning, error)

	// LiftBan, hedefin aktif ban'larının süresini 0'a çeker. Aktif ban yoksa pkg.ErrNotFound.
	LiftBan(ctx context.Context, kind models.TargetKind, targetID string) error

	// IsBanned, şu an açık olan ban pencerelerini hesaplar.
	IsBanned(ctx context.Context, kind models.TargetKind, targetID string) (bool, []models.BanWindow, error)

	FileReport(ctx context.Context, reporter string, in models.FileReportInput) (*models.Report, error)

	// ResolveReport, bekleyen raporu çözüldü olarak işaretler (tam olarak bir kez).
	ResolveReport(ctx context.Context, reportID string) (*models.Report, error)

	ListReports(ctx context.Context, status *models.ReportStatus) ([]models.Report, error)
	ListWarnings(ctx context.Context) ([]models.Warning, error)
}

type moderationService struct {
	db            *sql.DB
	store         *repository.Store
	notifications NotificationService
	locks         *mutexes.MutexMap
	now           func() time.Time
}

// NewModerationService, constructor.
func NewModerationService(db *sql.DB, notifications NotificationService, now func() time.Time) ModerationService {
	if now == nil {
		now = time.Now
	}
	return &moderationService{
		db:            db,
		store:         repository.NewStore(db),
		notifications: notifications,
		locks:         &mutexes.MutexMap{},
		now:           now,
	}
}

func targetKey(kind models.TargetKind, targetID string) string {
	return string(kind) + ":" + targetID
}

func (s *moderationService) IssueWarning(ctx context.Context, in models.IssueWarningInput) (*models.Warning, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	unlock := s.locks.Lock(targetKey(in.TargetKind, in.TargetID))
	defer unlock()

	recipients, err := s.targetRecipients(ctx, in.TargetKind, in.TargetID)
	if err != nil {
		return nil, err
	}

	var warning *models.Warning
	var resolved []models.Report

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		st := repository.NewStore(tx)
		now := s.now().UTC()

		existing, err := st.Warnings.GetByTarget(ctx, in.TargetKind, in.TargetID)
		if err != nil && !errors.Is(err, pkg.ErrNotFound) {
			return err
		}

		esc := models.EscalationOf(existing)
		if esc.State == models.StateWarned && esc.Current.ActiveAt(now) {
			return fmt.Errorf("%w: target is serving an active ban until %s",
				pkg.ErrConflict, esc.Current.Window().End.Format(time.RFC3339))
		}

		count, duration := esc.Next()
		switch esc.State {
		case models.StateClean:
			warning = &models.Warning{
				ID:          uuid.NewString(),
				TargetKind:  in.TargetKind,
				TargetID:    in.TargetID,
				Reason:      in.Reason,
				BanDuration: duration,
				BanCount:    count,
				CreatedAt:   now,
			}
			if err := st.Warnings.Create(ctx, warning); err != nil {
				return err
			}
		case models.StateWarned:
			warning = esc.Current
			warning.Reason = in.Reason
			warning.BanDuration = duration
			warning.BanCount = count
			warning.CreatedAt = now
			if err := st.Warnings.Escalate(ctx, warning); err != nil {
				return err
			}
		}

		resolved, err = s.resolveForWarning(ctx, st, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("component", "moderation").
		Str("target", targetKey(warning.TargetKind, warning.TargetID)).
		Int("ban_count", warning.BanCount).Int("ban_duration", warning.BanDuration).
		Int("reports_resolved", len(resolved)).Msg("warning issued")

	inputs := make([]models.NotifyInput, 0, len(recipients)+len(resolved))
	for _, r := range recipients {
		inputs = append(inputs, warningIssuedInput(r, warning))
	}
	seen := make(map[string]bool, len(resolved))
	for _, rep := range resolved {
		if seen[rep.Reporter] {
			continue
		}
		seen[rep.Reporter] = true
		inputs = append(inputs, reportResolvedInput(rep.Reporter, rep.ID, true))
	}

	if err := s.notifyAll(ctx, inputs); err != nil {
		return warning, fmt.Errorf("warning issued but notification failed: %w", err)
	}
	return warning, nil
}

// resolveForWarning, hedefe karşı bekleyen tüm raporları ve (verildiyse) uyarının
// dayandığı raporu çözer. Çözülen raporları döner. Verilen rapor başka bir hedefe
// (ya da bir bug raporuna) aitse ErrBadRequest döner ve transaction geri alınır.
func (s *moderationService) resolveForWarning(ctx context.Context, st *repository.Store, in models.IssueWarningInput, now time.Time) ([]models.Report, error) {
	pending, err := st.Reports.ListPendingByTarget(ctx, in.TargetKind, in.TargetID)
	if err != nil {
		return nil, err
	}

	if in.ReportID != nil {
		named, err := st.Reports.GetByID(ctx, *in.ReportID)
		if err != nil {
			return nil, err
		}
		if named.TargetKind == nil || named.TargetID == nil ||
			*named.TargetKind != in.TargetKind || *named.TargetID != in.TargetID {
			return nil, fmt.Errorf("%w: report does not concern this target", pkg.ErrBadRequest)
		}
		if named.Status == models.ReportPending && !containsReport(pending, named.ID) {
			pending = append(pending, *named)
		}
	}

	for i := range pending {
		if err := st.Reports.Resolve(ctx, pending[i].ID, now); err != nil {
			return nil, err
		}
		pending[i].Status = models.ReportResolved
		resolvedAt := now
		pending[i].ResolvedAt = &resolvedAt
		pending[i].UpdatedAt = now
	}

	return pending, nil
}

func containsReport(reports []models.Report, id string) bool {
	for _, r := range reports {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (s *moderationService) LiftBan(ctx context.Context, kind models.TargetKind, targetID string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: invalid target kind %q", pkg.ErrBadRequest, kind)
	}

	unlock := s.locks.Lock(targetKey(kind, targetID))
	defer unlock()

	lifted := 0
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		st := repository.NewStore(tx)
		now := s.now()

		warnings, err := st.Warnings.ListByTarget(ctx, kind, targetID)
		if err != nil {
			return err
		}

		for _, w := range warnings {
			if !w.ActiveAt(now) {
				continue
			}
			if err := st.Warnings.SetBanDuration(ctx, w.ID, 0); err != nil {
				return err
			}
			lifted++
		}

		if lifted == 0 {
			return fmt.Errorf("%w: no active ban for %s", pkg.ErrNotFound, targetKey(kind, targetID))
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("component", "moderation").Str("target", targetKey(kind, targetID)).
		Int("lifted", lifted).Msg("ban lifted")

	recipients, err := s.targetRecipients(ctx, kind, targetID)
	if err != nil {
		// Kayıt güncellendi; hedef dış katmanda silinmiş olabilir.
		log.Warn().Str("component", "moderation").Str("target", targetKey(kind, targetID)).
			Err(err).Msg("ban lifted but recipients could not be resolved")
		return nil
	}

	inputs := make([]models.NotifyInput, 0, len(recipients))
	for _, r := range recipients {
		inputs = append(inputs, banLiftedInput(r, kind, targetID))
	}
	if err := s.notifyAll(ctx, inputs); err != nil {
		return fmt.Errorf("ban lifted but notification failed: %w", err)
	}
	return nil
}

func (s *moderationService) IsBanned(ctx context.Context, kind models.TargetKind, targetID string) (bool, []models.BanWindow, error) {
	if !kind.Valid() {
		return false, nil, fmt.Errorf("%w: invalid target kind %q", pkg.ErrBadRequest, kind)
	}

	warnings, err := s.store.Warnings.ListByTarget(ctx, kind, targetID)
	if err != nil {
		return false, nil, err
	}

	now := s.now()
	active := []models.BanWindow{}
	for _, w := range warnings {
		if w.ActiveAt(now) {
			active = append(active, w.Window())
		}
	}

	return len(active) > 0, active, nil
}

func (s *moderationService) FileReport(ctx context.Context, reporter string, in models.FileReportInput) (*models.Report, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	now := s.now().UTC()
	report := &models.Report{
		ID:          uuid.NewString(),
		Reporter:    reporter,
		Kind:        in.Kind,
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      models.ReportPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if kind, ok := in.Kind.TargetKind(); ok {
		if kind == models.TargetUser && in.TargetID == reporter {
			return nil, fmt.Errorf("%w: cannot report yourself", pkg.ErrBadRequest)
		}
		if err := s.targetExists(ctx, kind, in.TargetID); err != nil {
			return nil, err
		}
		targetID := in.TargetID
		report.TargetKind = &kind
		report.TargetID = &targetID
	}

	if err := s.store.Reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if _, err := s.notifications.Notify(ctx, reportFiledInput(report)); err != nil {
		return report, fmt.Errorf("report filed but notification failed: %w", err)
	}
	return report, nil
}

func (s *moderationService) ResolveReport(ctx context.Context, reportID string) (*models.Report, error) {
	var report *models.Report

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		st := repository.NewStore(tx)
		if err := st.Reports.Resolve(ctx, reportID, s.now()); err != nil {
			return err
		}

		var err error
		report, err = st.Reports.GetByID(ctx, reportID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.notifications.Notify(ctx, reportResolvedInput(report.Reporter, report.ID, false)); err != nil {
		return report, fmt.Errorf("report resolved but notification failed: %w", err)
	}
	return report, nil
}

func (s *moderationService) ListReports(ctx context.Context, status *models.ReportStatus) ([]models.Report, error) {
	if status != nil && *status != models.ReportPending && *status != models.ReportResolved {
		return nil, fmt.Errorf("%w: invalid status %q", pkg.ErrBadRequest, *status)
	}
	return s.store.Reports.List(ctx, status)
}

func (s *moderationService) ListWarnings(ctx context.Context) ([]models.Warning, error) {
	return s.store.Warnings.List(ctx)
}

// targetExists, hedefin dış katmanda kayıtlı olduğunu doğrular.
func (s *moderationService) targetExists(ctx context.Context, kind models.TargetKind, targetID string) error {
	_, err := s.targetRecipients(ctx, kind, targetID)
	return err
}

// targetRecipients, hedefe ait bildirimlerin gideceği kimlikleri döner:
// kullanıcı için kendisi, grup için grup yöneticisi üyeler.
func (s *moderationService) targetRecipients(ctx context.Context, kind models.TargetKind, targetID string) ([]string, error) {
	switch kind {
	case models.TargetUser:
		if _, err := s.store.Users.GetByUsername(ctx, targetID); err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %q not found", pkg.ErrNotFound, targetID)
			}
			return nil, err
		}
		return []string{targetID}, nil

	case models.TargetGroup:
		conv, err := s.store.Conversations.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return nil, fmt.Errorf("%w: group %q not found", pkg.ErrNotFound, targetID)
			}
			return nil, err
		}
		if conv.Type != models.ConversationGroup {
			return nil, fmt.Errorf("%w: group %q not found", pkg.ErrNotFound, targetID)
		}

		members, err := s.store.Conversations.ListMembers(ctx, targetID)
		if err != nil {
			return nil, err
		}
		var admins []string
		for _, m := range members {
			if m.Role == models.MemberAdmin {
				admins = append(admins, m.Username)
			}
		}
		return admins, nil
	}

	return nil, fmt.Errorf("%w: invalid target kind %q", pkg.ErrBadRequest, kind)
}

// notifyAll, her girdi için Notify çağırır; biri başarısız olsa da diğerlerine devam eder.
func (s *moderationService) notifyAll(ctx context.Context, inputs []models.NotifyInput) error {
	var errs []error
	for _, in := range inputs {
		if _, err := s.notifications.Notify(ctx, in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
