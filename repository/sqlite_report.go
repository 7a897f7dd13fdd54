package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/relay/database"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
)

type sqliteReportRepo struct {
	db database.TxQuerier
}

// NewSQLiteReportRepo, ReportRepository'nin SQLite implementasyonunu oluşturur.
func NewSQLiteReportRepo(db database.TxQuerier) ReportRepository {
	return &sqliteReportRepo{db: db}
}

const reportColumns = `id, reporter, kind, target_kind, target_id, title, description, severity, status, created_at, updated_at, resolved_at`

func scanReport(s rowScanner) (models.Report, error) {
	var rep models.Report
	var targetKind sql.NullString
	var resolvedAt sql.NullTime

	err := s.Scan(
		&rep.ID, &rep.Reporter, &rep.Kind, &targetKind, &rep.TargetID,
		&rep.Title, &rep.Description, &rep.Severity, &rep.Status,
		&rep.CreatedAt, &rep.UpdatedAt, &resolvedAt,
	)
	if err != nil {
		return rep, err
	}

	if targetKind.Valid {
		k := models.TargetKind(targetKind.String)
		rep.TargetKind = &k
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time.UTC()
		rep.ResolvedAt = &t
	}
	rep.CreatedAt = rep.CreatedAt.UTC()
	rep.UpdatedAt = rep.UpdatedAt.UTC()
	return rep, nil
}

func (r *sqliteReportRepo) Create(ctx context.Context, rep *models.Report) error {
	query := `INSERT INTO reports (` + reportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var targetKind *string
	if rep.TargetKind != nil {
		s := string(*rep.TargetKind)
		targetKind = &s
	}

	_, err := r.db.ExecContext(ctx, query,
		rep.ID, rep.Reporter, string(rep.Kind), targetKind, rep.TargetID,
		rep.Title, rep.Description, string(rep.Severity), string(rep.Status),
		rep.CreatedAt.UTC(), rep.UpdatedAt.UTC(), rep.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (r *sqliteReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &rep, nil
}

func (r *sqliteReportRepo) List(ctx context.Context, status *models.ReportStatus) ([]models.Report, error) {
	if status != nil {
		return r.query(ctx,
			`SELECT `+reportColumns+` FROM reports WHERE status = ? ORDER BY created_at DESC`,
			string(*status),
		)
	}
	return r.query(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC`)
}

func (r *sqliteReportRepo) ListPendingByTarget(ctx context.Context, kind models.TargetKind, targetID string) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports
		WHERE target_kind = ? AND target_id = ? AND status = 'pending'
		ORDER BY created_at`

	return r.query(ctx, query, string(kind), targetID)
}

func (r *sqliteReportRepo) Resolve(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE reports SET status = 'resolved', resolved_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, at.UTC(), at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Hiçbir satır değişmedi: ya rapor yok ya da zaten çözülmüş.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: report already resolved", pkg.ErrConflict)
}

func (r *sqliteReportRepo) query(ctx context.Context, query string, args ...any) ([]models.Report, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return reports, nil
}
