package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/relay/database"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
)

type sqliteWarningRepo struct {
	db database.TxQuerier
}

// NewSQLiteWarningRepo, WarningRepository'nin SQLite implementasyonunu oluşturur.
func NewSQLiteWarningRepo(db database.TxQuerier) WarningRepository {
	return &sqliteWarningRepo{db: db}
}

const warningColumns = `id, target_kind, target_id, reason, ban_duration, ban_count, created_at`

func scanWarning(s rowScanner) (models.Warning, error) {
	var w models.Warning
	err := s.Scan(&w.ID, &w.TargetKind, &w.TargetID, &w.Reason, &w.BanDuration, &w.BanCount, &w.CreatedAt)
	w.CreatedAt = w.CreatedAt.UTC()
	return w, err
}

func (r *sqliteWarningRepo) GetByTarget(ctx context.Context, kind models.TargetKind, targetID string) (*models.Warning, error) {
	query := `SELECT ` + warningColumns + ` FROM warnings WHERE target_kind = ? AND target_id = ?`

	w, err := scanWarning(r.db.QueryRowContext(ctx, query, string(kind), targetID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warning by target: %w", err)
	}

	return &w, nil
}

func (r *sqliteWarningRepo) ListByTarget(ctx context.Context, kind models.TargetKind, targetID string) ([]models.Warning, error) {
	query := `SELECT ` + warningColumns + ` FROM warnings
		WHERE target_kind = ? AND target_id = ? ORDER BY created_at`

	return r.query(ctx, query, string(kind), targetID)
}

func (r *sqliteWarningRepo) Create(ctx context.Context, w *models.Warning) error {
	query := `INSERT INTO warnings (` + warningColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		w.ID, string(w.TargetKind), w.TargetID, w.Reason, w.BanDuration, w.BanCount, w.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: target already has a warning record", pkg.ErrConflict)
		}
		return fmt.Errorf("failed to create warning: %w", err)
	}

	return nil
}

func (r *sqliteWarningRepo) Escalate(ctx context.Context, w *models.Warning) error {
	query := `
		UPDATE warnings SET reason = ?, ban_duration = ?, ban_count = ?, created_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		w.Reason, w.BanDuration, w.BanCount, w.CreatedAt.UTC(), w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to escalate warning: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteWarningRepo) SetBanDuration(ctx context.Context, id string, minutes int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE warnings SET ban_duration = ? WHERE id = ?`, minutes, id)
	if err != nil {
		return fmt.Errorf("failed to update ban duration: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteWarningRepo) List(ctx context.Context) ([]models.Warning, error) {
	return r.query(ctx, `SELECT `+warningColumns+` FROM warnings ORDER BY created_at DESC`)
}

func (r *sqliteWarningRepo) query(ctx context.Context, query string, args ...any) ([]models.Warning, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query warnings: %w", err)
	}
	defer rows.Close()

	warnings := []models.Warning{}
	for rows.Next() {
		w, err := scanWarning(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warning row: %w", err)
		}
		warnings = append(warnings, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warning rows: %w", err)
	}

	return warnings, nil
}
