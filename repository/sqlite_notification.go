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

type sqliteNotificationRepo struct {
	db database.TxQuerier
}

// NewSQLiteNotificationRepo, NotificationRepository'nin SQLite implementasyonunu oluşturur.
func NewSQLiteNotificationRepo(db database.TxQuerier) NotificationRepository {
	return &sqliteNotificationRepo{db: db}
}

const notificationColumns = `id, recipient, sender, message, type, related_id, related_kind, is_read, created_at`

// rowScanner, *sql.Row ve *sql.Rows için ortak Scan.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(s rowScanner) (models.Notification, error) {
	var n models.Notification
	var recipient string
	var relatedKind sql.NullString

	err := s.Scan(
		&n.ID, &recipient, &n.Sender, &n.Message, &n.Type,
		&n.RelatedID, &relatedKind, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return n, err
	}

	n.Recipient = models.RecipientFromHandle(recipient)
	if relatedKind.Valid {
		k := models.RelatedKind(relatedKind.String)
		n.RelatedKind = &k
	}
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}

func (r *sqliteNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var relatedKind *string
	if n.RelatedKind != nil {
		s := string(*n.RelatedKind)
		relatedKind = &s
	}

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.Recipient.Handle(), n.Sender, n.Message, string(n.Type),
		n.RelatedID, relatedKind, n.IsRead, n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *sqliteNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &n, nil
}

func (r *sqliteNotificationRepo) ListByRecipients(ctx context.Context, recipients []string, unreadOnly bool) ([]models.Notification, error) {
	if len(recipients) == 0 {
		return []models.Notification{}, nil
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE recipient IN (` + placeholders(len(recipients)) + `)`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	return r.query(ctx, query, stringArgs(recipients)...)
}

func (r *sqliteNotificationRepo) SetRead(ctx context.Context, id string, read bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = ? WHERE id = ?`, read, id)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
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

func (r *sqliteNotificationRepo) SetReadAll(ctx context.Context, recipients []string, read bool) ([]models.Notification, error) {
	if len(recipients) == 0 {
		return []models.Notification{}, nil
	}

	args := append([]any{read}, stringArgs(recipients)...)
	args = append(args, read)

	query := `UPDATE notifications SET is_read = ?
		WHERE recipient IN (` + placeholders(len(recipients)) + `) AND is_read != ?
		RETURNING ` + notificationColumns

	return r.query(ctx, query, args...)
}

func (r *sqliteNotificationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
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

func (r *sqliteNotificationRepo) query(ctx context.Context, query string, args ...any) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}
