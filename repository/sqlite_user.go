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

// sqliteUserRepo, UserRepository interface'inin SQLite implementasyonu.
type sqliteUserRepo struct {
	db database.TxQuerier
}

// NewSQLiteUserRepo, constructor: interface döner.
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

func (r *sqliteUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, is_admin, last_active, created_at FROM users WHERE username = ?`

	user := &models.User{}
	var isAdmin bool
	var lastActive sql.NullTime

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &isAdmin, &lastActive, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	user.Role = models.RoleUser
	if isAdmin {
		user.Role = models.RoleAdmin
	}
	if lastActive.Valid {
		t := lastActive.Time.UTC()
		user.LastActive = &t
	}

	return user, nil
}

func (r *sqliteUserRepo) TouchLastActive(ctx context.Context, username string, at time.Time) error {
	query := `UPDATE users SET last_active = ? WHERE username = ?`

	if _, err := r.db.ExecContext(ctx, query, at.UTC(), username); err != nil {
		return fmt.Errorf("failed to touch last_active: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) LastActiveMany(ctx context.Context, usernames []string) (map[string]time.Time, error) {
	result := make(map[string]time.Time, len(usernames))
	if len(usernames) == 0 {
		return result, nil
	}

	query := `SELECT username, last_active FROM users
		WHERE last_active IS NOT NULL AND username IN (` + placeholders(len(usernames)) + `)`

	rows, err := r.db.QueryContext(ctx, query, stringArgs(usernames)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query last_active: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var at time.Time
		if err := rows.Scan(&name, &at); err != nil {
			return nil, fmt.Errorf("failed to scan last_active row: %w", err)
		}
		result[name] = at.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating last_active rows: %w", err)
	}

	return result, nil
}
