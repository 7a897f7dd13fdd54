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

type sqliteConversationRepo struct {
	db database.TxQuerier
}

// NewSQLiteConversationRepo, ConversationRepository'nin SQLite implementasyonunu oluşturur.
func NewSQLiteConversationRepo(db database.TxQuerier) ConversationRepository {
	return &sqliteConversationRepo{db: db}
}

func (r *sqliteConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `SELECT id, name, type, created_at FROM conversations WHERE id = ?`

	c := &models.Conversation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return c, nil
}

func (r *sqliteConversationRepo) ListMembers(ctx context.Context, conversationID string) ([]models.GroupMember, error) {
	query := `
		SELECT conversation_id, username, role FROM group_members
		WHERE conversation_id = ? ORDER BY joined_at, username`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.ConversationID, &m.Username, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

func (r *sqliteConversationRepo) IsMember(ctx context.Context, conversationID, username string) (bool, error) {
	query := `SELECT 1 FROM group_members WHERE conversation_id = ? AND username = ? LIMIT 1`

	var dummy int
	err := r.db.QueryRowContext(ctx, query, conversationID, username).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return true, nil
}

func (r *sqliteConversationRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender, content, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ConversationID, msg.Sender, msg.Content, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}
