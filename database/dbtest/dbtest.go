// Package dbtest, testler için migration'ları uygulanmış geçici bir SQLite veritabanı açar.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akinalp/relay/database"
)

// New, t.TempDir altında yeni bir veritabanı oluşturur; test bitince kapatılır.
func New(t testing.TB) *database.DB {
	t.Helper()

	migrations, err := database.Migrations()
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrations)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// SeedUser, dış CRUD katmanının yapacağı kaydı taklit ederek bir kimlik ekler.
func SeedUser(t testing.TB, db *database.DB, username string, isAdmin bool) {
	t.Helper()

	_, err := db.Conn.ExecContext(context.Background(),
		`INSERT INTO users (id, username, is_admin) VALUES (?, ?, ?)`,
		"u-"+username, username, isAdmin,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

// SeedConversation, üyeleriyle birlikte bir konuşma ekler. admins listesindeki
// kullanıcılar grup yöneticisi rolüyle eklenir.
func SeedConversation(t testing.TB, db *database.DB, id, kind string, members []string, admins ...string) {
	t.Helper()

	ctx := context.Background()
	if _, err := db.Conn.ExecContext(ctx,
		`INSERT INTO conversations (id, name, type) VALUES (?, ?, ?)`, id, id, kind,
	); err != nil {
		t.Fatalf("seed conversation %s: %v", id, err)
	}

	isAdmin := make(map[string]bool, len(admins))
	for _, a := range admins {
		isAdmin[a] = true
	}

	for _, m := range members {
		role := "member"
		if isAdmin[m] {
			role = "admin"
		}
		if _, err := db.Conn.ExecContext(ctx,
			`INSERT INTO group_members (conversation_id, username, role) VALUES (?, ?, ?)`, id, m, role,
		); err != nil {
			t.Fatalf("seed member %s/%s: %v", id, m, err)
		}
	}
}
