// Package database, SQLite bağlantısını ve migration sistemini yönetir.
//
// Driver modernc.org/sqlite: pure-Go, CGO gerekmez. Blank import ile
// database/sql'e "sqlite" adıyla kaydolur.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// recoverableErrors, yarım kalmış bir migration tekrar çalıştırıldığında
// güvenle atlanabilecek hata pattern'larıdır.
var recoverableErrors = []string{
	"duplicate column name",
}

// DB, veritabanı bağlantısını saran struct.
// *sql.DB connection pool'dur ve goroutine'ler arasında paylaşılabilir.
type DB struct {
	Conn *sql.DB
}

// New, yeni bir SQLite bağlantısı açar ve migration'ları çalıştırır.
//
// Pragma'lar:
//   - foreign_keys(1): FK constraint'leri aktif (SQLite'ta varsayılan kapalı)
//   - journal_mode(WAL): eşzamanlı okuma + tek yazar
//   - busy_timeout(5000): yazar kilidi beklenirken SQLITE_BUSY yerine 5sn bekle
//
// _time_format=sqlite: time.Time değerleri SQLite'ın parse edebildiği formatta yazılır,
// DATETIME kolonları okunurken tekrar time.Time'a çevrilir.
//
// _txlock=immediate: BeginTx yazar kilidini en başta alır. Okuyup sonra yazan
// transaction'lar ortada SQLITE_BUSY_SNAPSHOT ile düşmez, busy_timeout kadar bekler.
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	if err := db.runMigrations(context.Background(), migrationsFS); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Str("component", "database").Str("path", dbPath).Msg("connected and migrations applied")
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// runMigrations, migration dosyalarını isim sırasıyla (001_, 002_, ...) çalıştırır.
// schema_migrations tablosu hangi dosyaların uygulandığını takip eder; uygulanmış
// dosyalar tekrar çalıştırılmaz.
func (db *DB) runMigrations(ctx context.Context, migrationsFS fs.FS) error {
	if _, err := db.Conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := db.execStatements(ctx, file, string(content)); err != nil {
			return err
		}

		if _, err := db.Conn.ExecContext(ctx,
			"INSERT INTO schema_migrations (filename) VALUES (?)", file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		log.Info().Str("component", "database").Str("file", file).Msg("migration applied")
	}

	return nil
}

func (db *DB) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := db.Conn.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate migration rows: %w", err)
	}

	return applied, nil
}

// execStatements, bir migration dosyasını statement-by-statement çalıştırır.
// recoverableErrors'daki hatalar loglanıp atlanır.
func (db *DB) execStatements(ctx context.Context, filename, content string) error {
	for i, stmt := range splitStatements(content) {
		if _, err := db.Conn.ExecContext(ctx, stmt); err != nil {
			errMsg := err.Error()
			recoverable := false
			for _, pattern := range recoverableErrors {
				if strings.Contains(errMsg, pattern) {
					recoverable = true
					break
				}
			}

			if recoverable {
				log.Warn().Str("component", "database").Str("file", filename).Int("statement", i+1).
					Str("reason", errMsg).Msg("statement skipped")
				continue
			}

			return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
		}
	}

	return nil
}

// splitStatements, SQL metnini noktalı virgüllerden böler.
// Tek tırnaklı string literal'lerin ve "--" satır yorumlarının içindeki
// noktalı virgüller (ve tırnaklar) yok sayılır; yorumlar çıktıya yazılmaz.
func splitStatements(sql string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if !inString && ch == '-' && i+1 < len(sql) && sql[i+1] == '-' {
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		}

		if ch == '\'' {
			if inString && i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteByte(ch)
				current.WriteByte(sql[i+1])
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			flush()
			continue
		}

		current.WriteByte(ch)
	}
	flush()

	return statements
}
