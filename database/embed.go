package database

import (
	"embed"
	"fmt"
	"io/fs"
)

// embeddedMigrations, migrations/ dizinindeki SQL dosyalarını binary'ye gömer.
//
//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations, gömülü migration dosyalarını kök dizinleri "migrations" olacak şekilde döner.
// database.New'e doğrudan verilebilir.
func Migrations() (fs.FS, error) {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return sub, nil
}
