// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz; bu paketteki interface'ler üzerinden çalışır.
// Her implementasyon database.TxQuerier alır: aynı repository hem *sql.DB ile
// hem de bir transaction (*sql.Tx) içinde kullanılabilir.
package repository

import (
	"context"
	"time"

	"github.com/akinalp/relay/models"
)

// UserRepository, kimlik kayıtları üzerindeki okuma ve last_active güncellemesi.
// Kayıt/profil işlemleri dış CRUD katmanına aittir.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// TouchLastActive, last_active'i at değerine çeker.
	// Kimlik yoksa hiçbir satır etkilenmez; hata dönmez.
	TouchLastActive(ctx context.Context, username string, at time.Time) error

	// LastActiveMany, verilen kimliklerin last_active değerlerini döner.
	// Hiç aktif olmamış veya var olmayan kimlikler map'te yer almaz.
	LastActiveMany(ctx context.Context, usernames []string) (map[string]time.Time, error)
}
