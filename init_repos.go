// Package main: Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository bir database.TxQuerier alır ve interface döner.
package main

import (
	"database/sql"

	"github.com/akinalp/relay/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User         repository.UserRepository
	Notification repository.NotificationRepository
	Warning      repository.WarningRepository
	Report       repository.ReportRepository
	Conversation repository.ConversationRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// Her NewSQLite* fonksiyonu aynı *sql.DB'yi alır; sql.DB thread-safe
// bir connection pool'dur.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(conn),
		Notification: repository.NewSQLiteNotificationRepo(conn),
		Warning:      repository.NewSQLiteWarningRepo(conn),
		Report:       repository.NewSQLiteReportRepo(conn),
		Conversation: repository.NewSQLiteConversationRepo(conn),
	}
}
