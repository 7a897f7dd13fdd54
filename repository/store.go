package repository

import "github.com/akinalp/relay/database"

// Store, aynı querier'a bağlı repository'leri bir arada tutar.
//
// database.WithTx içinde NewStore(tx) ile oluşturulursa tüm repository'ler
// aynı transaction üzerinde çalışır.
type Store struct {
	Users         UserRepository
	Notifications NotificationRepository
	Warnings      WarningRepository
	Reports       ReportRepository
	Conversations ConversationRepository
}

// NewStore, q üzerinde çalışan bir Store oluşturur.
func NewStore(q database.TxQuerier) *Store {
	return &Store{
		Users:         NewSQLiteUserRepo(q),
		Notifications: NewSQLiteNotificationRepo(q),
		Warnings:      NewSQLiteWarningRepo(q),
		Reports:       NewSQLiteReportRepo(q),
		Conversations: NewSQLiteConversationRepo(q),
	}
}
