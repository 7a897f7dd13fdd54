package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// NotificationType, bildirimin türü. Veritabanındaki CHECK listesi ile aynı olmalı.
type NotificationType string

const (
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationFriendAccept  NotificationType = "friend_accept"
	NotificationFriendReject  NotificationType = "friend_reject"
	NotificationMessage       NotificationType = "message"
	NotificationSystem        NotificationType = "system"
	NotificationReport        NotificationType = "report"
	NotificationWarning       NotificationType = "warning"
)

// Valid, türün bilinen bir değer olup olmadığını döner.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationFriendRequest, NotificationFriendAccept, NotificationFriendReject,
		NotificationMessage, NotificationSystem, NotificationReport, NotificationWarning:
		return true
	}
	return false
}

// RelatedKind, bildirimin işaret ettiği kaydın türü (istemci tıklanınca nereye gideceğini bilir).
type RelatedKind string

const (
	RelatedFriendRequests RelatedKind = "friend_requests"
	RelatedMessages       RelatedKind = "messages"
	RelatedConversations  RelatedKind = "conversations"
	RelatedReports        RelatedKind = "reports"
	RelatedWarnings       RelatedKind = "warnings"
)

// MaxNotificationLength, bildirim metni için üst sınır (rune).
const MaxNotificationLength = 1000

// Notification, alıcısına ait kalıcı bir olay kaydı.
//
// Oluşturulduktan sonra yalnızca is_read değişir ya da kayıt silinir.
type Notification struct {
	ID          string           `json:"id"`
	Recipient   Recipient        `json:"recipient"`
	Sender      *string          `json:"sender"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	RelatedID   *string          `json:"related_id"`
	RelatedKind *RelatedKind     `json:"related_kind"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OwnedBy, handle'ın bu bildirimi okuma/silme hakkı olup olmadığını döner.
// "admin" alıcılı bildirimler tüm yöneticilere aittir.
func (n *Notification) OwnedBy(c Caller) bool {
	if n.Recipient.IsAllAdmins() {
		return c.IsAdmin()
	}
	handle, _ := n.Recipient.Identity()
	return handle == c.Username
}

// NotifyInput, yeni bir bildirim oluşturmak için gerekenler.
type NotifyInput struct {
	Recipient   Recipient
	Sender      *string
	Message     string
	Type        NotificationType
	RelatedID   *string
	RelatedKind *RelatedKind
}

// Validate, girdi kontrolü.
func (in *NotifyInput) Validate() error {
	if !in.Recipient.Valid() {
		return fmt.Errorf("recipient is required")
	}
	if in.Message == "" {
		return fmt.Errorf("message is required")
	}
	if utf8.RuneCountInString(in.Message) > MaxNotificationLength {
		return fmt.Errorf("message must be at most %d characters", MaxNotificationLength)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("unknown notification type %q", in.Type)
	}
	if (in.RelatedID == nil) != (in.RelatedKind == nil) {
		return fmt.Errorf("related id and related kind must be set together")
	}
	return nil
}
