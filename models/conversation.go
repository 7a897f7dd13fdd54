package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ConversationType: birebir (private) veya grup.
type ConversationType string

const (
	ConversationPrivate ConversationType = "private"
	ConversationGroup   ConversationType = "group"
)

// Conversation, mesajların aktığı kanal. Oluşturma/düzenleme dış katmandadır.
type Conversation struct {
	ID        string           `json:"id"`
	Name      *string          `json:"name"`
	Type      ConversationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

// MemberRole, grup içindeki yetki.
type MemberRole string

const (
	MemberAdmin  MemberRole = "admin"
	MemberMember MemberRole = "member"
)

// GroupMember, konuşma üyeliği. Private konuşmalar da iki üyeli olarak saklanır.
type GroupMember struct {
	ConversationID string     `json:"conversation_id"`
	Username       string     `json:"username"`
	Role           MemberRole `json:"role"`
}

// Message, kalıcılaştırılmış bir sohbet mesajı.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MaxMessageLength, mesaj içeriği üst sınırı (rune).
const MaxMessageLength = 4000

// PostMessageRequest, mesaj gönderme isteği.
type PostMessageRequest struct {
	Content string `json:"content"`
}

// Validate, PostMessageRequest kontrolü.
func (r *PostMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(r.Content) > MaxMessageLength {
		return fmt.Errorf("content must be at most %d characters", MaxMessageLength)
	}
	return nil
}
