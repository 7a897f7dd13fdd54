package repository

import (
	"context"

	"github.com/akinalp/relay/models"
)

// ConversationRepository, konuşma üyeliği ve mesaj kayıtları.
// Konuşma oluşturma/üye ekleme dış CRUD katmanındadır; burada okunur.
type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Conversation, error)

	// ListMembers, çağrı anındaki üye listesini döner.
	ListMembers(ctx context.Context, conversationID string) ([]models.GroupMember, error)

	IsMember(ctx context.Context, conversationID, username string) (bool, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
}
