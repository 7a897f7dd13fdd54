package services

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/gruf/go-mutexes"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/pkg/ratelimit"
	"github.com/akinalp/relay/repository"
	"github.com/akinalp/relay/ws"
)

// ChatService, konuşma mesajlarını kalıcılaştırır ve üyelere dağıtır.
type ChatService interface {
	// DeliverToConversation, mesajı gönderen hariç her üyeye bir kez Unicast eder.
	// Üye listesi çağrı anında okunur. Çevrimdışı üyeler diğerlerini etkilemez.
	// Teslim edilen üye sayısını döner.
	DeliverToConversation(ctx context.Context, conversationID, sender string, msg models.Message) (int, error)

	// PostMessage, mesajı doğrular, kaydeder ve dağıtır.
	PostMessage(ctx context.Context, sender, conversationID string, req *models.PostMessageRequest) (*models.Message, error)
}

// BanChecker, ChatService'in moderasyondan ihtiyaç duyduğu tek metot.
type BanChecker interface {
	IsBanned(ctx context.Context, kind models.TargetKind, targetID string) (bool, []models.BanWindow, error)
}

type chatService struct {
	conversations repository.ConversationRepository
	hub           ws.EventPublisher
	bans          BanChecker
	limiter       *ratelimit.MessageRateLimiter
	locks         *mutexes.MutexMap
	now           func() time.Time
}

// NewChatService, constructor. limiter nil ise hız sınırı uygulanmaz.
func NewChatService(
	conversations repository.ConversationRepository,
	hub ws.EventPublisher,
	bans BanChecker,
	limiter *ratelimit.MessageRateLimiter,
	now func() time.Time,
) ChatService {
	if now == nil {
		now = time.Now
	}
	return &chatService{
		conversations: conversations,
		hub:           hub,
		bans:          bans,
		limiter:       limiter,
		locks:         &mutexes.MutexMap{},
		now:           now,
	}
}

func (s *chatService) DeliverToConversation(ctx context.Context, conversationID, sender string, msg models.Message) (int, error) {
	members, err := s.conversations.ListMembers(ctx, conversationID)
	if err != nil {
		return 0, err
	}

	event := ws.Event{
		Op:   ws.OpNewMessage,
		Data: ws.NewMessageData{ConversationID: conversationID, Message: msg},
	}

	delivered := 0
	for _, m := range members {
		if m.Username == sender {
			continue
		}
		if s.hub.Unicast(m.Username, event) {
			delivered++
		}
	}

	log.Debug().Str("component", "chat").Str("conversation", conversationID).
		Int("members", len(members)).Int("delivered", delivered).Msg("fan-out")
	return delivered, nil
}

func (s *chatService) PostMessage(ctx context.Context, sender, conversationID string, req *models.PostMessageRequest) (*models.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	member, err := s.conversations.IsMember(ctx, conversationID, sender)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this conversation", pkg.ErrForbidden)
	}

	if err := s.checkBans(ctx, sender, conv); err != nil {
		return nil, err
	}

	if s.limiter != nil && !s.limiter.Allow(sender) {
		return nil, fmt.Errorf("%w: slow down, retry in %s", pkg.ErrRateLimited,
			s.limiter.RetryAfter(sender).Round(time.Second))
	}

	// Konuşma başına kilit: kayıt sırası ile her alıcının gördüğü sıra aynı olur.
	unlock := s.locks.Lock(conversationID)
	defer unlock()

	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         sender,
		Content:        req.Content,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.conversations.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if _, err := s.DeliverToConversation(ctx, conversationID, sender, *msg); err != nil {
		// Mesaj kaydedildi; üyeler sonradan çekebilir.
		log.Warn().Str("component", "chat").Str("conversation", conversationID).Err(err).Msg("fan-out failed")
	}

	return msg, nil
}

func (s *chatService) checkBans(ctx context.Context, sender string, conv *models.Conversation) error {
	banned, windows, err := s.bans.IsBanned(ctx, models.TargetUser, sender)
	if err != nil {
		return err
	}
	if banned {
		return fmt.Errorf("%w: you are banned until %s", pkg.ErrForbidden, latestEnd(windows).Format(time.RFC3339))
	}

	if conv.Type != models.ConversationGroup {
		return nil
	}

	banned, windows, err = s.bans.IsBanned(ctx, models.TargetGroup, conv.ID)
	if err != nil {
		return err
	}
	if banned {
		return fmt.Errorf("%w: this group is banned until %s", pkg.ErrForbidden, latestEnd(windows).Format(time.RFC3339))
	}
	return nil
}

func latestEnd(windows []models.BanWindow) time.Time {
	var end time.Time
	for _, w := range windows {
		if w.End.After(end) {
			end = w.End
		}
	}
	return end
}
