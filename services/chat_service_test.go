package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/akinalp/relay/database/dbtest"
	"github.com/akinalp/relay/mocks"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/pkg/ratelimit"
	"github.com/akinalp/relay/repository"
	"github.com/akinalp/relay/services"
	"github.com/akinalp/relay/ws"
)

// fakeBans, hedef anahtarı → ban durumu.
type fakeBans map[string]bool

func (f fakeBans) IsBanned(_ context.Context, kind models.TargetKind, id string) (bool, []models.BanWindow, error) {
	if f[string(kind)+":"+id] {
		return true, []models.BanWindow{{WarningID: "w1", Start: t0, End: t0.Add(5 * time.Minute)}}, nil
	}
	return false, []models.BanWindow{}, nil
}

type chatFixture struct {
	svc   services.ChatService
	pub   *mocks.MockEventPublisher
	bans  fakeBans
	clock *testClock
}

func newChatFixture(t *testing.T, maxMessages int) *chatFixture {
	t.Helper()
	db := dbtest.New(t)
	for _, u := range []string{"alice", "bob", "carol", "dave"} {
		dbtest.SeedUser(t, db, u, false)
	}
	dbtest.SeedConversation(t, db, "g1", "group", []string{"alice", "bob", "carol"}, "alice")
	dbtest.SeedConversation(t, db, "dm1", "private", []string{"alice", "bob"})

	clock := newTestClock()
	limiter := ratelimit.NewMessageRateLimiter(maxMessages, 5*time.Second, 15*time.Second, clock.Now)
	t.Cleanup(limiter.Stop)

	f := &chatFixture{
		pub:   mocks.NewMockEventPublisher(gomock.NewController(t)),
		bans:  fakeBans{},
		clock: clock,
	}
	f.svc = services.NewChatService(repository.NewSQLiteConversationRepo(db.Conn), f.pub, f.bans, limiter, clock.Now)
	return f
}

func TestDeliverToConversation_ExcludesSender(t *testing.T) {
	f := newChatFixture(t, 5)
	msg := models.Message{ID: "m1", ConversationID: "g1", Sender: "alice", Content: "hi", CreatedAt: t0}

	// bob bağlı, carol çevrimdışı; alice'e hiç gönderilmez.
	f.pub.EXPECT().Unicast("bob", gomock.Any()).DoAndReturn(func(_ string, ev ws.Event) bool {
		data, ok := ev.Data.(ws.NewMessageData)
		if ev.Op != ws.OpNewMessage || !ok || data.Message.ID != "m1" || data.ConversationID != "g1" {
			t.Errorf("unexpected event %+v", ev)
		}
		return true
	}).Times(1)
	f.pub.EXPECT().Unicast("carol", gomock.Any()).Return(false).Times(1)
	f.pub.EXPECT().Unicast("alice", gomock.Any()).Times(0)

	delivered, err := f.svc.DeliverToConversation(context.Background(), "g1", "alice", msg)
	if err != nil {
		t.Fatalf("DeliverToConversation: %v", err)
	}
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
}

func TestPostMessage(t *testing.T) {
	f := newChatFixture(t, 5)
	ctx := context.Background()

	f.pub.EXPECT().Unicast("bob", gomock.Any()).Return(true).Times(1)

	msg, err := f.svc.PostMessage(ctx, "alice", "dm1", &models.PostMessageRequest{Content: "  hello  "})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if msg.Content != "hello" || msg.Sender != "alice" || !msg.CreatedAt.Equal(t0) {
		t.Errorf("message = %+v", msg)
	}
}

func TestPostMessage_Rejections(t *testing.T) {
	f := newChatFixture(t, 5)
	ctx := context.Background()
	f.pub.EXPECT().Unicast(gomock.Any(), gomock.Any()).Times(0)

	f.bans["user:carol"] = true

	tests := []struct {
		name   string
		sender string
		conv   string
		body   string
		want   error
	}{
		{"empty", "alice", "g1", "   ", pkg.ErrBadRequest},
		{"unknown conversation", "alice", "nope", "x", pkg.ErrNotFound},
		{"non-member", "dave", "g1", "x", pkg.ErrForbidden},
		{"banned sender", "carol", "g1", "x", pkg.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.PostMessage(ctx, tt.sender, tt.conv, &models.PostMessageRequest{Content: tt.body})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPostMessage_GroupBanOnlyAffectsGroup(t *testing.T) {
	f := newChatFixture(t, 5)
	ctx := context.Background()
	f.bans["group:g1"] = true

	if _, err := f.svc.PostMessage(ctx, "alice", "g1", &models.PostMessageRequest{Content: "x"}); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("group post err = %v, want ErrForbidden", err)
	}

	f.pub.EXPECT().Unicast("bob", gomock.Any()).Return(true).Times(1)
	if _, err := f.svc.PostMessage(ctx, "alice", "dm1", &models.PostMessageRequest{Content: "x"}); err != nil {
		t.Errorf("private post during group ban: %v", err)
	}
}

func TestPostMessage_RateLimited(t *testing.T) {
	f := newChatFixture(t, 2)
	ctx := context.Background()
	f.pub.EXPECT().Unicast("bob", gomock.Any()).Return(true).Times(3)

	post := func() error {
		_, err := f.svc.PostMessage(ctx, "alice", "dm1", &models.PostMessageRequest{Content: "spam"})
		return err
	}

	for i := 0; i < 2; i++ {
		if err := post(); err != nil {
			t.Fatalf("post #%d: %v", i+1, err)
		}
	}
	if err := post(); !errors.Is(err, pkg.ErrRateLimited) {
		t.Fatalf("third post err = %v, want ErrRateLimited", err)
	}

	f.clock.Advance(16 * time.Second)
	if err := post(); err != nil {
		t.Errorf("post after cooldown: %v", err)
	}
}
