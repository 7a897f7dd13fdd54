package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/akinalp/relay/database/dbtest"
	"github.com/akinalp/relay/mocks"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/repository"
	"github.com/akinalp/relay/services"
	"github.com/akinalp/relay/ws"
)

var (
	alice = models.Caller{Username: "alice", Role: models.RoleUser}
	bob   = models.Caller{Username: "bob", Role: models.RoleUser}
	root  = models.Caller{Username: "root", Role: models.RoleAdmin}
)

func newNotificationFixture(t *testing.T) (services.NotificationService, repository.NotificationRepository, *mocks.MockEventPublisher) {
	t.Helper()
	db := dbtest.New(t)
	repo := repository.NewSQLiteNotificationRepo(db.Conn)
	pub := mocks.NewMockEventPublisher(gomock.NewController(t))
	return services.NewNotificationService(repo, pub, newTestClock().Now), repo, pub
}

func systemInput(to models.Recipient, msg string) models.NotifyInput {
	return models.NotifyInput{Recipient: to, Message: msg, Type: models.NotificationSystem}
}

func TestNotify_PersistsBeforeDelivery(t *testing.T) {
	svc, repo, pub := newNotificationFixture(t)
	ctx := context.Background()

	// Canlı gönderim başarısız; Unicast çağrıldığında kayıt zaten okunabilir olmalı.
	pub.EXPECT().Unicast("alice", gomock.Any()).DoAndReturn(func(_ string, ev ws.Event) bool {
		if ev.Op != ws.OpNotification {
			t.Errorf("op = %q, want %q", ev.Op, ws.OpNotification)
		}
		n, ok := ev.Data.(*models.Notification)
		if !ok {
			t.Fatalf("event data = %T", ev.Data)
		}
		if _, err := repo.GetByID(ctx, n.ID); err != nil {
			t.Errorf("record not persisted before live send: %v", err)
		}
		return false
	}).Times(1)

	n, err := svc.Notify(ctx, systemInput(models.SingleIdentity("alice"), "hello"))
	if err != nil {
		t.Fatalf("Notify with failed live send: %v", err)
	}
	if n.IsRead {
		t.Error("new notification is read")
	}

	list, err := svc.List(ctx, alice, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]models.Notification{*n}, list); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestNotify_AllAdminsBroadcasts(t *testing.T) {
	svc, _, pub := newNotificationFixture(t)
	ctx := context.Background()

	pub.EXPECT().BroadcastAdmins(gomock.Any()).Return(0).Times(1)

	n, err := svc.Notify(ctx, systemInput(models.AllAdmins(), "new report"))
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	adminList, err := svc.List(ctx, root, true)
	if err != nil {
		t.Fatalf("List(admin): %v", err)
	}
	if len(adminList) != 1 || adminList[0].ID != n.ID {
		t.Errorf("admin list = %+v", adminList)
	}

	userList, err := svc.List(ctx, models.Caller{Username: "admin", Role: models.RoleUser}, false)
	if err != nil {
		t.Fatalf("List(regular named admin): %v", err)
	}
	if len(userList) != 0 {
		t.Errorf("regular identity sees %d admin-pool notifications", len(userList))
	}
}

func TestNotify_Validation(t *testing.T) {
	svc, _, _ := newNotificationFixture(t)

	_, err := svc.Notify(context.Background(), models.NotifyInput{
		Recipient: models.SingleIdentity("alice"),
		Message:   "x",
		Type:      "poke",
	})
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Errorf("Notify(unknown type) err = %v, want ErrBadRequest", err)
	}
}

func TestNotification_OwnershipEnforced(t *testing.T) {
	svc, repo, pub := newNotificationFixture(t)
	ctx := context.Background()
	pub.EXPECT().Unicast(gomock.Any(), gomock.Any()).Return(true).AnyTimes()

	n, err := svc.Notify(ctx, systemInput(models.SingleIdentity("alice"), "yours"))
	if err != nil {
		t.Fatal(err)
	}
	before, err := repo.GetByID(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}

	ops := map[string]func() error{
		"MarkRead":      func() error { _, err := svc.MarkRead(ctx, bob, n.ID); return err },
		"MarkUnread":    func() error { _, err := svc.MarkUnread(ctx, bob, n.ID); return err },
		"Delete":        func() error { return svc.Delete(ctx, bob, n.ID) },
		"AdminMarkRead": func() error { _, err := svc.MarkRead(ctx, root, n.ID); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, pkg.ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
			after, err := repo.GetByID(ctx, n.ID)
			if err != nil {
				t.Fatalf("record gone after rejected %s: %v", name, err)
			}
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("record changed (-before +after):\n%s", diff)
			}
		})
	}

	if _, err := svc.MarkRead(ctx, alice, "missing"); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("MarkRead(missing) err = %v, want ErrNotFound", err)
	}
}

func TestNotification_ReadToggleAndDelete(t *testing.T) {
	svc, _, pub := newNotificationFixture(t)
	ctx := context.Background()
	pub.EXPECT().Unicast(gomock.Any(), gomock.Any()).Return(true).AnyTimes()

	first, err := svc.Notify(ctx, systemInput(models.SingleIdentity("alice"), "one"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Notify(ctx, systemInput(models.SingleIdentity("alice"), "two")); err != nil {
		t.Fatal(err)
	}

	read, err := svc.MarkRead(ctx, alice, first.ID)
	if err != nil || !read.IsRead {
		t.Fatalf("MarkRead = %+v, %v", read, err)
	}

	unread, err := svc.List(ctx, alice, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 {
		t.Errorf("unread after MarkRead = %d, want 1", len(unread))
	}

	changed, err := svc.MarkAllRead(ctx, alice)
	if err != nil || len(changed) != 1 {
		t.Fatalf("MarkAllRead = %d changed, %v", len(changed), err)
	}
	if _, err := svc.MarkAllRead(ctx, alice); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("second MarkAllRead err = %v, want ErrNotFound", err)
	}

	changed, err = svc.MarkAllUnread(ctx, alice)
	if err != nil || len(changed) != 2 {
		t.Fatalf("MarkAllUnread = %d changed, %v", len(changed), err)
	}

	if err := svc.Delete(ctx, alice, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := svc.List(ctx, alice, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("after Delete = %d notifications, want 1", len(all))
	}
}

func TestEventService_FriendRequestFlow(t *testing.T) {
	svc, _, pub := newNotificationFixture(t)
	events := services.NewEventService(svc)
	ctx := context.Background()

	gomock.InOrder(
		pub.EXPECT().Unicast("bob", gomock.Any()).Return(true),
		pub.EXPECT().Unicast("alice", gomock.Any()).Return(false),
	)

	if err := events.FriendRequestSent(ctx, "alice", "bob", "fr-1"); err != nil {
		t.Fatal(err)
	}
	if err := events.FriendRequestAccepted(ctx, "bob", "alice", "fr-1"); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, alice, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Type != models.NotificationFriendAccept || *list[0].Sender != "bob" {
		t.Errorf("alice notifications = %+v", list)
	}
	if list[0].RelatedKind == nil || *list[0].RelatedKind != models.RelatedFriendRequests {
		t.Errorf("related kind = %v", list[0].RelatedKind)
	}
}
