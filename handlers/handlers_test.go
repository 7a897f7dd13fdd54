package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/akinalp/relay/database/dbtest"
	"github.com/akinalp/relay/handlers"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/repository"
	"github.com/akinalp/relay/services"
	"github.com/akinalp/relay/ws"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func serve(t *testing.T, mux *http.ServeMux, caller models.Caller, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), handlers.CallerContextKey, caller))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	return rec.Code, env
}

func newMux(t *testing.T) (*http.ServeMux, services.NotificationService, *ws.Hub) {
	t.Helper()
	db := dbtest.New(t)
	for _, u := range []string{"alice", "bob"} {
		dbtest.SeedUser(t, db, u, false)
	}
	dbtest.SeedUser(t, db, "root", true)

	hub := ws.NewHub()
	notifications := services.NewNotificationService(repository.NewSQLiteNotificationRepo(db.Conn), hub, nil)
	moderation := services.NewModerationService(db.Conn, notifications, nil)

	nh := handlers.NewNotificationHandler(notifications)
	rh := handlers.NewReportHandler(moderation)
	ah := handlers.NewAdminHandler(moderation, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications", nh.List)
	mux.HandleFunc("POST /api/notifications/{id}/read", nh.MarkRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", nh.Delete)
	mux.HandleFunc("POST /api/reports", rh.File)
	mux.HandleFunc("GET /api/bans/{kind}/{id}", rh.BanStatus)
	mux.HandleFunc("POST /api/admin/warnings", ah.IssueWarning)
	mux.HandleFunc("GET /api/ws/connections", ah.Connections)
	return mux, notifications, hub
}

func TestNotificationHandler_Ownership(t *testing.T) {
	mux, notifications, _ := newMux(t)
	alice := models.Caller{Username: "alice", Role: models.RoleUser}
	bob := models.Caller{Username: "bob", Role: models.RoleUser}

	n, err := notifications.Notify(context.Background(), models.NotifyInput{
		Recipient: models.SingleIdentity("alice"), Message: "hi", Type: models.NotificationSystem,
	})
	if err != nil {
		t.Fatal(err)
	}

	if code, _ := serve(t, mux, bob, http.MethodPost, "/api/notifications/"+n.ID+"/read", ""); code != http.StatusUnauthorized {
		t.Errorf("non-owner mark read = %d, want 401", code)
	}
	if code, _ := serve(t, mux, bob, http.MethodDelete, "/api/notifications/"+n.ID, ""); code != http.StatusUnauthorized {
		t.Errorf("non-owner delete = %d, want 401", code)
	}
	if code, _ := serve(t, mux, alice, http.MethodPost, "/api/notifications/missing/read", ""); code != http.StatusNotFound {
		t.Errorf("missing id = %d, want 404", code)
	}

	code, env := serve(t, mux, alice, http.MethodGet, "/api/notifications?unread=true", "")
	if code != http.StatusOK {
		t.Fatalf("list = %d", code)
	}
	var list []models.Notification
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != n.ID || list[0].IsRead {
		t.Errorf("list = %+v, want the untouched unread notification", list)
	}
}

func TestModerationHandlers(t *testing.T) {
	mux, _, _ := newMux(t)
	alice := models.Caller{Username: "alice", Role: models.RoleUser}
	root := models.Caller{Username: "root", Role: models.RoleAdmin}

	if code, env := serve(t, mux, alice, http.MethodPost, "/api/reports",
		`{"kind":"user","target_id":"alice","description":"me"}`); code != http.StatusBadRequest {
		t.Errorf("self report = %d (%s), want 400", code, env.Error)
	}
	if code, env := serve(t, mux, alice, http.MethodPost, "/api/reports",
		`{"kind":"user","target_id":"bob","description":"rude"}`); code != http.StatusCreated {
		t.Fatalf("file report = %d (%s)", code, env.Error)
	}

	for i, want := range []int{http.StatusCreated, http.StatusCreated, http.StatusConflict} {
		code, env := serve(t, mux, root, http.MethodPost, "/api/admin/warnings",
			`{"target_kind":"user","target_id":"bob","reason":"rude"}`)
		if code != want {
			t.Fatalf("warning #%d = %d (%s), want %d", i+1, code, env.Error, want)
		}
	}

	code, env := serve(t, mux, alice, http.MethodGet, "/api/bans/user/bob", "")
	if code != http.StatusOK {
		t.Fatalf("ban status = %d", code)
	}
	var status struct {
		Banned  bool               `json:"banned"`
		Windows []models.BanWindow `json:"windows"`
	}
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	if !status.Banned || len(status.Windows) != 1 || status.Windows[0].End.Sub(status.Windows[0].Start) != 5*time.Minute {
		t.Errorf("ban status = %+v", status)
	}

	if code, _ := serve(t, mux, alice, http.MethodGet, "/api/bans/planet/bob", ""); code != http.StatusBadRequest {
		t.Errorf("invalid kind = %d, want 400", code)
	}
}

type nopConn struct{ name string }

func (*nopConn) Send([]byte) error { return nil }

func TestAdminHandler_Connections(t *testing.T) {
	mux, _, hub := newMux(t)
	hub.Connect("bob", models.RoleUser, &nopConn{"bob"})
	hub.Connect("alice", models.RoleUser, &nopConn{"alice"})
	hub.Connect("root", models.RoleAdmin, &nopConn{"root"})

	code, env := serve(t, mux, models.Caller{Username: "root", Role: models.RoleAdmin}, http.MethodGet, "/api/ws/connections", "")
	if code != http.StatusOK {
		t.Fatalf("connections = %d", code)
	}

	var got ws.ConnectionSnapshot
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	want := ws.ConnectionSnapshot{Users: []string{"alice", "bob"}, Admins: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}
