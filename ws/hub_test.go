package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/akinalp/relay/models"
)

type fakeConn struct {
	name string

	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed int
}

func newFakeConn(name string) *fakeConn { return &fakeConn{name: name} }

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.frames = append(f.frames, payload)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *fakeConn) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

var ping = Event{Op: OpNotification, Data: "hi"}

func TestHub_ReconnectSupersedes(t *testing.T) {
	hub := NewHub()
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")

	if _, replaced := hub.Connect("alice", models.RoleUser, c1); replaced {
		t.Fatal("first connect reported a replacement")
	}
	prev, replaced := hub.Connect("alice", models.RoleUser, c2)
	if !replaced || prev != Conn(c1) {
		t.Fatalf("second connect = (%v, %v), want (c1, true)", prev, replaced)
	}

	if !hub.Unicast("alice", ping) {
		t.Fatal("Unicast after reconnect was not delivered")
	}
	if c1.received() != 0 || c2.received() != 1 {
		t.Errorf("frames c1=%d c2=%d, want 0/1", c1.received(), c2.received())
	}
}

func TestHub_StaleDisconnectIgnored(t *testing.T) {
	hub := NewHub()
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")

	hub.Connect("alice", models.RoleUser, c1)
	hub.Connect("alice", models.RoleUser, c2)
	hub.Disconnect("alice", models.RoleUser, c1)

	if !hub.Unicast("alice", ping) {
		t.Fatal("stale disconnect evicted the newer connection")
	}
	if c2.received() != 1 {
		t.Errorf("c2 frames = %d, want 1", c2.received())
	}

	hub.Disconnect("alice", models.RoleUser, c2)
	if hub.Unicast("alice", ping) {
		t.Error("Unicast delivered after current connection disconnected")
	}
}

func TestHub_UnicastOfflineIsNotAnError(t *testing.T) {
	hub := NewHub()
	if hub.Unicast("nobody", ping) {
		t.Error("Unicast to offline identity reported delivered")
	}
}

func TestHub_UnicastEvictsOnSendFailure(t *testing.T) {
	hub := NewHub()
	c := newFakeConn("c")
	c.setFail(true)
	hub.Connect("alice", models.RoleUser, c)

	if hub.Unicast("alice", ping) {
		t.Fatal("failed send reported delivered")
	}
	if got := hub.Snapshot().Users; len(got) != 0 {
		t.Errorf("failing connection still registered: %v", got)
	}
	if c.closeCount() != 1 {
		t.Errorf("evicted conn closed %d times, want 1", c.closeCount())
	}

	// Sonraki gönderim bağlantı yokmuş gibi davranır.
	c.setFail(false)
	if hub.Unicast("alice", ping) {
		t.Error("Unicast reached an evicted connection")
	}
}

func TestHub_BroadcastAdmins(t *testing.T) {
	hub := NewHub()
	a1, a2, broken := newFakeConn("a1"), newFakeConn("a2"), newFakeConn("broken")
	broken.setFail(true)

	for _, c := range []*fakeConn{a1, a2, broken} {
		hub.Connect("root", models.RoleAdmin, c)
	}
	// Admin bağlantıları normal kullanıcı kaydına girmez.
	if got := hub.Snapshot().Users; len(got) != 0 {
		t.Errorf("admin connection registered as regular identity: %v", got)
	}

	if got := hub.BroadcastAdmins(ping); got != 2 {
		t.Errorf("BroadcastAdmins delivered %d, want 2", got)
	}
	if got := hub.Snapshot().Admins; got != 2 {
		t.Errorf("admin pool after eviction = %d, want 2", got)
	}

	hub.Disconnect("root", models.RoleAdmin, a1)
	if got := hub.BroadcastAdmins(ping); got != 1 {
		t.Errorf("BroadcastAdmins after disconnect delivered %d, want 1", got)
	}
	if a2.received() != 2 || a1.received() != 1 {
		t.Errorf("frames a1=%d a2=%d, want 1/2", a1.received(), a2.received())
	}
}

func TestHub_SeqIncreases(t *testing.T) {
	hub := NewHub()
	c := newFakeConn("c")
	hub.Connect("alice", models.RoleUser, c)

	hub.Unicast("alice", ping)
	hub.Unicast("alice", ping)

	var seqs []int64
	for _, f := range c.frames {
		var ev Event
		if err := json.Unmarshal(f, &ev); err != nil {
			t.Fatal(err)
		}
		seqs = append(seqs, ev.Seq)
	}
	if len(seqs) != 2 || seqs[1] <= seqs[0] {
		t.Errorf("seqs = %v, want strictly increasing", seqs)
	}
}

func TestHub_Snapshot(t *testing.T) {
	hub := NewHub()
	hub.Connect("bob", models.RoleUser, newFakeConn("b"))
	hub.Connect("alice", models.RoleUser, newFakeConn("a"))
	hub.Connect("root", models.RoleAdmin, newFakeConn("r"))

	want := ConnectionSnapshot{Users: []string{"alice", "bob"}, Admins: 1}
	if diff := cmp.Diff(want, hub.Snapshot()); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}

	hub.Shutdown()
	if diff := cmp.Diff(ConnectionSnapshot{Users: []string{}, Admins: 0}, hub.Snapshot()); diff != "" {
		t.Errorf("Snapshot after Shutdown (-want +got):\n%s", diff)
	}
}

// Aynı kimlik için eşzamanlı connect/disconnect/unicast sonrası kayıt, en fazla
// bir bağlantı içermeli ve o bağlantı Disconnect edilmemiş olanlardan biri olmalı.
func TestHub_ConcurrentSameIdentity(t *testing.T) {
	hub := NewHub()
	const n = 50

	conns := make([]*fakeConn, n)
	for i := range conns {
		conns[i] = newFakeConn(fmt.Sprintf("c%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(3)
		go func(c *fakeConn) {
			defer wg.Done()
			hub.Connect("alice", models.RoleUser, c)
		}(conns[i])
		go func() {
			defer wg.Done()
			hub.Unicast("alice", ping)
		}()
		go func(c *fakeConn) {
			defer wg.Done()
			if c.name != "c0" {
				hub.Disconnect("alice", models.RoleUser, c)
			}
		}(conns[i])
	}
	wg.Wait()

	if got := len(hub.Snapshot().Users); got > 1 {
		t.Fatalf("registry holds %d entries for one identity", got)
	}
}
