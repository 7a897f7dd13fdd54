package ws

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/models"
)

var (
	// ErrConnClosed, kapatılmış bir bağlantıya gönderim denendiğinde döner.
	ErrConnClosed = errors.New("connection closed")
	// ErrSendBufferFull, client'ın bekleyen frame kuyruğu dolu olduğunda döner.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Conn, Hub'a kaydedilebilen gönderilebilir bağlantı.
//
// Send hiçbir zaman sınırsız beklememeli: gönderemiyorsa hemen hata dönmeli.
type Conn interface {
	Send(payload []byte) error
}

// closer, kapatılabilen Conn'lar için. Hub bir bağlantıyı kayıttan düşürürken
// Conn bunu karşılıyorsa kapatır.
type closer interface {
	Close()
}

//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/akinalp/relay/ws EventPublisher

// EventPublisher, service katmanının canlı teslimat için kullandığı interface.
//
// Servisler Hub'ın concrete struct'ına değil bu interface'e bağımlıdır;
// testlerde mock verilebilir.
type EventPublisher interface {
	// Unicast, kimliğin canlı bağlantısına event gönderir. false = şu an ulaşılamıyor.
	Unicast(handle string, event Event) bool
	// BroadcastAdmins, bağlı tüm yöneticilere gönderir; teslim edilen bağlantı sayısını döner.
	BroadcastAdmins(event Event) int
}

// ConnectionSnapshot, o anki bağlantı kaydının özeti.
type ConnectionSnapshot struct {
	Users  []string `json:"users"`
	Admins int      `json:"admins"`
}

// Hub, kimlik → canlı bağlantı kaydıdır.
//
// users: normal kullanıcı başına tek bağlantı. xsync.MapOf kilit bölümlü bir map'tir;
// Compute ile tek bir girdi üzerindeki karşılaştır-ve-sil işlemleri atomiktir ve
// farklı kimliklerin işlemleri birbirini bloklamaz.
//
// admins: sırasız yönetici bağlantı havuzu.
type Hub struct {
	users *xsync.MapOf[string, Conn]

	adminMu sync.Mutex
	admins  map[Conn]struct{}

	seq atomic.Int64
}

// NewHub, boş bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		users:  xsync.NewMapOf[string, Conn](),
		admins: make(map[Conn]struct{}),
	}
}

// Connect, bağlantıyı kaydeder.
//
// Normal kullanıcıda önceki bağlantının yerine geçer (yeniden bağlanma hata değildir);
// yerine geçilen bağlantı previous olarak döner. Aynı kimlik için eşzamanlı çağrılarda
// en son tamamlanan kazanır. Yöneticide bağlantı havuza eklenir.
func (h *Hub) Connect(handle string, role models.Role, conn Conn) (previous Conn, replaced bool) {
	if role == models.RoleAdmin {
		h.adminMu.Lock()
		h.admins[conn] = struct{}{}
		n := len(h.admins)
		h.adminMu.Unlock()

		log.Debug().Str("component", "ws").Str("user", handle).Int("admins", n).Msg("admin connected")
		return nil, false
	}

	prev, loaded := h.users.LoadAndStore(handle, conn)
	if loaded && prev != conn {
		log.Debug().Str("component", "ws").Str("user", handle).Msg("connection superseded")
		return prev, true
	}

	log.Debug().Str("component", "ws").Str("user", handle).Msg("client connected")
	return nil, false
}

// Disconnect, bağlantıyı kayıttan çıkarır.
//
// Normal kullanıcıda girdi yalnızca hâlâ conn'u gösteriyorsa silinir; yerine başkası
// geçmiş eski bir bağlantının geç kapanışı yeni bağlantıyı düşürmez.
func (h *Hub) Disconnect(handle string, role models.Role, conn Conn) {
	if role == models.RoleAdmin {
		h.adminMu.Lock()
		delete(h.admins, conn)
		h.adminMu.Unlock()
		return
	}

	if h.removeIfCurrent(handle, conn) {
		log.Debug().Str("component", "ws").Str("user", handle).Msg("client disconnected")
	}
}

// removeIfCurrent, handle girdisi conn'u gösteriyorsa siler.
func (h *Hub) removeIfCurrent(handle string, conn Conn) bool {
	removed := false
	h.users.Compute(handle, func(current Conn, loaded bool) (Conn, bool) {
		if loaded && current == conn {
			removed = true
			return nil, true
		}
		// Girdi yoksa delete=true no-op'tur; varsa dokunulmaz.
		return current, !loaded
	})
	return removed
}

// Unicast, kimliğin canlı bağlantısına event gönderir.
//
// Bağlantı yoksa false döner. Gönderim başarısızsa girdi (hâlâ aynı bağlantıyı
// gösteriyorsa) düşürülür ve false döner. Ulaşılamamak hata değildir.
func (h *Hub) Unicast(handle string, event Event) bool {
	conn, ok := h.users.Load(handle)
	if !ok {
		return false
	}

	payload, err := h.encode(event)
	if err != nil {
		return false
	}

	if err := conn.Send(payload); err != nil {
		if h.removeIfCurrent(handle, conn) {
			closeConn(conn)
		}
		log.Debug().Str("component", "ws").Str("user", handle).Err(err).Msg("send failed, connection evicted")
		return false
	}

	return true
}

// BroadcastAdmins, havuzdaki her yönetici bağlantısına event gönderir.
// Gönderimi başarısız olan bağlantılar havuzdan çıkarılır; kısmi teslimat hata değildir.
func (h *Hub) BroadcastAdmins(event Event) int {
	payload, err := h.encode(event)
	if err != nil {
		return 0
	}

	h.adminMu.Lock()
	targets := make([]Conn, 0, len(h.admins))
	for c := range h.admins {
		targets = append(targets, c)
	}
	h.adminMu.Unlock()

	delivered := 0
	var failed []Conn
	for _, c := range targets {
		if err := c.Send(payload); err != nil {
			failed = append(failed, c)
			continue
		}
		delivered++
	}

	if len(failed) > 0 {
		h.adminMu.Lock()
		for _, c := range failed {
			delete(h.admins, c)
		}
		h.adminMu.Unlock()

		for _, c := range failed {
			closeConn(c)
		}
		log.Debug().Str("component", "ws").Int("evicted", len(failed)).Msg("admin connections evicted")
	}

	return delivered
}

// Snapshot, bağlı kullanıcıları (sıralı) ve yönetici bağlantı sayısını döner.
func (h *Hub) Snapshot() ConnectionSnapshot {
	users := make([]string, 0, h.users.Size())
	h.users.Range(func(handle string, _ Conn) bool {
		users = append(users, handle)
		return true
	})
	sort.Strings(users)

	h.adminMu.Lock()
	admins := len(h.admins)
	h.adminMu.Unlock()

	return ConnectionSnapshot{Users: users, Admins: admins}
}

// Shutdown, tüm bağlantıları kapatır ve kaydı boşaltır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.users.Range(func(handle string, conn Conn) bool {
		h.users.Delete(handle)
		closeConn(conn)
		return true
	})

	h.adminMu.Lock()
	admins := h.admins
	h.admins = make(map[Conn]struct{})
	h.adminMu.Unlock()

	for c := range admins {
		closeConn(c)
	}

	log.Info().Str("component", "ws").Msg("hub shut down, all connections closed")
}

func (h *Hub) encode(event Event) ([]byte, error) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Str("component", "ws").Str("op", event.Op).Err(err).Msg("failed to marshal event")
		return nil, err
	}
	return data, nil
}

func closeConn(c Conn) {
	if cl, ok := c.(closer); ok {
		cl.Close()
	}
}
