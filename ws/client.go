package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/config"
	"github.com/akinalp/relay/models"
)

// maxMessageSize: client'ın gönderebileceği maksimum frame boyutu (byte).
// Client → server yönünde yalnızca küçük kontrol mesajları akar.
const maxMessageSize = 4096

// Client, tek bir WebSocket bağlantısını temsil eder ve Hub'a Conn olarak kaydolur.
//
// Her bağlantı için iki goroutine çalışır:
//   - ReadPump: client'tan gelen frame'leri okur (heartbeat)
//   - WritePump: send kuyruğundaki frame'leri sokete yazar
//
// gorilla/websocket aynı anda tek okuyucu ve tek yazıcı destekler.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	handle string
	role   models.Role
	cfg    config.WSConfig

	// onHeartbeat, her heartbeat'te çağrılır (presence touch).
	onHeartbeat func()

	// mu, send kanalını ve closed bayrağını korur. Send ile Close aynı kilit altında
	// çalıştığı için kapalı kanala yazma (panic) mümkün değildir.
	mu     sync.Mutex
	send   chan []byte
	closed bool

	writeMu sync.Mutex // conn.WriteMessage çağrılarını korur
}

func newClient(hub *Hub, conn *websocket.Conn, claims *models.TokenClaims, cfg config.WSConfig, onHeartbeat func()) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		handle:      claims.Username,
		role:        claims.Role,
		cfg:         cfg,
		onHeartbeat: onHeartbeat,
		send:        make(chan []byte, cfg.SendBuffer),
	}
}

// Send, payload'ı yazma kuyruğuna ekler. Hiç beklemez: kuyruk doluysa
// ErrSendBufferFull, bağlantı kapatılmışsa ErrConnClosed döner.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnClosed
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close, yazma kuyruğunu kapatır; WritePump close frame gönderip soketi kapatır.
// Birden fazla çağrılabilir.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump, bağlantı kapanana kadar client frame'lerini okur.
// Döndüğünde client kayıttan çıkarılır ve kaynaklar temizlenir.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c.handle, c.role, c)
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
		log.Warn().Str("component", "ws").Str("user", c.handle).Err(err).Msg("failed to set read deadline")
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Str("component", "ws").Str("user", c.handle).Err(err).Msg("unexpected close")
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Debug().Str("component", "ws").Str("user", c.handle).Err(err).Msg("invalid message")
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
			log.Warn().Str("component", "ws").Str("user", c.handle).Err(err).Msg("failed to set read deadline")
			return
		}
		if c.onHeartbeat != nil {
			c.onHeartbeat()
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	default:
		log.Debug().Str("component", "ws").Str("user", c.handle).Str("op", event.Op).Msg("unknown op")
	}
}

// sendEvent, yalnızca bu client'a event gönderir (Hub seq sayacını kullanmaz).
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := c.Send(data); err != nil {
		log.Debug().Str("component", "ws").Str("user", c.handle).Err(err).Msg("dropping connection")
		c.hub.Disconnect(c.handle, c.role, c)
		c.Close()
	}
}

// WritePump, send kuyruğundaki frame'leri WebSocket'e yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	// Kuyruk kapatıldı: kayıttan düşürüldük veya yerimize yeni bağlantı geçti.
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
