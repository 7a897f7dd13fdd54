package ws

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/config"
	"github.com/akinalp/relay/models"
)

// TokenValidator, WebSocket handler'ın kimlik doğrulaması için kullandığı interface.
// services paketini import etmemek için burada tanımlıdır (services → ws bağımlılığı var).
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.TokenClaims, error)
}

// PresenceToucher, bağlantı ve heartbeat anında last_active'i günceller.
type PresenceToucher interface {
	Touch(ctx context.Context, handle string) error
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub      *Hub
	tokens   TokenValidator
	presence PresenceToucher
	cfg      config.WSConfig
	upgrader websocket.Upgrader
}

// NewHandler, yeni bir WebSocket handler oluşturur.
// allowedOrigins boşsa tüm origin'lere izin verilir (development).
func NewHandler(hub *Hub, tokens TokenValidator, presence PresenceToucher, cfg config.WSConfig, allowedOrigins []string) *Handler {
	return &Handler{
		hub:      hub,
		tokens:   tokens,
		presence: presence,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcılar WS handshake'inde header gönderemediği için token query parametresidir:
//
//	ws://server/ws?token=JWT_TOKEN
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Str("component", "ws").Str("user", claims.Username).Err(err).Msg("upgrade failed")
		return
	}

	handle := claims.Username
	client := newClient(h.hub, conn, claims, h.cfg, func() { h.touch(handle) })

	// Yerine geçilen eski bağlantı artık kayıttan erişilemez; soketini de kapatıyoruz.
	// Onun ReadPump'ı sonra Disconnect çağırsa bile yeni girdi etkilenmez.
	if previous, replaced := h.hub.Connect(handle, claims.Role, client); replaced {
		closeConn(previous)
	}
	h.touch(handle)

	go client.WritePump()
	client.ReadPump()
}

func (h *Handler) touch(handle string) {
	if h.presence == nil {
		return
	}
	if err := h.presence.Touch(context.Background(), handle); err != nil {
		log.Warn().Str("component", "ws").Str("user", handle).Err(err).Msg("presence touch failed")
	}
}
