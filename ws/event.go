// Package ws, WebSocket bağlantı kaydı ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
//   - Hub: kimlik → bağlantı kaydı (normal kullanıcı için tek bağlantı, yöneticiler için havuz)
//   - Client: tek bir WebSocket bağlantısı; Hub'a Conn olarak kaydolur
//   - Event: client-server arası iletilen mesaj formatı
//
// Teslimat "en fazla bir kez, şimdi" mantığıyla çalışır: kuyruk ve yeniden deneme yoktur.
// Kaçırılan canlı teslimat, kalıcılaştırılmış bildirimlerin sonradan çekilmesiyle telafi edilir.
package ws

import "github.com/akinalp/relay/models"

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Seq: her outbound event'e Hub tarafından verilen artan sayı.
// İstemci eksik event tespit etmek için takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // client her 30sn'de gönderir
)

// Server → Client operasyonları
const (
	OpHeartbeatAck = "heartbeat_ack"
	OpNotification = "notification" // kalıcılaştırılmış bildirimin canlı kopyası
	OpNewMessage   = "new_message"  // konuşmaya yeni mesaj düştü
)

// NewMessageData, new_message event'inin payload'ı.
type NewMessageData struct {
	ConversationID string         `json:"conversation_id"`
	Message        models.Message `json:"message"`
}
