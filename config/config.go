// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Alanlar struct tag'leri ile tanımlanır; parse işini caarlos0/env yapar.
// Her alt bölüm ayrı bir struct: her biri tek bir concern'ü temsil eder.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Presence PresenceConfig
	WS       WSConfig
	Chat     ChatConfig
	Log      LogConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"9090"`
	// AllowedOrigins boşsa tüm origin'lere izin verilir (development).
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH" envDefault:"./data/relay.db"`
}

// JWTConfig, kimlik token'larını doğrulamak için kullanılan ayarlar.
// Token'ları üreten taraf (login/refresh) bu servisin dışındadır.
type JWTConfig struct {
	Secret string `env:"JWT_SECRET,notEmpty"`
}

// PresenceConfig, "online" sayılma penceresi.
type PresenceConfig struct {
	OnlineWindow time.Duration `env:"PRESENCE_ONLINE_WINDOW" envDefault:"5m"`
}

// WSConfig, WebSocket bağlantı sabitleri.
type WSConfig struct {
	// WriteWait: tek bir frame yazımı için üst sınır. Aşılırsa bağlantı kopuk sayılır.
	WriteWait time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	// PongWait: heartbeat gelmeden geçebilecek maksimum süre (3 × 30s).
	PongWait time.Duration `env:"WS_PONG_WAIT" envDefault:"90s"`
	// SendBuffer: client başına bekleyen outbound frame sayısı. Dolunca Send başarısız olur.
	SendBuffer int `env:"WS_SEND_BUFFER" envDefault:"256"`
}

// ChatConfig, mesaj spam koruması.
type ChatConfig struct {
	MaxMessages int           `env:"CHAT_MAX_MESSAGES" envDefault:"5"`
	Window      time.Duration `env:"CHAT_RATE_WINDOW" envDefault:"5s"`
	Cooldown    time.Duration `env:"CHAT_RATE_COOLDOWN" envDefault:"15s"`
}

// LogConfig, zerolog ayarları.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json | console
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler; dosya yoksa sessizce devam eder.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Presence.OnlineWindow <= 0 {
		return nil, fmt.Errorf("invalid PRESENCE_ONLINE_WINDOW: must be positive")
	}
	if cfg.WS.SendBuffer <= 0 {
		return nil, fmt.Errorf("invalid WS_SEND_BUFFER: must be positive")
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
