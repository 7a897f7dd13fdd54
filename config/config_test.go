package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("PRESENCE_ONLINE_WINDOW", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Server.Addr(); got != "0.0.0.0:8081" {
		t.Errorf("Addr = %q", got)
	}
	if cfg.Presence.OnlineWindow != 2*time.Minute {
		t.Errorf("OnlineWindow = %v", cfg.Presence.OnlineWindow)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.WS.SendBuffer != 256 {
		t.Errorf("SendBuffer default = %d", cfg.WS.SendBuffer)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty JWT_SECRET")
	}
}
