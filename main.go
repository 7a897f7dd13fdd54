// Package main, relay sunucusunun giriş noktasıdır.
//
// Bu dosyanın görevi Dependency Injection "wire-up":
//  1. Logger ve config
//  2. Database (gömülü migration'lar ile)
//  3. Repository → Hub → Service → Handler (init_*.go)
//  4. HTTP router + CORS
//  5. HTTP server ve graceful shutdown
//
// Global değişken yok; her şey burada oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/config"
	"github.com/akinalp/relay/database"
	"github.com/akinalp/relay/ws"
)

func main() {
	// ─── 1. Config + Logger ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Str("component", "main").Msg("failed to load config")
	}
	setupLogger(cfg.Log)

	log.Info().Str("component", "main").Int("port", cfg.Server.Port).Msg("relay server starting")

	// ─── 2. Database ───
	migrations, err := database.Migrations()
	if err != nil {
		log.Fatal().Err(err).Str("component", "main").Msg("failed to load migrations")
	}

	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatal().Err(err).Str("component", "main").Msg("failed to initialize database")
	}
	defer db.Close()

	// ─── 3. Katmanlar ───
	repos := initRepositories(db.Conn)
	hub := ws.NewHub()
	svcs, limiters := initServices(db.Conn, repos, hub, cfg)
	defer limiters.Stop()
	h := initHandlers(svcs, hub, cfg)

	// ─── 4. Router + CORS ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs)

	// AllowedOrigins boşsa rs/cors varsayılanı tüm origin'lere izin verir.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// ─── 5. HTTP Server ───
	// WriteTimeout yok: /ws bağlantıları uzun ömürlüdür, kendi write deadline'ları vardır.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           corsHandler.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("component", "main").Str("addr", cfg.Server.Addr()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("component", "main").Msg("server error")
		}
	}()

	<-done
	log.Info().Str("component", "main").Msg("shutting down")

	// Önce WebSocket bağlantılarını kapat, sonra HTTP server'ı (5sn timeout).
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Str("component", "main").Msg("forced shutdown")
		return
	}

	log.Info().Str("component", "main").Msg("server stopped gracefully")
}

// setupLogger, global zerolog logger'ını config'e göre ayarlar.
// Bilinmeyen seviye info'ya düşer.
func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
