// Package main, baharat mağazası backend'inin giriş noktasıdır.
//
// Wire-up sırası:
//  1. Config ve logger
//  2. Repository'ler (CSV veya SQLite)
//  3. Service'ler (email + payment adaptörleri, bootstrap admin)
//  4. Rate limiter'lar (in-memory veya Redis)
//  5. Admin paneli WebSocket hub'ı
//  6. Handler'lar ve route'lar (CORS + request log)
//  7. HTTP server ve graceful shutdown
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akinalp/masala/config"
	"github.com/akinalp/masala/middleware"
	"github.com/akinalp/masala/pkg/logging"
	"github.com/akinalp/masala/ws"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// Tutarlar JSON'da sayı olarak yazılır (240, "240" değil).
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Development)
	defer log.Sync()

	app, err := newApp(context.Background(), cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize", "error", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infow("server listening", "addr", cfg.Server.Addr(), "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	<-done
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("forced shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}

// App, kurulmuş HTTP handler'ı ve kapatılması gereken kaynakları tutar.
type App struct {
	Handler http.Handler

	repos    *Repositories
	limiters *RateLimiters
	hub      *ws.Hub
	stopHub  context.CancelFunc
}

// newApp, tüm katmanları config'e göre kurar ve birbirine bağlar.
func newApp(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	repos, err := initRepositories(&cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(log)

	svcs, err := initServices(ctx, cfg, repos, hub, log)
	if err != nil {
		repos.Close()
		return nil, err
	}

	limiters, err := initRateLimiters(ctx, &cfg.Contact, log)
	if err != nil {
		repos.Close()
		return nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	adminAuth := middleware.NewAdminAuth(svcs.AdminAuth)
	h := initHandlers(svcs, repos, limiters, hub, adminAuth, &cfg.Server, log)

	return &App{
		Handler:  initRoutes(h, adminAuth, &cfg.Server, log),
		repos:    repos,
		limiters: limiters,
		hub:      hub,
		stopHub:  stopHub,
	}, nil
}

// Close, WebSocket bağlantılarını kapatır, limiter'ları durdurur ve storage
// bağlantısını kapatır.
func (a *App) Close() error {
	a.stopHub()
	return errors.Join(a.limiters.Close(), a.repos.Close())
}
