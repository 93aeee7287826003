package main

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/masala/config"
	"github.com/akinalp/masala/pkg/email"
	"github.com/akinalp/masala/pkg/payment"
	"github.com/akinalp/masala/pkg/ratelimit"
	"github.com/akinalp/masala/services"
	"github.com/akinalp/masala/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services, tüm service instance'larını tutan container.
type Services struct {
	Orders    services.OrderService
	Contacts  services.ContactService
	Payments  services.PaymentService
	AdminAuth services.AdminAuthService
}

// RateLimiters, rate limiter instance'larını tutan container.
type RateLimiters struct {
	Login   *ratelimit.LoginRateLimiter
	Contact ratelimit.Limiter

	stop  func()
	redis *redis.Client
}

// initServices, dış adaptörleri (email, payment) kurar ve service'leri oluşturur.
// ADMIN_EMAIL/ADMIN_PASSWORD verilmişse ve hiç admin yoksa ilk admin burada oluşturulur.
// Sipariş ve mesaj event'leri hub üzerinden admin paneline yayınlanır.
func initServices(ctx context.Context, cfg *config.Config, repos *Repositories, hub ws.EventPublisher, log *zap.SugaredLogger) (*Services, error) {
	var mailer email.EmailSender
	if cfg.Email.EmailEnabled() {
		mailer = email.NewResendSender(cfg.Email.ResendAPIKey, email.Options{
			FromEmail:     cfg.Email.FromEmail,
			FromName:      cfg.Email.FromName,
			BusinessEmail: cfg.Email.BusinessEmail,
			Timeout:       cfg.Email.Timeout,
		})
		log.Infow("email enabled", "from", cfg.Email.FromEmail, "business", cfg.Email.BusinessEmail)
	} else {
		mailer = email.NewDisabledSender()
		log.Warn("email disabled (RESEND_API_KEY or RESEND_FROM not set)")
	}

	var gateway payment.Gateway
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		gateway = payment.NewRazorpayGateway(payment.Options{
			KeyID:     cfg.Razorpay.KeyID,
			KeySecret: cfg.Razorpay.KeySecret,
			Currency:  cfg.Razorpay.Currency,
			Timeout:   cfg.Razorpay.Timeout,
		})
	} else {
		gateway = payment.NewDisabledGateway()
		log.Warn("payments disabled (RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET not set); create and verify return 500")
	}

	if cfg.Admin.DashboardKey == "" {
		log.Warn("ADMIN_DASHBOARD_KEY not set; admin endpoints accept bearer tokens only")
	}

	svcs := &Services{
		Orders:   services.NewOrderService(repos.Orders, repos.Statuses, mailer, hub, log),
		Contacts: services.NewContactService(repos.Contacts, mailer, hub, log),
		Payments: services.NewPaymentService(gateway, log),
		AdminAuth: services.NewAdminAuthService(
			repos.Admins,
			cfg.Admin.DashboardKey,
			cfg.Admin.JWTSecret,
			cfg.Admin.TokenExpiry,
			log,
		),
	}

	if err := svcs.AdminAuth.EnsureBootstrapAdmin(ctx, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword); err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	return svcs, nil
}

// initRateLimiters, login ve iletişim formu limiter'larını kurar.
// CONTACT_RATE_REDIS_URL verilmişse iletişim formu penceresi Redis'te tutulur.
func initRateLimiters(ctx context.Context, cfg *config.ContactConfig, log *zap.SugaredLogger) (*RateLimiters, error) {
	// 5 deneme / 2 dakika
	login := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			login.Stop()
			return nil, fmt.Errorf("invalid CONTACT_RATE_REDIS_URL: %w", err)
		}

		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			login.Stop()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		log.Infow("contact rate limit backed by redis", "addr", opts.Addr, "window", cfg.Window)
		return &RateLimiters{
			Login:   login,
			Contact: ratelimit.NewRedisLimiter(client, cfg.Window, "contact"),
			stop:    login.Stop,
			redis:   client,
		}, nil
	}

	window := ratelimit.NewWindowLimiter(cfg.Window, cfg.MaxClients)
	log.Infow("contact rate limit in memory", "window", cfg.Window, "max_clients", cfg.MaxClients)

	return &RateLimiters{
		Login:   login,
		Contact: window,
		stop: func() {
			login.Stop()
			window.Stop()
		},
	}, nil
}

// Close, arka plan temizleyicilerini durdurur ve Redis bağlantısını kapatır.
func (l *RateLimiters) Close() error {
	if l.stop != nil {
		l.stop()
	}
	if l.redis != nil {
		return l.redis.Close()
	}
	return nil
}
