package main

import (
	"github.com/akinalp/masala/config"
	"github.com/akinalp/masala/handlers"
	"github.com/akinalp/masala/middleware"
	"github.com/akinalp/masala/ws"
	"go.uber.org/zap"
)

// Handlers, tüm HTTP handler instance'larını tutan container.
type Handlers struct {
	Home    *handlers.HomeHandler
	Order   *handlers.OrderHandler
	Payment *handlers.PaymentHandler
	Contact *handlers.ContactHandler
	Admin   *handlers.AdminHandler
	WS      *ws.Handler
}

// initHandlers, handler'ları service ve rate limiter dependency'leri ile oluşturur.
func initHandlers(
	svcs *Services,
	repos *Repositories,
	limiters *RateLimiters,
	hub *ws.Hub,
	adminAuth *middleware.AdminAuth,
	server *config.ServerConfig,
	log *zap.SugaredLogger,
) *Handlers {
	var pinger handlers.Pinger
	if repos.db != nil {
		pinger = repos.db
	}

	return &Handlers{
		Home:    handlers.NewHomeHandler(pinger),
		Order:   handlers.NewOrderHandler(svcs.Orders),
		Payment: handlers.NewPaymentHandler(svcs.Payments),
		Contact: handlers.NewContactHandler(svcs.Contacts, limiters.Contact, server.TrustForwardedHeaders, log),
		Admin: handlers.NewAdminHandler(
			svcs.Orders,
			svcs.Contacts,
			svcs.AdminAuth,
			adminAuth,
			limiters.Login,
			server.TrustForwardedHeaders,
			log,
		),
		WS: ws.NewHandler(hub, adminAuth, server.AllowedOrigins),
	}
}
