package main

import (
	"net/http"

	"github.com/akinalp/masala/config"
	"github.com/akinalp/masala/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// initRoutes, endpoint'leri mux'a bağlar ve CORS + request log ile sarar.
//
// GET admin endpoint'leri adminAuth.Require ile korunur. POST admin
// endpoint'leri body'deki key alanını da kabul ettiği için kontrolü
// handler içinde, body decode edildikten sonra yapar.
func initRoutes(h *Handlers, adminAuth *middleware.AdminAuth, cfg *config.ServerConfig, log *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()

	// {$} sadece kök path'i eşler; bilinmeyen path'ler 404 döner.
	mux.HandleFunc("GET /{$}", h.Home.Home)
	mux.HandleFunc("GET /health", h.Home.Health)

	// Checkout
	mux.HandleFunc("POST /create-order", h.Order.CreateOrder)
	mux.HandleFunc("POST /create-razorpay-order", h.Payment.CreateRazorpayOrder)
	mux.HandleFunc("POST /verify-payment", h.Payment.VerifyPayment)

	// İletişim formu
	mux.HandleFunc("POST /send-message", h.Contact.SendMessage)

	// Admin
	mux.HandleFunc("POST /admin/login", h.Admin.Login)
	mux.Handle("GET /admin/orders", adminAuth.Require(http.HandlerFunc(h.Admin.ListOrders)))
	mux.Handle("GET /admin/messages", adminAuth.Require(http.HandlerFunc(h.Admin.ListMessages)))
	mux.HandleFunc("POST /admin/update-status", h.Admin.UpdateStatus)
	mux.HandleFunc("POST /admin/resend-confirmation", h.Admin.ResendConfirmation)

	// Canlı sipariş/mesaj bildirimleri; yetki ?key= veya ?token= ile.
	mux.HandleFunc("GET /admin/ws", h.WS.HandleConnection)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return middleware.RequestLogger(log)(corsHandler.Handler(mux))
}
