package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/akinalp/masala/pkg"
)

// BannerMessage, GET / yanıtındaki sabit mesaj.
const BannerMessage = "Backend running – orders via CSV + Email + Razorpay."

// Pinger, health check'te kontrol edilen bağımlılık (ör: SQLite bağlantısı).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HomeHandler, banner ve health endpoint'leri.
type HomeHandler struct {
	pinger Pinger
}

// NewHomeHandler, constructor. pinger nil olabilir (CSV driver).
func NewHomeHandler(pinger Pinger) *HomeHandler {
	return &HomeHandler{pinger: pinger}
}

// Home godoc
// GET /
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, map[string]string{"message": BannerMessage})
}

// Health godoc
// GET /health
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			pkg.JSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "status": "unavailable"})
			return
		}
	}

	pkg.JSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}
