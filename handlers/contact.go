package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/pkg/ratelimit"
	"github.com/akinalp/masala/services"
	"go.uber.org/zap"
)

// ContactHandler, iletişim formu endpoint'i.
type ContactHandler struct {
	contacts       services.ContactService
	limiter        ratelimit.Limiter
	trustForwarded bool
	log            *zap.SugaredLogger
}

// NewContactHandler, constructor. limiter nil ise rate limit uygulanmaz.
// trustForwarded false ise limiter bağlantı adresine göre anahtarlanır.
func NewContactHandler(contacts services.ContactService, limiter ratelimit.Limiter, trustForwarded bool, log *zap.SugaredLogger) *ContactHandler {
	return &ContactHandler{contacts: contacts, limiter: limiter, trustForwarded: trustForwarded, log: log.Named("contact")}
}

// SendMessage godoc
// POST /send-message
// Body: { name, email, phone?, subject?, message, hp_field? }
//
// Kontrol sırası: rate limit → honeypot → zorunlu alanlar → kayıt → email.
// Rate limit penceresi ilk kabul edilen istekle başlar; honeypot'a takılan veya
// validation'dan dönen istekler de pencereyi tüketir.
func (h *ContactHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r, h.trustForwarded)

	if h.limiter != nil {
		allowed, retryAfter, err := h.limiter.Allow(r.Context(), ip)
		if err != nil {
			// Limiter store'u erişilemezse form kapanmaz.
			h.log.Warnw("rate limiter unavailable", "ip", ip, "error", err)
		} else if !allowed {
			seconds := ratelimit.CeilSeconds(retryAfter)
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
				fmt.Sprintf("Wait %s before sending again", ratelimit.FormatRetryMessage(seconds)))
			return
		}
	}

	var req models.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.IsBot() {
		h.log.Infow("honeypot triggered", "ip", ip)
		pkg.OK(w)
		return
	}

	if _, err := h.contacts.Submit(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.OK(w)
}
