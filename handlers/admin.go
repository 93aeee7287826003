package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/masala/middleware"
	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/pkg/ratelimit"
	"github.com/akinalp/masala/services"
	"go.uber.org/zap"
)

// AdminAuthorizer, body'li admin endpoint'lerinin kimlik kontrolü
// (middleware.AdminAuth karşılar). key body'den gelen dashboard key'dir.
type AdminAuthorizer interface {
	Authorize(r *http.Request, key string) (string, error)
}

// AdminHandler, admin paneli endpoint'leri.
type AdminHandler struct {
	orders       services.OrderService
	contacts     services.ContactService
	auth         services.AdminAuthService
	authorizer   AdminAuthorizer
	loginLimiter *ratelimit.LoginRateLimiter
	trustProxy   bool
	log          *zap.SugaredLogger
}

// NewAdminHandler, constructor. loginLimiter nil ise login rate limit kapalıdır.
// trustProxy, login limiter'ın forwarding header'larına bakıp bakmayacağıdır.
func NewAdminHandler(
	orders services.OrderService,
	contacts services.ContactService,
	auth services.AdminAuthService,
	authorizer AdminAuthorizer,
	loginLimiter *ratelimit.LoginRateLimiter,
	trustProxy bool,
	log *zap.SugaredLogger,
) *AdminHandler {
	return &AdminHandler{
		orders:       orders,
		contacts:     contacts,
		auth:         auth,
		authorizer:   authorizer,
		loginLimiter: loginLimiter,
		trustProxy:   trustProxy,
		log:          log.Named("admin"),
	}
}

// Login godoc
// POST /admin/login
// Body: { email, password } → { success, token }
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r, h.trustProxy)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s", ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.AdminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	pkg.JSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

// ListOrders godoc
// GET /admin/orders?key=... veya Authorization: Bearer <token>
// Yetki kontrolü route'taki middleware'dadır.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.log.Infow("orders listed", "count", len(orders), "actor", middleware.ActorFromContext(r.Context()))
	pkg.JSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}

// ListMessages godoc
// GET /admin/messages?key=... veya Authorization: Bearer <token>
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.contacts.List(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.log.Infow("messages listed", "count", len(msgs), "actor", middleware.ActorFromContext(r.Context()))
	pkg.JSON(w, http.StatusOK, map[string]any{"success": true, "messages": msgs})
}

// UpdateStatus godoc
// POST /admin/update-status
// Body: { key?, order_id, status: Pending|Shipped|Delivered }
//
// Body kimlikten önce doğrulanır: geçersiz status her kimlikle 400 döner.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := req.Validate()
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	actor, err := h.authorizer.Authorize(r, req.Key)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if err := h.orders.UpdateShippingStatus(r.Context(), req.OrderID, status); err != nil {
		pkg.Error(w, err)
		return
	}

	h.log.Infow("status changed", "order_id", req.OrderID, "status", status, "actor", actor)
	pkg.OK(w)
}

// ResendConfirmation godoc
// POST /admin/resend-confirmation
// Body: { key?, order_id }
func (h *AdminHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req models.ResendConfirmationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.OrderID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "order_id is required")
		return
	}

	actor, err := h.authorizer.Authorize(r, req.Key)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if err := h.orders.ResendConfirmation(r.Context(), req.OrderID); err != nil {
		pkg.Error(w, err)
		return
	}

	h.log.Infow("confirmation re-sent", "order_id", req.OrderID, "actor", actor)
	pkg.OK(w)
}
