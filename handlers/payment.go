package handlers

import (
	"net/http"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/services"
)

// PaymentHandler, ödeme gateway endpoint'leri.
type PaymentHandler struct {
	payments services.PaymentService
}

// NewPaymentHandler, constructor.
func NewPaymentHandler(payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type gatewayOrderResponse struct {
	Success bool `json:"success"`
	*models.GatewayOrder
}

// CreateRazorpayOrder godoc
// POST /create-razorpay-order
// Body: { amount } (rupi). Yanıttaki amount paise cinsindendir.
func (h *PaymentHandler) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGatewayOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.payments.CreateGatewayOrder(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, gatewayOrderResponse{Success: true, GatewayOrder: order})
}

// VerifyPayment godoc
// POST /verify-payment
// Body: { razorpay_order_id, razorpay_payment_id, razorpay_signature }
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.payments.VerifyPayment(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.OK(w)
}
