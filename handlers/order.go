package handlers

import (
	"net/http"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/services"
)

// OrderHandler, checkout endpoint'i.
type OrderHandler struct {
	orders services.OrderService
}

// NewOrderHandler, constructor.
func NewOrderHandler(orders services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderResponse struct {
	Success bool `json:"success"`
	*services.CheckoutResult
}

// CreateOrder godoc
// POST /create-order
// Body: { customer: {...}, cart: [...], total, payment: {...} }
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.orders.Checkout(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, createOrderResponse{Success: true, CheckoutResult: result})
}
