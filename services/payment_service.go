package services

import (
	"context"
	"fmt"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/pkg/payment"
	"go.uber.org/zap"
)

// PaymentService, gateway sipariş açma ve ödeme imzası doğrulama.
type PaymentService interface {
	CreateGatewayOrder(ctx context.Context, req *models.CreateGatewayOrderRequest) (*models.GatewayOrder, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) error
}

type paymentService struct {
	gateway payment.Gateway
	log     *zap.SugaredLogger
}

// NewPaymentService, constructor.
func NewPaymentService(gateway payment.Gateway, log *zap.SugaredLogger) PaymentService {
	return &paymentService{gateway: gateway, log: log.Named("payment")}
}

func (s *paymentService) CreateGatewayOrder(ctx context.Context, req *models.CreateGatewayOrderRequest) (*models.GatewayOrder, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: invalid amount", pkg.ErrBadRequest)
	}

	order, err := s.gateway.CreateOrder(ctx, req.Amount)
	if err != nil {
		s.log.Warnw("gateway order failed", "amount", req.Amount.String(), "error", err)
		return nil, err
	}

	s.log.Infow("gateway order created", "gateway_order_id", order.OrderID, "amount", order.Amount)
	return order, nil
}

// VerifyPayment, imza geçersizse ErrBadRequest döner. Doğrulama yerel HMAC'tir,
// gateway'e istek atılmaz.
func (s *paymentService) VerifyPayment(_ context.Context, req *models.VerifyPaymentRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if err := s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		s.log.Warnw("payment signature rejected", "gateway_order_id", req.RazorpayOrderID, "payment_id", req.RazorpayPaymentID, "error", err)
		return err
	}

	return nil
}
