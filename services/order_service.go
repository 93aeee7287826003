// Package services, iş kurallarının yaşadığı katman.
//
// Service'ler http.Request/Response bilmez, SQL veya dosya formatı da bilmez:
// domain modelleri alır, repository interface'leri ve dış adaptörler
// (email, payment) üzerinden çalışır. Handler'lar service interface'lerine bağımlıdır.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/pkg/email"
	"github.com/akinalp/masala/pkg/orderid"
	"github.com/akinalp/masala/repository"
	"github.com/akinalp/masala/ws"
	"go.uber.org/zap"
)

// maxCreateAttempts, id üretimi ile insert arasında başka bir yazıcı aynı id'yi
// aldığında kaç kez yeni id deneneceği.
const maxCreateAttempts = 3

// OrderService, checkout ve admin sipariş operasyonları.
type OrderService interface {
	// Checkout, siparişi doğrular, kaydeder ve onay email'i gönderir.
	// Email hatası siparişi geçersiz kılmaz; sonuç EmailSent=false ile döner.
	Checkout(ctx context.Context, req *models.CreateOrderRequest) (*CheckoutResult, error)
	// List, tüm siparişleri en yeniden eskiye, kargo durumlarıyla birlikte döner.
	List(ctx context.Context) ([]models.Order, error)
	UpdateShippingStatus(ctx context.Context, orderID string, status models.ShippingStatus) error
	ResendConfirmation(ctx context.Context, orderID string) error
}

// CheckoutResult, /create-order yanıtının gövdesi.
type CheckoutResult struct {
	OrderID   string `json:"order_id"`
	EmailSent bool   `json:"email_sent"`
}

type orderService struct {
	orders   repository.OrderRepository
	statuses repository.ShippingStatusRepository
	ids      *orderid.Generator
	mailer   email.EmailSender
	events   ws.EventPublisher
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewOrderService, constructor. Order id çakışma kontrolü orders.Exists ile yapılır.
// events nil ise admin paneline bildirim gönderilmez.
func NewOrderService(
	orders repository.OrderRepository,
	statuses repository.ShippingStatusRepository,
	mailer email.EmailSender,
	events ws.EventPublisher,
	log *zap.SugaredLogger,
) OrderService {
	return newOrderService(orders, statuses, orderid.NewGenerator(orders.Exists), mailer, events, log, time.Now)
}

func newOrderService(
	orders repository.OrderRepository,
	statuses repository.ShippingStatusRepository,
	ids *orderid.Generator,
	mailer email.EmailSender,
	events ws.EventPublisher,
	log *zap.SugaredLogger,
	now func() time.Time,
) *orderService {
	if events == nil {
		events = ws.NopPublisher()
	}
	return &orderService{
		orders:   orders,
		statuses: statuses,
		ids:      ids,
		mailer:   mailer,
		events:   events,
		log:      log.Named("orders"),
		now:      now,
	}
}

func (s *orderService) Checkout(ctx context.Context, req *models.CreateOrderRequest) (*CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	req.Payment.ApplyPaymentDefaults()

	order := &models.Order{
		Customer:          req.Customer,
		Items:             req.Cart,
		Total:             req.Total,
		PaymentMethod:     req.Payment.Method,
		PaymentStatus:     req.Payment.Status,
		RazorpayOrderID:   req.Payment.RazorpayOrderID,
		RazorpayPaymentID: req.Payment.RazorpayPaymentID,
		RazorpaySignature: req.Payment.RazorpaySignature,
		ShippingStatus:    models.ShippingPending,
		CreatedAt:         s.now().UTC().Truncate(time.Second),
	}

	if err := s.create(ctx, order); err != nil {
		return nil, err
	}

	s.log.Infow("order created", "order_id", order.OrderID, "total", order.Total.String(), "payment_method", order.PaymentMethod)
	s.events.BroadcastToAll(ws.Event{Op: ws.OpOrderCreate, Data: order})

	result := &CheckoutResult{OrderID: order.OrderID, EmailSent: true}
	if err := s.mailer.SendOrderConfirmation(ctx, order); err != nil {
		s.log.Warnw("order confirmation email failed", "order_id", order.OrderID, "error", err)
		result.EmailSent = false
	}

	return result, nil
}

// create, yeni bir id alıp siparişi yazar. Insert anında id başkası tarafından
// alınmışsa (ErrAlreadyExists) yeni id ile tekrar dener.
func (s *orderService) create(ctx context.Context, order *models.Order) error {
	var err error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		order.OrderID, err = s.ids.Next(ctx)
		if err != nil {
			return fmt.Errorf("failed to allocate order id: %w", err)
		}

		err = s.orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pkg.ErrAlreadyExists) {
			return err
		}
	}
	return err
}

func (s *orderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.statuses.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		status, ok := statuses[orders[i].OrderID]
		if !ok || status == "" {
			status = models.ShippingPending
		}
		orders[i].ShippingStatus = status
	}

	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *orderService) UpdateShippingStatus(ctx context.Context, orderID string, status models.ShippingStatus) error {
	exists, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: order %s", pkg.ErrNotFound, orderID)
	}

	if err := s.statuses.Upsert(ctx, orderID, status); err != nil {
		return err
	}

	s.log.Infow("shipping status updated", "order_id", orderID, "status", status)
	s.events.BroadcastToAll(ws.Event{
		Op:   ws.OpOrderStatusUpdate,
		Data: ws.OrderStatusData{OrderID: orderID, Status: string(status)},
	})
	return nil
}

func (s *orderService) ResendConfirmation(ctx context.Context, orderID string) error {
	order, err := s.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.mailer.SendOrderConfirmation(ctx, order); err != nil {
		s.log.Warnw("order confirmation re-send failed", "order_id", orderID, "error", err)
		return fmt.Errorf("%w: email error: %v", pkg.ErrUpstream, err)
	}

	s.log.Infow("order confirmation re-sent", "order_id", orderID)
	return nil
}
