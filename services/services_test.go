package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/pkg/orderid"
	"github.com/akinalp/masala/repository"
	"github.com/akinalp/masala/ws"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	mu       sync.Mutex
	orders   []*models.Order
	contacts []*models.ContactMessage
	err      error
}

func (f *fakeMailer) SendOrderConfirmation(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
	return f.err
}

func (f *fakeMailer) SendContactNotification(_ context.Context, m *models.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, m)
	return f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (f *fakePublisher) BroadcastToAll(event ws.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, 0, len(f.events))
	for _, e := range f.events {
		ops = append(ops, e.Op)
	}
	return ops
}

var fixedNow = time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)

func newTestOrderService(t *testing.T, mailer *fakeMailer) (*orderService, repository.OrderRepository, repository.ShippingStatusRepository) {
	t.Helper()
	dir := t.TempDir()
	orders := repository.NewCSVOrderRepo(dir)
	statuses := repository.NewCSVStatusRepo(dir)
	ids := orderid.NewGenerator(orders.Exists).WithClock(func() time.Time { return fixedNow })
	svc := newOrderService(orders, statuses, ids, mailer, nil, zap.NewNop().Sugar(), func() time.Time { return fixedNow })
	return svc, orders, statuses
}

func validOrderRequest() *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		Customer: models.Customer{Name: "Asha", Phone: "99", Email: "asha@example.com", Address: "MG Road", City: "Ujjain", Pincode: "456001"},
		Cart:     []models.CartItem{{Name: "Garam Masala", Quantity: 2, Price: decimal.NewFromInt(120)}},
		Total:    decimal.NewFromInt(240),
	}
}

func TestCheckout_PersistsAndNotifies(t *testing.T) {
	mailer := &fakeMailer{}
	svc, orders, _ := newTestOrderService(t, mailer)

	res, err := svc.Checkout(context.Background(), validOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, orderid.Format(fixedNow), res.OrderID)
	assert.True(t, res.EmailSent)

	stored, err := orders.GetByOrderID(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPaymentMethod, stored.PaymentMethod)
	assert.Equal(t, models.DefaultPaymentStatus, stored.PaymentStatus)
	assert.Equal(t, fixedNow.Truncate(time.Second), stored.CreatedAt)

	require.Len(t, mailer.orders, 1)
	assert.Equal(t, res.OrderID, mailer.orders[0].OrderID)
}

func TestCheckout_ValidationFailureHasNoSideEffects(t *testing.T) {
	mailer := &fakeMailer{}
	svc, orders, _ := newTestOrderService(t, mailer)

	req := validOrderRequest()
	req.Customer.Phone = ""
	req.Customer.City = " "

	_, err := svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.ErrorContains(t, err, "missing fields: phone, city")

	req = validOrderRequest()
	req.Cart = nil
	_, err = svc.Checkout(context.Background(), req)
	assert.ErrorContains(t, err, "cart empty")

	list, err := orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, mailer.orders)
}

func TestCheckout_EmailFailureKeepsOrder(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("relay down")}
	svc, orders, _ := newTestOrderService(t, mailer)

	res, err := svc.Checkout(context.Background(), validOrderRequest())
	require.NoError(t, err)
	assert.False(t, res.EmailSent)

	exists, err := orders.Exists(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCheckout_SameInstantGetsDistinctIDs(t *testing.T) {
	svc, _, _ := newTestOrderService(t, &fakeMailer{})

	first, err := svc.Checkout(context.Background(), validOrderRequest())
	require.NoError(t, err)
	second, err := svc.Checkout(context.Background(), validOrderRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
}

func TestOrderEventsPublished(t *testing.T) {
	svc, _, _ := newTestOrderService(t, &fakeMailer{})
	pub := &fakePublisher{}
	svc.events = pub
	ctx := context.Background()

	_, err := svc.Checkout(ctx, &models.CreateOrderRequest{})
	require.Error(t, err)
	assert.Empty(t, pub.ops(), "rejected checkout publishes nothing")

	res, err := svc.Checkout(ctx, validOrderRequest())
	require.NoError(t, err)
	require.NoError(t, svc.UpdateShippingStatus(ctx, res.OrderID, models.ShippingShipped))

	assert.Equal(t, []string{ws.OpOrderCreate, ws.OpOrderStatusUpdate}, pub.ops())
	assert.Equal(t, ws.OrderStatusData{OrderID: res.OrderID, Status: "Shipped"}, pub.events[1].Data)
}

func TestList_MergesStatusesDefaultPending(t *testing.T) {
	svc, _, statuses := newTestOrderService(t, &fakeMailer{})
	ctx := context.Background()

	a, err := svc.Checkout(ctx, validOrderRequest())
	require.NoError(t, err)
	b, err := svc.Checkout(ctx, validOrderRequest())
	require.NoError(t, err)

	require.NoError(t, statuses.Upsert(ctx, a.OrderID, models.ShippingShipped))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, b.OrderID, list[0].OrderID, "newest first")
	assert.Equal(t, models.ShippingPending, list[0].ShippingStatus)
	assert.Equal(t, models.ShippingShipped, list[1].ShippingStatus)
}

func TestUpdateShippingStatus(t *testing.T) {
	svc, _, statuses := newTestOrderService(t, &fakeMailer{})
	ctx := context.Background()

	res, err := svc.Checkout(ctx, validOrderRequest())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateShippingStatus(ctx, res.OrderID, models.ShippingDelivered))
	got, err := statuses.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ShippingDelivered, got[res.OrderID])

	err = svc.UpdateShippingStatus(ctx, "ORD99999999", models.ShippingShipped)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestResendConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _, _ := newTestOrderService(t, mailer)
	ctx := context.Background()

	res, err := svc.Checkout(ctx, validOrderRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ResendConfirmation(ctx, res.OrderID))
	assert.Len(t, mailer.orders, 2)

	assert.ErrorIs(t, svc.ResendConfirmation(ctx, "ORD404"), pkg.ErrNotFound)

	mailer.err = errors.New("relay down")
	assert.ErrorIs(t, svc.ResendConfirmation(ctx, res.OrderID), pkg.ErrUpstream)
}

func TestContactSubmit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCSVContactRepo(t.TempDir())
	mailer := &fakeMailer{}
	pub := &fakePublisher{}
	svc := NewContactService(repo, mailer, pub, zap.NewNop().Sugar())

	msg, err := svc.Submit(ctx, &models.SendMessageRequest{Name: "Ravi", Email: "ravi@example.com", Message: "Hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, models.DefaultContactSubject, msg.Subject)
	require.Len(t, mailer.contacts, 1)

	_, err = svc.Submit(ctx, &models.SendMessageRequest{Name: "Ravi", Message: "no email"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	mailer.err = errors.New("relay down")
	_, err = svc.Submit(ctx, &models.SendMessageRequest{Name: "Ravi", Email: "r@x", Message: "second"})
	assert.ErrorIs(t, err, pkg.ErrUpstream)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2, "record is kept when the email fails")
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, []string{ws.OpContactCreate, ws.OpContactCreate}, pub.ops())
}

type fakeGateway struct {
	amount    decimal.Decimal
	createErr error
	verifyErr error
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal) (*models.GatewayOrder, error) {
	f.amount = amount
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.GatewayOrder{OrderID: "order_1", Amount: amount.Mul(decimal.NewFromInt(100)).IntPart(), Currency: "INR", Key: "rzp_key"}, nil
}

func (f *fakeGateway) VerifySignature(_, _, _ string) error {
	return f.verifyErr
}

func TestPaymentService(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}
	svc := NewPaymentService(gw, zap.NewNop().Sugar())

	order, err := svc.CreateGatewayOrder(ctx, &models.CreateGatewayOrderRequest{Amount: decimal.NewFromInt(499)})
	require.NoError(t, err)
	assert.Equal(t, int64(49900), order.Amount)

	_, err = svc.CreateGatewayOrder(ctx, &models.CreateGatewayOrderRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	gw.createErr = pkg.ErrUpstream
	_, err = svc.CreateGatewayOrder(ctx, &models.CreateGatewayOrderRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, pkg.ErrUpstream)

	err = svc.VerifyPayment(ctx, &models.VerifyPaymentRequest{RazorpayOrderID: "o"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	req := &models.VerifyPaymentRequest{RazorpayOrderID: "o", RazorpayPaymentID: "p", RazorpaySignature: "s"}
	assert.NoError(t, svc.VerifyPayment(ctx, req))

	gw.verifyErr = pkg.ErrBadRequest
	assert.ErrorIs(t, svc.VerifyPayment(ctx, req), pkg.ErrBadRequest)
}

func newTestAdminAuth(t *testing.T) *adminAuthService {
	t.Helper()
	svc := NewAdminAuthService(repository.NewMemoryAdminRepo(), "dash-key", "test-secret", time.Hour, zap.NewNop().Sugar()).(*adminAuthService)
	require.NoError(t, svc.EnsureBootstrapAdmin(context.Background(), " Admin@Example.com ", "hunter2"))
	return svc
}

func TestAdminAuth_LoginAndValidate(t *testing.T) {
	svc := newTestAdminAuth(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, &models.AdminLoginRequest{Email: "admin@example.com", Password: "hunter2"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)

	_, err = svc.Login(ctx, &models.AdminLoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	_, err = svc.Login(ctx, &models.AdminLoginRequest{Email: "ghost@example.com", Password: "hunter2"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	_, err = svc.Login(ctx, &models.AdminLoginRequest{Email: "", Password: ""})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestAdminAuth_RejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newTestAdminAuth(t)

	token, err := svc.Login(context.Background(), &models.AdminLoginRequest{Email: "admin@example.com", Password: "hunter2"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": tokenIssuer}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAdminAuth_DashboardKey(t *testing.T) {
	svc := newTestAdminAuth(t)
	assert.True(t, svc.CheckDashboardKey("dash-key"))
	assert.False(t, svc.CheckDashboardKey("nope"))
	assert.False(t, svc.CheckDashboardKey(""))

	noKey := NewAdminAuthService(repository.NewMemoryAdminRepo(), "", "s", time.Hour, zap.NewNop().Sugar())
	assert.False(t, noKey.CheckDashboardKey(""))
}

func TestEnsureBootstrapAdmin_OnlyWhenEmpty(t *testing.T) {
	admins := repository.NewMemoryAdminRepo()
	svc := NewAdminAuthService(admins, "", "s", time.Hour, zap.NewNop().Sugar())
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "", ""))
	n, _ := admins.Count(ctx)
	assert.Zero(t, n)

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "a@example.com", "pw"))
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "b@example.com", "pw"))
	n, _ = admins.Count(ctx)
	assert.Equal(t, 1, n)
}
