// Package payment, üçüncü parti ödeme gateway'ine (Razorpay) adaptör sağlar.
//
// İki operasyon var:
//   - CreateOrder: ana birimdeki tutarı (rupi) küçük birime (paise) çevirip
//     gateway'de sipariş açar.
//   - VerifySignature: client'ın checkout sonrası gönderdiği imzayı doğrular.
//
// Hiçbir çağrı retry edilmez; arka arkaya hatalarda circuit breaker açılır.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// minorUnitsPerMajor, 1 rupi = 100 paise.
var minorUnitsPerMajor = decimal.NewFromInt(100)

// Gateway, service katmanının bağımlı olduğu interface.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal) (*models.GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) error
}

// orderAPI, razorpay-go'daki Order resource'unun kullandığımız metodu.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Options, Razorpay ayarları.
type Options struct {
	KeyID     string
	KeySecret string
	Currency  string
	Timeout   time.Duration
}

type razorpayGateway struct {
	orders  orderAPI
	opts    Options
	breaker *gobreaker.CircuitBreaker[map[string]interface{}]
}

// NewRazorpayGateway, Razorpay SDK client'ı ile Gateway oluşturur.
func NewRazorpayGateway(opts Options) Gateway {
	client := razorpay.NewClient(opts.KeyID, opts.KeySecret)
	return newRazorpayGateway(client.Order, opts)
}

func newRazorpayGateway(orders orderAPI, opts Options) *razorpayGateway {
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &razorpayGateway{
		orders: orders,
		opts:   opts,
		breaker: gobreaker.NewCircuitBreaker[map[string]interface{}](gobreaker.Settings{
			Name:    "razorpay",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

// ToMinorUnits, ana birimdeki tutarı küçük birime çevirir (12.34 → 1234).
// Kuruş altı kesirler atılır.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).IntPart()
}

// CreateOrder, Gateway implementasyonu.
func (g *razorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal) (*models.GatewayOrder, error) {
	if g.opts.KeyID == "" || g.opts.KeySecret == "" {
		return nil, fmt.Errorf("%w: %w", pkg.ErrUpstream, ErrGatewayDisabled)
	}

	minor := ToMinorUnits(amount)
	if minor <= 0 {
		return nil, fmt.Errorf("%w: invalid amount", pkg.ErrBadRequest)
	}

	data := map[string]interface{}{
		"amount":          minor,
		"currency":        g.opts.Currency,
		"payment_capture": 1,
	}

	body, err := g.breaker.Execute(func() (map[string]interface{}, error) {
		return g.callWithDeadline(ctx, data)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: razorpay order: %v", pkg.ErrUpstream, err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: razorpay order: response has no id", pkg.ErrUpstream)
	}

	order := &models.GatewayOrder{
		OrderID:  id,
		Amount:   minor,
		Currency: g.opts.Currency,
		Key:      g.opts.KeyID,
	}
	// Gateway'in döndüğü tutar esas alınır (JSON sayıları float64 olarak gelir).
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}

	return order, nil
}

// callWithDeadline, context'i desteklemeyen SDK çağrısını opts.Timeout ile sınırlar.
// Süre dolarsa çağrı arka planda biter, sonucu atılır.
func (g *razorpayGateway) callWithDeadline(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)

	go func() {
		body, err := g.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	select {
	case res := <-done:
		return res.body, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ErrInvalidSignature, imza eşleşmediğinde döner (ErrBadRequest ile sarılı).
var ErrInvalidSignature = errors.New("invalid payment signature")

// ErrGatewayDisabled, key id veya secret yapılandırılmamışsa döner (ErrUpstream ile sarılı).
var ErrGatewayDisabled = errors.New("payment gateway not configured")

// VerifySignature, Gateway implementasyonu. İmza HMAC-SHA256(order_id|payment_id, secret)'tir.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	// Boş secret ile herkes geçerli imza üretebilir.
	if g.opts.KeySecret == "" {
		return fmt.Errorf("%w: %w", pkg.ErrUpstream, ErrGatewayDisabled)
	}

	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}

	if !utils.VerifyPaymentSignature(params, signature, g.opts.KeySecret) {
		return fmt.Errorf("%w: %w", pkg.ErrBadRequest, ErrInvalidSignature)
	}
	return nil
}

// disabledGateway, Razorpay anahtarları yokken kullanılır; her çağrı ErrGatewayDisabled döner.
type disabledGateway struct{}

// NewDisabledGateway, constructor.
func NewDisabledGateway() Gateway { return disabledGateway{} }

func (disabledGateway) CreateOrder(context.Context, decimal.Decimal) (*models.GatewayOrder, error) {
	return nil, fmt.Errorf("%w: %w", pkg.ErrUpstream, ErrGatewayDisabled)
}

func (disabledGateway) VerifySignature(_, _, _ string) error {
	return fmt.Errorf("%w: %w", pkg.ErrUpstream, ErrGatewayDisabled)
}
