// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Aynı struct'lar hem veritabanı/CSV satırlarının Go karşılığıdır hem de
// API'den gelen/giden verilerin şeklini belirler (json tag'leri).
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ShippingStatus, siparişin fiziksel teslimat durumudur.
// Ödeme durumundan (PaymentStatus) bağımsızdır; sadece admin değiştirir.
type ShippingStatus string

// İzin verilen ShippingStatus değerleri.
const (
	ShippingPending   ShippingStatus = "Pending"
	ShippingShipped   ShippingStatus = "Shipped"
	ShippingDelivered ShippingStatus = "Delivered"
)

// ParseShippingStatus, gelen değeri sabit kümeye karşı doğrular.
// Büyük/küçük harf duyarlıdır: "shipped" geçersizdir.
func ParseShippingStatus(s string) (ShippingStatus, bool) {
	switch st := ShippingStatus(s); st {
	case ShippingPending, ShippingShipped, ShippingDelivered:
		return st, true
	}
	return "", false
}

// Payment varsayılanları, checkout'ta boş gelirse doldurulur.
const (
	DefaultPaymentMethod = "unknown"
	DefaultPaymentStatus = "pending"
)

// TimestampLayout, created_at alanlarının CSV/SQLite'ta saklandığı format.
const TimestampLayout = "2006-01-02 15:04:05"

// Customer, checkout formundaki müşteri bilgileri.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// CartItem, sepetteki tek bir ürün satırı.
// Price ana para biriminde (rupi) birim fiyattır.
type CartItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Weight   string          `json:"weight"`
	Slug     string          `json:"slug,omitempty"`
	Image    string          `json:"image,omitempty"`
}

// LineTotal, quantity × price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PaymentInfo, checkout isteğindeki ödeme metadata'sı.
type PaymentInfo struct {
	Method            string `json:"method"`
	Status            string `json:"status"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature,omitempty"`
}

// Order, kaydedilmiş bir sipariş.
//
// JSON çıktısı düzdür (flat): Customer embed edildiği için name, email... alanları
// üst seviyede görünür, ödeme alanları payment_* olarak yazılır.
// ID sadece ilişkisel varyantta dolu olan surrogate key'dir.
type Order struct {
	ID      int64  `json:"-"`
	OrderID string `json:"order_id"`
	Customer
	Items             []CartItem      `json:"items"`
	Total             decimal.Decimal `json:"total"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentStatus     string          `json:"payment_status"`
	RazorpayOrderID   string          `json:"razorpay_order_id"`
	RazorpayPaymentID string          `json:"razorpay_payment_id"`
	RazorpaySignature string          `json:"razorpay_signature,omitempty"`
	ShippingStatus    ShippingStatus  `json:"shipping_status"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Subtotal, satır toplamlarının toplamı (client'ın gönderdiği Total'den bağımsız).
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// CreateOrderRequest, POST /create-order body'si.
type CreateOrderRequest struct {
	Customer Customer        `json:"customer"`
	Cart     []CartItem      `json:"cart"`
	Total    decimal.Decimal `json:"total"`
	Payment  PaymentInfo     `json:"payment"`
}

// requiredCustomerFields, validation sırası; hata mesajında da bu sırayla listelenir.
var requiredCustomerFields = []string{"name", "phone", "email", "address", "city", "pincode"}

// Validate, zorunlu müşteri alanlarını ve sepeti kontrol eder.
// Eksik alanlar tek bir hatada toplanır: "missing fields: phone, city".
func (r *CreateOrderRequest) Validate() error {
	c := &r.Customer
	values := map[string]*string{
		"name":    &c.Name,
		"phone":   &c.Phone,
		"email":   &c.Email,
		"address": &c.Address,
		"city":    &c.City,
		"pincode": &c.Pincode,
	}

	var missing []string
	for _, field := range requiredCustomerFields {
		v := values[field]
		*v = strings.TrimSpace(*v)
		if *v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	if len(r.Cart) == 0 {
		return fmt.Errorf("cart empty")
	}

	for i, item := range r.Cart {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("cart item %d has no name", i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("cart item %q has invalid quantity", item.Name)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("cart item %q has negative price", item.Name)
		}
	}

	if r.Total.IsNegative() {
		return fmt.Errorf("total must not be negative")
	}

	return nil
}

// ApplyPaymentDefaults, boş method/status alanlarını varsayılanlarla doldurur.
func (p *PaymentInfo) ApplyPaymentDefaults() {
	if strings.TrimSpace(p.Method) == "" {
		p.Method = DefaultPaymentMethod
	}
	if strings.TrimSpace(p.Status) == "" {
		p.Status = DefaultPaymentStatus
	}
}

// UpdateStatusRequest, POST /admin/update-status body'si.
// Key opsiyoneldir, Authorization header'daki bearer token da kabul edilir.
type UpdateStatusRequest struct {
	Key     string `json:"key"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// Validate, order_id'nin dolu ve status'ün izin verilen kümede olduğunu kontrol eder.
func (r *UpdateStatusRequest) Validate() (ShippingStatus, error) {
	r.OrderID = strings.TrimSpace(r.OrderID)
	status, ok := ParseShippingStatus(r.Status)
	if r.OrderID == "" || !ok {
		return "", fmt.Errorf("invalid order_id or status")
	}
	return status, nil
}
