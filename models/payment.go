package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// GatewayOrder, ödeme gateway'inde açılan sipariş.
// Amount gateway'in küçük biriminde (paise) tutulur.
type GatewayOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"` // Frontend checkout widget'ının kullandığı public key id
}

// CreateGatewayOrderRequest, POST /create-razorpay-order body'si.
// Amount ana para biriminde (rupi) gelir.
type CreateGatewayOrderRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// VerifyPaymentRequest, POST /verify-payment body'si.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Validate, üç alanın da dolu olduğunu kontrol eder.
func (r *VerifyPaymentRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.RazorpayOrderID) == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if strings.TrimSpace(r.RazorpayPaymentID) == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if strings.TrimSpace(r.RazorpaySignature) == "" {
		missing = append(missing, "razorpay_signature")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
