// Package receipt, sipariş onay email'ine eklenen CSV özetini üretir.
package receipt

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/akinalp/masala/models"
)

// ContentType, üretilen eklentinin MIME tipi.
const ContentType = "text/csv"

// Filename, siparişe ait eklenti dosya adı: order_<id>.csv
func Filename(orderID string) string {
	return fmt.Sprintf("order_%s.csv", orderID)
}

// OrderCSV, tek bir siparişin okunabilir CSV özetini döner.
//
// Bloklar boş satırlarla ayrılır: sipariş başlığı, müşteri, ödeme,
// ürün satırları (satır toplamı ile), ara toplam ve client'ın gönderdiği nihai toplam.
func OrderCSV(o *models.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Order ID", o.OrderID},
		{"Date", o.CreatedAt.Format(models.TimestampLayout)},
		{},
		{"Customer Name", o.Name},
		{"Email", o.Email},
		{"Phone", o.Phone},
		{"Address", o.Address},
		{"City", o.City},
		{"Pincode", o.Pincode},
		{},
		{"Payment Method", o.PaymentMethod},
		{"Payment Status", o.PaymentStatus},
		{"Razorpay Order ID", o.RazorpayOrderID},
		{"Razorpay Payment ID", o.RazorpayPaymentID},
		{},
		{"Item Name", "Quantity", "Price (₹)", "Weight", "Line Total (₹)"},
	}

	for _, item := range o.Items {
		rows = append(rows, []string{
			item.Name,
			strconv.Itoa(item.Quantity),
			item.Price.String(),
			item.Weight,
			item.LineTotal().String(),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"Subtotal", o.Subtotal().String()},
		[]string{"Final Total", o.Total.String()},
	)

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write order csv: %w", err)
	}

	return buf.Bytes(), nil
}
