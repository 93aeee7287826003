package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/shopspring/decimal"
)

// orders.csv kolon düzeni (header satırı yok):
//
//	0 created_at, 1 order_id, 2 name, 3 email, 4 phone, 5 address, 6 city,
//	7 pincode, 8 total, 9 payment_method, 10 payment_status,
//	11 razorpay_order_id, 12 razorpay_payment_id, 13 items (JSON),
//	14 razorpay_signature
//
// Eski dosyalarda son kolonlar eksik olabilir: 13 kolonlu satırlar kalemsiz,
// 14 kolonlu satırlar imzasız yüklenir.
const (
	OrdersFile = "orders.csv"

	orderLegacyColumns = 13
	orderItemsColumns  = 14
	orderColumns       = 15
)

type csvOrderRepo struct {
	file *csvFile
}

// NewCSVOrderRepo, dataDir altındaki orders.csv ile çalışan OrderRepository.
func NewCSVOrderRepo(dataDir string) OrderRepository {
	return &csvOrderRepo{file: newCSVFile(dataDir, OrdersFile)}
}

func (r *csvOrderRepo) Create(_ context.Context, order *models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	record := []string{
		order.CreatedAt.UTC().Format(models.TimestampLayout),
		order.OrderID,
		order.Name,
		order.Email,
		order.Phone,
		order.Address,
		order.City,
		order.Pincode,
		order.Total.String(),
		order.PaymentMethod,
		order.PaymentStatus,
		order.RazorpayOrderID,
		order.RazorpayPaymentID,
		string(items),
		order.RazorpaySignature,
	}

	// Tek satır tek Write çağrısıdır; ya tamamı yazılır ya hiçbiri.
	if err := r.file.appendRow(record); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *csvOrderRepo) GetByOrderID(_ context.Context, orderID string) (*models.Order, error) {
	rows, err := r.file.readAll()
	if err != nil {
		return nil, err
	}

	// Aynı id birden fazla varsa (eski dosyalar) en son yazılan geçerlidir.
	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) < orderLegacyColumns || rows[i][1] != orderID {
			continue
		}
		order := parseOrderRow(rows[i])
		return &order, nil
	}

	return nil, fmt.Errorf("%w: order %s", pkg.ErrNotFound, orderID)
}

func (r *csvOrderRepo) List(_ context.Context) ([]models.Order, error) {
	rows, err := r.file.readAll()
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) < orderLegacyColumns {
			continue
		}
		orders = append(orders, parseOrderRow(rows[i]))
	}

	return orders, nil
}

func (r *csvOrderRepo) Exists(_ context.Context, orderID string) (bool, error) {
	rows, err := r.file.readAll()
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		if len(row) >= orderLegacyColumns && row[1] == orderID {
			return true, nil
		}
	}
	return false, nil
}

// parseOrderRow, en az 13 kolonlu bir satırı Order'a çevirir.
// Okunamayan tarih/tutar sıfır değer olarak bırakılır; kayıt yine listelenir.
func parseOrderRow(row []string) models.Order {
	order := models.Order{
		OrderID: row[1],
		Customer: models.Customer{
			Name:    row[2],
			Email:   row[3],
			Phone:   row[4],
			Address: row[5],
			City:    row[6],
			Pincode: row[7],
		},
		PaymentMethod:     row[9],
		PaymentStatus:     row[10],
		RazorpayOrderID:   row[11],
		RazorpayPaymentID: row[12],
		Items:             []models.CartItem{},
	}

	if t, err := time.ParseInLocation(models.TimestampLayout, strings.TrimSpace(row[0]), time.UTC); err == nil {
		order.CreatedAt = t
	}
	if total, err := decimal.NewFromString(strings.TrimSpace(row[8])); err == nil {
		order.Total = total
	}
	if len(row) >= orderItemsColumns && row[13] != "" {
		var items []models.CartItem
		if err := json.Unmarshal([]byte(row[13]), &items); err == nil {
			order.Items = items
		}
	}
	if len(row) >= orderColumns {
		order.RazorpaySignature = row[14]
	}

	return order
}
