package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/masala/database"
	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
)

type sqliteOrderRepo struct {
	db *sql.DB
}

// NewSQLiteOrderRepo, OrderRepository'nin SQLite implementasyonu.
// Transaction açabilmek için *sql.DB alır (TxQuerier yetmez).
func NewSQLiteOrderRepo(db *sql.DB) OrderRepository {
	return &sqliteOrderRepo{db: db}
}

const orderColumnsSQL = `id, order_id, name, email, phone, address, city, pincode, total,
	payment_method, payment_status, razorpay_order_id, razorpay_payment_id, razorpay_signature, created_at`

// Create, orders satırını ve tüm order_items satırlarını tek transaction'da yazar.
// Herhangi bir insert başarısız olursa hiçbir satır kalmaz.
func (r *sqliteOrderRepo) Create(ctx context.Context, order *models.Order) error {
	var id int64

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders (order_id, name, email, phone, address, city, pincode, total,
				payment_method, payment_status, razorpay_order_id, razorpay_payment_id, razorpay_signature, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.OrderID, order.Name, order.Email, order.Phone, order.Address, order.City, order.Pincode,
			order.Total.String(), order.PaymentMethod, order.PaymentStatus,
			order.RazorpayOrderID, order.RazorpayPaymentID, order.RazorpaySignature,
			order.CreatedAt.UTC(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: order %s", pkg.ErrAlreadyExists, order.OrderID)
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get order id: %w", err)
		}

		for i, item := range order.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, position, name, quantity, price, weight, slug, image)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id, i, item.Name, item.Quantity, item.Price.String(), item.Weight, item.Slug, item.Image,
			); err != nil {
				return fmt.Errorf("failed to insert order item %d: %w", i+1, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	order.ID = id
	return nil
}

func (r *sqliteOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumnsSQL+` FROM orders WHERE order_id = ?`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", pkg.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.itemsByOrder(ctx, `WHERE order_id = ?`, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []models.CartItem{}
	}

	return order, nil
}

func (r *sqliteOrderRepo) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumnsSQL+` FROM orders ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	items, err := r.itemsByOrder(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.CartItem{}
		}
	}

	return orders, nil
}

func (r *sqliteOrderRepo) Exists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE order_id = ?)`, orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order existence: %w", err)
	}
	return exists, nil
}

// itemsByOrder, order_items satırlarını orders.id'ye göre gruplar.
func (r *sqliteOrderRepo) itemsByOrder(ctx context.Context, where string, args ...any) (map[int64][]models.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, name, quantity, price, weight, slug, image
		FROM order_items `+where+`
		ORDER BY order_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]models.CartItem)
	for rows.Next() {
		var orderID int64
		var item models.CartItem
		if err := rows.Scan(&orderID, &item.Name, &item.Quantity, &item.Price,
			&item.Weight, &item.Slug, &item.Image); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}

// rowScanner, *sql.Row ve *sql.Rows ortak Scan metodu.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (*models.Order, error) {
	o := &models.Order{}
	err := s.Scan(
		&o.ID, &o.OrderID, &o.Name, &o.Email, &o.Phone, &o.Address, &o.City, &o.Pincode, &o.Total,
		&o.PaymentMethod, &o.PaymentStatus, &o.RazorpayOrderID, &o.RazorpayPaymentID, &o.RazorpaySignature,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}
