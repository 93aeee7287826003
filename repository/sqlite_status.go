package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/masala/database"
	"github.com/akinalp/masala/models"
)

type sqliteStatusRepo struct {
	db database.TxQuerier
}

// NewSQLiteStatusRepo, ShippingStatusRepository'nin SQLite implementasyonu.
func NewSQLiteStatusRepo(db database.TxQuerier) ShippingStatusRepository {
	return &sqliteStatusRepo{db: db}
}

// Upsert, tek statement ile ekler veya günceller; eşzamanlı güncellemelerde
// son yazan kazanır, ara durum oluşmaz.
func (r *sqliteStatusRepo) Upsert(ctx context.Context, orderID string, status models.ShippingStatus) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_status (order_id, status, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(order_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		orderID, string(status), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert shipping status: %w", err)
	}
	return nil
}

func (r *sqliteStatusRepo) GetAll(ctx context.Context) (map[string]models.ShippingStatus, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT order_id, status FROM order_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]models.ShippingStatus)
	for rows.Next() {
		var orderID, status string
		if err := rows.Scan(&orderID, &status); err != nil {
			return nil, fmt.Errorf("failed to scan shipping status: %w", err)
		}
		statuses[orderID] = models.ShippingStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shipping statuses: %w", err)
	}

	return statuses, nil
}
