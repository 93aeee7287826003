package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/masala/database"
	"github.com/akinalp/masala/models"
)

type sqliteContactRepo struct {
	db database.TxQuerier
}

// NewSQLiteContactRepo, ContactRepository'nin SQLite implementasyonu.
func NewSQLiteContactRepo(db database.TxQuerier) ContactRepository {
	return &sqliteContactRepo{db: db}
}

func (r *sqliteContactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, subject, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *sqliteContactRepo) List(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ContactMessage
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
	}

	return msgs, nil
}
