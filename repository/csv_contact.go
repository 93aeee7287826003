package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akinalp/masala/models"
)

// contact_logs.csv kolonları: created_at, name, email, phone, subject, message, id.
// id kolonu eski satırlarda yoktur.
const (
	ContactFile = "contact_logs.csv"

	contactLegacyColumns = 6
)

type csvContactRepo struct {
	file *csvFile
}

// NewCSVContactRepo, dataDir altındaki contact_logs.csv ile çalışan ContactRepository.
func NewCSVContactRepo(dataDir string) ContactRepository {
	return &csvContactRepo{file: newCSVFile(dataDir, ContactFile)}
}

func (r *csvContactRepo) Create(_ context.Context, msg *models.ContactMessage) error {
	record := []string{
		msg.CreatedAt.UTC().Format(models.TimestampLayout),
		msg.Name,
		msg.Email,
		msg.Phone,
		msg.Subject,
		msg.Message,
		msg.ID,
	}

	if err := r.file.appendRow(record); err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *csvContactRepo) List(_ context.Context) ([]models.ContactMessage, error) {
	rows, err := r.file.readAll()
	if err != nil {
		return nil, err
	}

	msgs := make([]models.ContactMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < contactLegacyColumns {
			continue
		}

		msg := models.ContactMessage{
			Name:    row[1],
			Email:   row[2],
			Phone:   row[3],
			Subject: row[4],
			Message: row[5],
		}
		if len(row) > contactLegacyColumns {
			msg.ID = row[6]
		}
		if t, err := time.ParseInLocation(models.TimestampLayout, strings.TrimSpace(row[0]), time.UTC); err == nil {
			msg.CreatedAt = t
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}
