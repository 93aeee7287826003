package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/masala/models"
)

// StatusFile, order_id,status satırlarından oluşan kargo durumu dosyası.
const StatusFile = "order_status.csv"

type csvStatusRepo struct {
	file *csvFile
}

// NewCSVStatusRepo, dataDir altındaki order_status.csv ile çalışan ShippingStatusRepository.
func NewCSVStatusRepo(dataDir string) ShippingStatusRepository {
	return &csvStatusRepo{file: newCSVFile(dataDir, StatusFile)}
}

// Upsert, tüm dosyayı tek kilit altında okuyup yeniden yazar. Eşzamanlı iki
// güncelleme birbirinin yazdığını ezmez. Mevcut satırların sırası korunur.
func (r *csvStatusRepo) Upsert(_ context.Context, orderID string, status models.ShippingStatus) error {
	err := r.file.update(func(rows [][]string) [][]string {
		out := make([][]string, 0, len(rows)+1)
		found := false
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			if row[0] == orderID {
				if found {
					continue
				}
				found = true
				out = append(out, []string{orderID, string(status)})
				continue
			}
			out = append(out, row[:2])
		}
		if !found {
			out = append(out, []string{orderID, string(status)})
		}
		return out
	})
	if err != nil {
		return fmt.Errorf("failed to update shipping status: %w", err)
	}
	return nil
}

func (r *csvStatusRepo) GetAll(_ context.Context) (map[string]models.ShippingStatus, error) {
	rows, err := r.file.readAll()
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]models.ShippingStatus, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		statuses[row[0]] = models.ShippingStatus(row[1])
	}
	return statuses, nil
}
