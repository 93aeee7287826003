package main

import (
	"fmt"

	"github.com/akinalp/masala/config"
	"github.com/akinalp/masala/database"
	"github.com/akinalp/masala/repository"
	"go.uber.org/zap"
)

// Repositories, seçilen storage driver'ına göre oluşturulan repository'ler.
type Repositories struct {
	Orders   repository.OrderRepository
	Statuses repository.ShippingStatusRepository
	Contacts repository.ContactRepository
	Admins   repository.AdminRepository

	// db sadece sqlite driver'ında doludur.
	db *database.DB
}

// initRepositories, STORAGE_DRIVER'a göre CSV veya SQLite repository'lerini kurar.
// İki varyant birbirini dışlar; aynı process'te ikisi birden çalışmaz.
func initRepositories(cfg *config.StorageConfig, log *zap.SugaredLogger) (*Repositories, error) {
	switch cfg.Driver {
	case config.StorageCSV:
		log.Infow("using csv storage", "dir", cfg.DataDir)
		return &Repositories{
			Orders:   repository.NewCSVOrderRepo(cfg.DataDir),
			Statuses: repository.NewCSVStatusRepo(cfg.DataDir),
			Contacts: repository.NewCSVContactRepo(cfg.DataDir),
			Admins:   repository.NewMemoryAdminRepo(),
		}, nil

	case config.StorageSQLite:
		db, err := database.New(cfg.DatabasePath, database.Migrations(), log)
		if err != nil {
			return nil, err
		}
		log.Infow("using sqlite storage", "path", cfg.DatabasePath)
		return &Repositories{
			Orders:   repository.NewSQLiteOrderRepo(db.Conn),
			Statuses: repository.NewSQLiteStatusRepo(db.Conn),
			Contacts: repository.NewSQLiteContactRepo(db.Conn),
			Admins:   repository.NewSQLiteAdminRepo(db.Conn),
			db:       db,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Close, açık veritabanı bağlantısını kapatır.
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
