// Package repository, kalıcı veri erişim katmanını tanımlar.
//
// Service katmanı doğrudan dosya veya SQL ile çalışmaz; buradaki interface'lere
// bağımlıdır. Her interface'in iki implementasyonu var:
//   - csv_*.go: düz CSV dosyaları (varsayılan, tek process)
//   - sqlite_*.go: SQLite üzerinde ilişkisel şema
//
// Hangisinin kullanılacağı STORAGE_DRIVER ile seçilir, ikisi birlikte çalışmaz.
package repository

import (
	"context"

	"github.com/akinalp/masala/models"
)

// OrderRepository, sipariş kayıtları. Siparişler sadece eklenir, güncellenmez.
type OrderRepository interface {
	// Create, siparişi kalemleriyle birlikte atomik olarak yazar.
	Create(ctx context.Context, order *models.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	// List, tüm siparişleri en yeniden eskiye döner. ShippingStatus doldurulmaz.
	List(ctx context.Context) ([]models.Order, error)
	// Exists, order id üreticisinin çakışma kontrolü için kullanılır.
	Exists(ctx context.Context, orderID string) (bool, error)
}

// ShippingStatusRepository, order_id → kargo durumu eşlemesi.
// Kaydı olmayan sipariş Pending kabul edilir (bu varsayılanı service uygular).
type ShippingStatusRepository interface {
	Upsert(ctx context.Context, orderID string, status models.ShippingStatus) error
	GetAll(ctx context.Context) (map[string]models.ShippingStatus, error)
}

// ContactRepository, iletişim formu mesajları (append-only).
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context) ([]models.ContactMessage, error)
}

// AdminRepository, admin paneli kullanıcıları.
type AdminRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Count(ctx context.Context) (int, error)
}
