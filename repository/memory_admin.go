package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
)

// memoryAdminRepo, CSV driver'ında kullanılan process içi AdminRepository.
// Kayıtlar kalıcı değildir; her başlangıçta ADMIN_EMAIL/ADMIN_PASSWORD ile yeniden oluşturulur.
type memoryAdminRepo struct {
	mu      sync.RWMutex
	byEmail map[string]models.AdminUser
}

// NewMemoryAdminRepo, boş bir in-memory AdminRepository döner.
func NewMemoryAdminRepo() AdminRepository {
	return &memoryAdminRepo{byEmail: make(map[string]models.AdminUser)}
}

func (r *memoryAdminRepo) Create(_ context.Context, user *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return fmt.Errorf("%w: admin %s", pkg.ErrAlreadyExists, user.Email)
	}
	r.byEmail[user.Email] = *user
	return nil
}

func (r *memoryAdminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return &user, nil
}

func (r *memoryAdminRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail), nil
}
