package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akinalp/masala/database"
	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
)

type sqliteAdminRepo struct {
	db database.TxQuerier
}

// NewSQLiteAdminRepo, AdminRepository'nin SQLite implementasyonu.
func NewSQLiteAdminRepo(db database.TxQuerier) AdminRepository {
	return &sqliteAdminRepo{db: db}
}

func (r *sqliteAdminRepo) Create(ctx context.Context, user *models.AdminUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: admin %s", pkg.ErrAlreadyExists, user.Email)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *sqliteAdminRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM admin_users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return user, nil
}

func (r *sqliteAdminRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// isUniqueViolation, SQLite UNIQUE constraint hatasını kontrol eder.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
