package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminUser, admin paneline giriş yapabilen kullanıcı.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // json:"-" → API response'a DAHİL ETME
	CreatedAt    time.Time `json:"created_at"`
}

// AdminClaims, /admin/login'in verdiği JWT'nin payload'ı.
type AdminClaims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// AdminLoginRequest, POST /admin/login body'si.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, email ve şifrenin boş olmadığını kontrol eder.
func (r *AdminLoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

// ResendConfirmationRequest, POST /admin/resend-confirmation body'si.
type ResendConfirmationRequest struct {
	Key     string `json:"key"`
	OrderID string `json:"order_id"`
}
