package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultContactSubject, konu boş bırakıldığında kullanılır.
const DefaultContactSubject = "Contact form"

// ContactMessage, iletişim formundan gelen mesaj. Sadece eklenir, hiç güncellenmez.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageRequest, POST /send-message body'si.
// HoneypotField gizli form alanıdır; gerçek kullanıcılar asla doldurmaz.
type SendMessageRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	HoneypotField string `json:"hp_field"`
}

// IsBot, honeypot alanı doluysa true döner.
func (r *SendMessageRequest) IsBot() bool {
	return strings.TrimSpace(r.HoneypotField) != ""
}

// Validate, name/email/message zorunluluğunu kontrol eder ve boş konuya varsayılan atar.
func (r *SendMessageRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)

	if r.Name == "" || r.Email == "" || r.Message == "" {
		return fmt.Errorf("name, email and message are required")
	}

	if r.Subject == "" {
		r.Subject = DefaultContactSubject
	}

	return nil
}
