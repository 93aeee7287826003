// Package email, transactional email gönderimi için soyutlama katmanı sağlar.
//
// Service'ler EmailSender interface'ine bağımlıdır; şu anki implementasyon
// Resend API kullanır. Resend yapılandırılmamışsa NewDisabledSender her çağrıda
// ErrEmailDisabled döner; checkout yine de kaydedilir, sadece bildirim gitmez.
package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg/receipt"
	"github.com/resend/resend-go/v3"
	"github.com/sony/gobreaker/v2"
)

// ErrEmailDisabled, Resend ayarları eksikken dönen hata.
var ErrEmailDisabled = errors.New("email sending is not configured")

// EmailSender, email gönderimi için interface.
type EmailSender interface {
	// SendOrderConfirmation, müşteriye (email varsa) ve işletmeye sipariş onayı
	// gönderir; siparişin CSV özeti eklenti olarak gider.
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	// SendContactNotification, iletişim formu mesajını işletme adresine iletir.
	SendContactNotification(ctx context.Context, msg *models.ContactMessage) error
}

// emailsAPI, resend.Client.Emails'in kullandığımız alt kümesi, testte fake'lenir.
type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Options, Resend sender ayarları.
type Options struct {
	FromEmail     string        // Resend'de doğrulanmış domain altında olmalı
	FromName      string        // Gönderen görünen adı (ör: "Mehta Masala Website")
	BusinessEmail string        // Her sipariş ve mesajın kopyasının gittiği adres
	Timeout       time.Duration // Her gönderim için üst süre sınırı
}

// resendSender, Resend API ile email gönderen EmailSender implementasyonu.
type resendSender struct {
	emails  emailsAPI
	opts    Options
	breaker *gobreaker.CircuitBreaker[*resend.SendEmailResponse]
}

// NewResendSender, Resend API client'ı ile yeni bir EmailSender oluşturur.
func NewResendSender(apiKey string, opts Options) EmailSender {
	return newResendSender(resend.NewClient(apiKey).Emails, opts)
}

func newResendSender(emails emailsAPI, opts Options) *resendSender {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &resendSender{
		emails: emails,
		opts:   opts,
		breaker: gobreaker.NewCircuitBreaker[*resend.SendEmailResponse](gobreaker.Settings{
			Name:    "resend",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

// SendOrderConfirmation, EmailSender implementasyonu.
func (s *resendSender) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	html, err := renderOrderConfirmation(order)
	if err != nil {
		return err
	}

	attachment, err := receipt.OrderCSV(order)
	if err != nil {
		return err
	}

	to := make([]string, 0, 2)
	if order.Email != "" {
		to = append(to, order.Email)
	}
	if s.opts.BusinessEmail != "" && s.opts.BusinessEmail != order.Email {
		to = append(to, s.opts.BusinessEmail)
	}

	return s.send(ctx, &resend.SendEmailRequest{
		From:    s.from(),
		To:      to,
		Subject: fmt.Sprintf("Order Confirmation – %s", order.OrderID),
		Html:    html,
		Attachments: []*resend.Attachment{{
			Content:     attachment,
			Filename:    receipt.Filename(order.OrderID),
			ContentType: receipt.ContentType,
		}},
	})
}

// SendContactNotification, EmailSender implementasyonu.
func (s *resendSender) SendContactNotification(ctx context.Context, msg *models.ContactMessage) error {
	html, err := renderContactNotification(msg)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.from(),
		To:      []string{s.opts.BusinessEmail},
		Subject: fmt.Sprintf("New Contact – %s", msg.Subject),
		Html:    html,
	}
	if msg.Email != "" {
		params.ReplyTo = msg.Email
	}

	return s.send(ctx, params)
}

// send, isteği timeout ve circuit breaker altında gönderir. Retry yapılmaz.
func (s *resendSender) send(ctx context.Context, params *resend.SendEmailRequest) error {
	if len(params.To) == 0 {
		return fmt.Errorf("no recipients for %q", params.Subject)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	_, err := s.breaker.Execute(func() (*resend.SendEmailResponse, error) {
		return s.emails.SendWithContext(ctx, params)
	})
	if err != nil {
		return fmt.Errorf("failed to send %q: %w", params.Subject, err)
	}

	return nil
}

func (s *resendSender) from() string {
	if s.opts.FromName == "" {
		return s.opts.FromEmail
	}
	return fmt.Sprintf("%s <%s>", s.opts.FromName, s.opts.FromEmail)
}

// disabledSender, Resend yapılandırılmamışken kullanılan EmailSender.
type disabledSender struct{}

// NewDisabledSender, her çağrıda ErrEmailDisabled dönen sender.
func NewDisabledSender() EmailSender {
	return disabledSender{}
}

func (disabledSender) SendOrderConfirmation(context.Context, *models.Order) error {
	return ErrEmailDisabled
}

func (disabledSender) SendContactNotification(context.Context, *models.ContactMessage) error {
	return ErrEmailDisabled
}
