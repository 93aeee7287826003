package services

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/pkg/email"
	"github.com/akinalp/masala/repository"
	"github.com/akinalp/masala/ws"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactService, iletişim formu mesajlarını kaydeder ve işletmeye iletir.
// Rate limit ve honeypot kontrolleri HTTP katmanındadır.
type ContactService interface {
	// Submit, mesajı önce kaydeder, sonra email gönderir. Email başarısız olursa
	// kayıt silinmez ve ErrUpstream döner.
	Submit(ctx context.Context, req *models.SendMessageRequest) (*models.ContactMessage, error)
	List(ctx context.Context) ([]models.ContactMessage, error)
}

type contactService struct {
	messages repository.ContactRepository
	mailer   email.EmailSender
	events   ws.EventPublisher
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewContactService, constructor.
func NewContactService(messages repository.ContactRepository, mailer email.EmailSender, events ws.EventPublisher, log *zap.SugaredLogger) ContactService {
	if events == nil {
		events = ws.NopPublisher()
	}
	return &contactService{
		messages: messages,
		mailer:   mailer,
		events:   events,
		log:      log.Named("contact"),
		now:      time.Now,
	}
}

func (s *contactService) Submit(ctx context.Context, req *models.SendMessageRequest) (*models.ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	msg := &models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.events.BroadcastToAll(ws.Event{Op: ws.OpContactCreate, Data: msg})

	if err := s.mailer.SendContactNotification(ctx, msg); err != nil {
		s.log.Warnw("contact notification failed", "id", msg.ID, "error", err)
		return msg, fmt.Errorf("%w: %v", pkg.ErrUpstream, err)
	}

	s.log.Infow("contact message received", "id", msg.ID, "subject", msg.Subject)
	return msg, nil
}

func (s *contactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	msgs, err := s.messages.List(ctx)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	return msgs, nil
}
