package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/resend/resend-go/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmails struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeEmails) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("send called without deadline")
	}
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func testOrder() *models.Order {
	return &models.Order{
		OrderID:  "ORD00000042",
		Customer: models.Customer{Name: "<b>Asha</b>", Email: "asha@example.com", Phone: "99", Address: "MG Road", City: "Ujjain", Pincode: "456001"},
		Items: []models.CartItem{
			{Name: "Garam Masala", Quantity: 2, Price: decimal.NewFromInt(120), Weight: "100g"},
		},
		Total:         decimal.NewFromInt(240),
		PaymentMethod: "cod",
		PaymentStatus: "pending",
		CreatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newTestSender(f *fakeEmails) *resendSender {
	return newResendSender(f, Options{
		FromEmail:     "orders@example.com",
		FromName:      "Mehta Masala Website",
		BusinessEmail: "owner@example.com",
		Timeout:       time.Second,
	})
}

func TestSendOrderConfirmation(t *testing.T) {
	f := &fakeEmails{}
	s := newTestSender(f)

	require.NoError(t, s.SendOrderConfirmation(context.Background(), testOrder()))
	require.Len(t, f.sent, 1)

	req := f.sent[0]
	assert.Equal(t, "Mehta Masala Website <orders@example.com>", req.From)
	assert.Equal(t, []string{"asha@example.com", "owner@example.com"}, req.To)
	assert.Equal(t, "Order Confirmation – ORD00000042", req.Subject)
	assert.Contains(t, req.Html, "Garam Masala")
	assert.Contains(t, req.Html, "₹240")
	assert.Contains(t, req.Html, "&lt;b&gt;Asha&lt;/b&gt;", "customer input must be escaped")
	require.Len(t, req.Attachments, 1)
	assert.Equal(t, "order_ORD00000042.csv", req.Attachments[0].Filename)
	assert.Equal(t, "text/csv", req.Attachments[0].ContentType)
	assert.Contains(t, string(req.Attachments[0].Content), "ORD00000042")
}

func TestSendOrderConfirmation_NoCustomerEmail(t *testing.T) {
	f := &fakeEmails{}
	s := newTestSender(f)

	o := testOrder()
	o.Email = ""
	require.NoError(t, s.SendOrderConfirmation(context.Background(), o))
	assert.Equal(t, []string{"owner@example.com"}, f.sent[0].To)
}

func TestSendOrderConfirmation_APIErrorIsSurfaced(t *testing.T) {
	f := &fakeEmails{err: errors.New("422 validation_error")}
	s := newTestSender(f)

	err := s.SendOrderConfirmation(context.Background(), testOrder())
	assert.ErrorContains(t, err, "422 validation_error")
}

func TestSendContactNotification(t *testing.T) {
	f := &fakeEmails{}
	s := newTestSender(f)

	msg := &models.ContactMessage{Name: "Ravi", Email: "ravi@example.com", Subject: "Bulk order", Message: "Need 10kg"}
	require.NoError(t, s.SendContactNotification(context.Background(), msg))

	req := f.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, req.To)
	assert.Equal(t, "New Contact – Bulk order", req.Subject)
	assert.Equal(t, "ravi@example.com", req.ReplyTo)
	assert.Contains(t, req.Html, "Need 10kg")
	assert.Empty(t, req.Attachments)
}

func TestDisabledSender(t *testing.T) {
	s := NewDisabledSender()
	assert.ErrorIs(t, s.SendOrderConfirmation(context.Background(), testOrder()), ErrEmailDisabled)
	assert.ErrorIs(t, s.SendContactNotification(context.Background(), &models.ContactMessage{}), ErrEmailDisabled)
}
