package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookhub/internal/service/notification/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingMailer struct {
	sent []*domain.Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, e *domain.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

type staticRepo []*domain.Notification

func (r staticRepo) ListRecent(context.Context) ([]*domain.Notification, error) { return r, nil }

func confirmation() *domain.OrderConfirmation {
	return &domain.OrderConfirmation{
		OrderID:      "order-1",
		UserID:       "user-1",
		Email:        "alice@example.com",
		UserName:     "alice <admin>",
		ClaimCode:    "AB12CD34",
		FinalAmount:  decimal.RequireFromString("427.5"),
		DiscountRate: decimal.RequireFromString("0.05"),
		Items: []domain.ConfirmationItem{
			{Title: "Dune", Quantity: 5, PricePerUnit: decimal.NewFromInt(90)},
		},
		PlacedAt: time.Now(),
	}
}

func TestRenderConfirmation(t *testing.T) {
	email, err := RenderConfirmation(confirmation())
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", email.To)
	assert.Equal(t, confirmationSubject, email.Subject)
	assert.Contains(t, email.HTML, "AB12CD34")
	assert.Contains(t, email.HTML, "427.50")
	assert.Contains(t, email.HTML, "Discount applied: 5%")
	assert.Contains(t, email.HTML, "Dune")
	// 用户名被转义
	assert.Contains(t, email.HTML, "alice &lt;admin&gt;")
}

func TestRenderConfirmationWithoutDiscount(t *testing.T) {
	c := confirmation()
	c.DiscountRate = decimal.Zero
	email, err := RenderConfirmation(c)
	require.NoError(t, err)
	assert.NotContains(t, email.HTML, "Discount applied")
}

func TestRenderConfirmationRejectsIncompleteEvent(t *testing.T) {
	c := confirmation()
	c.Email = ""
	_, err := RenderConfirmation(c)
	assert.ErrorIs(t, err, domain.ErrInvalidConfirmation)
}

func TestSendOrderConfirmation(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")

	mailer := &recordingMailer{}
	svc := NewEmailService(mailer, tracer)
	require.NoError(t, svc.SendOrderConfirmation(context.Background(), confirmation()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].To)

	failing := NewEmailService(&recordingMailer{err: errors.New("smtp down")}, tracer)
	assert.EqualError(t, failing.SendOrderConfirmation(context.Background(), confirmation()), "smtp down")
}

func TestListNotifications(t *testing.T) {
	svc := NewNotificationService(staticRepo{{ID: "n1", Message: "hello"}}, noop.NewTracerProvider().Tracer("test"))
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Message)
}
