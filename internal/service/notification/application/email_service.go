package application

import (
	"context"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/notification/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EmailService 为每个下单事件发送确认邮件。
type EmailService struct {
	mailer domain.Mailer
	tracer trace.Tracer
}

func NewEmailService(mailer domain.Mailer, tracer trace.Tracer) *EmailService {
	return &EmailService{mailer: mailer, tracer: tracer}
}

func (s *EmailService) SendOrderConfirmation(ctx context.Context, c *domain.OrderConfirmation) error {
	ctx, span := s.tracer.Start(ctx, "app.SendOrderConfirmation")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", c.OrderID), attribute.String("user.id", c.UserID))

	email, err := RenderConfirmation(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", c.OrderID).Msg("skipping order confirmation")
		return err
	}
	if err := s.mailer.Send(ctx, email); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Ctx(ctx).Error().Err(err).Str("order_id", c.OrderID).Msg("failed to send order confirmation")
		return err
	}
	span.AddEvent("confirmation email sent")
	logger.Ctx(ctx).Info().Str("order_id", c.OrderID).Str("to", c.Email).Msg("order confirmation sent")
	return nil
}
