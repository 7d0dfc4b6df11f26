package application

import (
	"context"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/notification/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// NotificationService 提供购买动态的查询。
type NotificationService struct {
	repo   domain.Repository
	tracer trace.Tracer
}

func NewNotificationService(repo domain.Repository, tracer trace.Tracer) *NotificationService {
	return &NotificationService{repo: repo, tracer: tracer}
}

func (s *NotificationService) List(ctx context.Context) ([]*domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "app.FetchNotifications")
	defer span.End()

	list, err := s.repo.ListRecent(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Ctx(ctx).Error().Err(err).Msg("failed to list notifications")
		return nil, err
	}
	span.SetAttributes(attribute.Int("notification.count", len(list)))
	return list, nil
}
