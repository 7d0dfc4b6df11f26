package infrastructure

import (
	"context"

	"bookhub/internal/service/notification/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) ListRecent(ctx context.Context) ([]*domain.Notification, error) {
	var models []NotificationModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}
	out := make([]*domain.Notification, 0, len(models))
	for i := range models {
		out = append(out, &domain.Notification{
			ID:        models[i].ID,
			Message:   models[i].Message,
			CreatedAt: models[i].CreatedAt,
		})
	}
	return out, nil
}
