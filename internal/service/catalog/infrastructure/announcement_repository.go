package infrastructure

import (
	"context"
	"time"

	"bookhub/internal/service/catalog/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormAnnouncementRepository struct {
	db *gorm.DB
}

func NewGormAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

func (r *GormAnnouncementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	if err := r.db.WithContext(ctx).Create(FromDomainAnnouncement(a)).Error; err != nil {
		return errors.Wrap(err, "failed to create announcement")
	}
	return nil
}

func (r *GormAnnouncementRepository) Save(ctx context.Context, a *domain.Announcement) error {
	res := r.db.WithContext(ctx).Model(&AnnouncementModel{}).Where("id = ?", a.ID).
		Select("message", "start_time", "end_time", "is_active").
		Updates(FromDomainAnnouncement(a))
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update announcement")
	}
	if res.RowsAffected == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *GormAnnouncementRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&AnnouncementModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete announcement")
	}
	if res.RowsAffected == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *GormAnnouncementRepository) FindByID(ctx context.Context, id string) (*domain.Announcement, error) {
	var m AnnouncementModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAnnouncementNotFound
		}
		return nil, errors.Wrap(err, "failed to query announcement")
	}
	return ToDomainAnnouncement(&m), nil
}

func (r *GormAnnouncementRepository) ListAll(ctx context.Context) ([]*domain.Announcement, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *GormAnnouncementRepository) ListLive(ctx context.Context, now time.Time) ([]*domain.Announcement, error) {
	q := r.db.WithContext(ctx).Where("is_active = ? AND start_time <= ? AND end_time >= ?", true, now, now)
	return r.list(ctx, q)
}

func (r *GormAnnouncementRepository) list(_ context.Context, q *gorm.DB) ([]*domain.Announcement, error) {
	var models []AnnouncementModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list announcements")
	}
	out := make([]*domain.Announcement, 0, len(models))
	for i := range models {
		out = append(out, ToDomainAnnouncement(&models[i]))
	}
	return out, nil
}
