package application

import (
	"context"
	"time"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/catalog/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AnnouncementService 管理站点公告。
type AnnouncementService struct {
	announcements domain.AnnouncementRepository
	tracer        trace.Tracer
	now           func() time.Time
}

func NewAnnouncementService(repo domain.AnnouncementRepository, tracer trace.Tracer) *AnnouncementService {
	return &AnnouncementService{announcements: repo, tracer: tracer, now: time.Now}
}

func (s *AnnouncementService) Add(ctx context.Context, req *AnnouncementRequest) (*AnnouncementDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.AddAnnouncement")
	defer span.End()

	a, err := domain.NewAnnouncement(toInput(req))
	if err != nil {
		return nil, err
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("announcement.id", a.ID))
	logger.Ctx(ctx).Info().Str("announcement_id", a.ID).Msg("announcement created")
	dto := toAnnouncementDTO(a)
	return &dto, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id string, req *AnnouncementRequest) (*AnnouncementDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateAnnouncement")
	defer span.End()
	span.SetAttributes(attribute.String("announcement.id", id))

	in := toInput(req)
	a, err := s.announcements.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Update(in); err != nil {
		return nil, err
	}
	if err := s.announcements.Save(ctx, a); err != nil {
		span.RecordError(err)
		return nil, err
	}
	dto := toAnnouncementDTO(a)
	return &dto, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "app.DeleteAnnouncement")
	defer span.End()

	if err := s.announcements.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// ListAll 供管理员查看全部公告，最新的在前。
func (s *AnnouncementService) ListAll(ctx context.Context) ([]AnnouncementDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListAnnouncements")
	defer span.End()

	list, err := s.announcements.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return toAnnouncementDTOs(list), nil
}

// ListLive 只返回已激活且当前处于展示窗口内的公告。
func (s *AnnouncementService) ListLive(ctx context.Context) ([]AnnouncementDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListLiveAnnouncements")
	defer span.End()

	now := s.now().UTC()
	list, err := s.announcements.ListLive(ctx, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	live := list[:0]
	for _, a := range list {
		if a.LiveAt(now) {
			live = append(live, a)
		}
	}
	out := toAnnouncementDTOs(live)
	for i := range out {
		out[i].AnnouncementID = ""
	}
	return out, nil
}

func toInput(req *AnnouncementRequest) domain.AnnouncementInput {
	return domain.AnnouncementInput{
		Message:   req.Message,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  req.IsActive,
	}
}

func toAnnouncementDTOs(list []*domain.Announcement) []AnnouncementDTO {
	out := make([]AnnouncementDTO, 0, len(list))
	for _, a := range list {
		out = append(out, toAnnouncementDTO(a))
	}
	return out
}
