package domain

import (
	"strings"
	"time"

	"bookhub/internal/pkg/validation"

	"github.com/google/uuid"
)

type Announcement struct {
	ID        string
	Message   string
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
	CreatedAt time.Time
}

// AnnouncementInput 是新增和修改公告共用的输入。
type AnnouncementInput struct {
	Message   string
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
}

func (in *AnnouncementInput) validate() error {
	if strings.TrimSpace(in.Message) == "" {
		return validation.New("message is required")
	}
	if !in.StartTime.Before(in.EndTime) {
		return validation.New("Start time must be before end time.")
	}
	return nil
}

func NewAnnouncement(in AnnouncementInput) (*Announcement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return &Announcement{
		ID:        uuid.NewString(),
		Message:   in.Message,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		IsActive:  in.IsActive,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (a *Announcement) Update(in AnnouncementInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	a.Message = in.Message
	a.StartTime = in.StartTime.UTC()
	a.EndTime = in.EndTime.UTC()
	a.IsActive = in.IsActive
	return nil
}

// LiveAt 只有激活且 now 落在 [StartTime, EndTime] 内时才对用户可见。
func (a *Announcement) LiveAt(now time.Time) bool {
	return a.IsActive && !now.Before(a.StartTime) && !now.After(a.EndTime)
}
