package infrastructure

import (
	"context"
	"testing"
	"time"

	"bookhub/internal/pkg/bootstrap"
	"bookhub/internal/pkg/database/dbtest"
	"bookhub/internal/service/notification/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecentNewestFirst(t *testing.T) {
	db := dbtest.Open(t, &NotificationModel{})
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	empty, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&NotificationModel{
			ID:        string(rune('a' + i)),
			Message:   msg,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	list, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Message)
	assert.Equal(t, "first", list[2].Message)
}

func TestSMTPMailerBuildsHTMLMessage(t *testing.T) {
	m, err := NewSMTPMailer(bootstrap.MailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "bot",
		Password: "secret",
		From:     "noreply@bookhub.local",
		FromName: "BookHub",
	})
	require.NoError(t, err)

	msg, err := m.build(&domain.Email{To: "alice@example.com", Subject: "hello", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, msg.GetGenHeader("Subject"))
	to := msg.GetTo()
	require.Len(t, to, 1)
	assert.Equal(t, "alice@example.com", to[0].Address)

	_, err = m.build(&domain.Email{To: "not an address", Subject: "x"})
	assert.Error(t, err)
}
