package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	notificationdomain "bookhub/internal/service/notification/domain"
	"bookhub/internal/service/order/domain"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func TestPublishOrderPlaced(t *testing.T) {
	w := &recordingWriter{}
	a := NewOrderEventKafkaAdapter(w)

	e := &domain.OrderPlaced{
		OrderID:     "o-1",
		Email:       "alice@example.com",
		ClaimCode:   "ABCD1234",
		FinalAmount: decimal.RequireFromString("427.5"),
	}
	require.NoError(t, a.PublishOrderPlaced(context.Background(), e))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o-1", string(w.msgs[0].Key))

	var got domain.OrderPlaced
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "ABCD1234", got.ClaimCode)
	assert.True(t, got.FinalAmount.Equal(e.FinalAmount))

	w.err = errors.New("broker down")
	assert.Error(t, a.PublishOrderPlaced(context.Background(), e))
}

type capturePublisher struct {
	got *notificationdomain.Notification
}

func (p *capturePublisher) Publish(_ context.Context, n *notificationdomain.Notification) error {
	p.got = n
	return nil
}

func TestNoticeBroadcastAdapter(t *testing.T) {
	p := &capturePublisher{}
	now := time.Now()
	require.NoError(t, NewNoticeBroadcastAdapter(p).Broadcast(context.Background(), &domain.Notice{ID: "n1", Message: "hi", CreatedAt: now}))
	require.NotNil(t, p.got)
	assert.Equal(t, "hi", p.got.Message)
	assert.Equal(t, now, p.got.CreatedAt)
}
