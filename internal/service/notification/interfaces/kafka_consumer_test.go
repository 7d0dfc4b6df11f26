package interfaces

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookhub/internal/pkg/mq"
	"bookhub/internal/service/notification/application"
	"bookhub/internal/service/notification/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// chanReader 按顺序吐出预置消息，取完后阻塞到 ctx 结束。
type chanReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newChanReader(msgs ...kafka.Message) *chanReader {
	ch := make(chan kafka.Message, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	return &chanReader{msgs: ch}
}

func (r *chanReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *chanReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *chanReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*domain.Email
	fail map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, e *domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[e.To] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, e)
	return nil
}

func message(offset int64, value string) kafka.Message {
	return kafka.Message{Topic: "order-emails", Offset: offset, Key: []byte("k"), Value: []byte(value)}
}

func TestEmailConsumerSendsAndDeadLetters(t *testing.T) {
	reader := newChanReader(
		message(1, `{"orderId":"o-1","email":"alice@example.com","userName":"alice","claimCode":"AAAA1111","finalAmount":"270","discountRate":"0"}`),
		message(2, `not json`),
		message(3, `{"orderId":"o-3","email":"bounce@example.com","userName":"bob","claimCode":"BBBB2222","finalAmount":"90","discountRate":"0"}`),
	)
	dlt := &recordingWriter{}
	mailer := &fakeMailer{fail: map[string]bool{"bounce@example.com": true}}
	tracer := noop.NewTracerProvider().Tracer("test")

	adapter := NewEmailConsumerAdapter(reader, application.NewEmailService(mailer, tracer), dlt, tracer)
	adapter.Start(context.Background())
	require.Eventually(t, func() bool { return len(reader.commits()) == 3 }, 2*time.Second, 10*time.Millisecond)
	adapter.Stop(context.Background())

	assert.Equal(t, []int64{1, 2, 3}, reader.commits())
	assert.True(t, reader.closed)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].HTML, "AAAA1111")

	require.Len(t, dlt.msgs, 2)
	assert.Equal(t, "2", mq.HeaderMap(dlt.msgs[0].Headers)[mq.HeaderOriginalOffset])
	assert.Equal(t, "mailbox unavailable", mq.HeaderMap(dlt.msgs[1].Headers)[mq.HeaderExceptionMessage])
}

func TestDltConsumerCommitsEverything(t *testing.T) {
	reader := newChanReader(message(7, "a"), message(8, "b"))
	adapter := NewDltConsumerAdapter(reader)
	adapter.Start(context.Background())
	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, 2*time.Second, 10*time.Millisecond)
	adapter.Stop(context.Background())
	assert.Equal(t, []int64{7, 8}, reader.commits())
}
