//go:build integration

package infrastructure

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bookhub/internal/pkg/redis"
	"bookhub/internal/service/notification/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisPublisherFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := redis.NewClient(fmt.Sprintf("%s:%s", host, port.Port()), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	pub := NewRedisPublisher(client)
	received := make(chan *domain.Notification, 1)
	go func() {
		_ = pub.Subscribe(ctx, func(_ context.Context, n *domain.Notification) { received <- n })
	}()

	// 订阅建立前发布的消息会丢失，循环发布直到收到
	want := &domain.Notification{ID: "n-1", Message: "alice purchased 2 book(s): Dune", CreatedAt: time.Now().UTC()}
	deadline := time.After(10 * time.Second)
	for {
		require.NoError(t, pub.Publish(ctx, want))
		select {
		case got := <-received:
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Message, got.Message)
			return
		case <-time.After(200 * time.Millisecond):
		case <-deadline:
			t.Fatal("notification was not delivered")
		}
	}
}
