package adapter

import (
	"context"
	"encoding/json"

	"bookhub/internal/pkg/mq"
	"bookhub/internal/service/order/domain"

	"github.com/pkg/errors"
)

// OrderEventKafkaAdapter 实现 domain.OrderEventPublisher，把 OrderPlaced 写入邮件主题。
type OrderEventKafkaAdapter struct {
	writer mq.MessageWriter
}

func NewOrderEventKafkaAdapter(writer mq.MessageWriter) *OrderEventKafkaAdapter {
	return &OrderEventKafkaAdapter{writer: writer}
}

// PublishOrderPlaced 以订单号为 key，同一订单的消息落在同一分区。
func (a *OrderEventKafkaAdapter) PublishOrderPlaced(ctx context.Context, e *domain.OrderPlaced) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "failed to marshal order placed event")
	}
	if err := mq.ProduceMessage(ctx, a.writer, []byte(e.OrderID), payload); err != nil {
		return errors.Wrap(err, "failed to produce order placed event")
	}
	return nil
}
