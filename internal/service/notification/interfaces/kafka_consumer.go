package interfaces

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/mq"
	"bookhub/internal/service/notification/application"
	"bookhub/internal/service/notification/domain"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const fetchRetryDelay = time.Second

// consumerLoop 是 Kafka 驱动适配器共用的拉取-处理-提交循环。
type consumerLoop struct {
	name   string
	reader mq.MessageReader
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func (l *consumerLoop) start(ctx context.Context, handle func(context.Context, kafka.Message)) {
	ctx, l.cancel = context.WithCancel(ctx)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		logger.Ctx(ctx).Info().Str("consumer", l.name).Msg("kafka consumer started")
		for {
			msg, err := l.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Ctx(ctx).Info().Str("consumer", l.name).Msg("kafka consumer shutting down")
					return
				}
				logger.Ctx(ctx).Error().Err(err).Str("consumer", l.name).Msg("could not fetch message, retrying")
				select {
				case <-ctx.Done():
					return
				case <-time.After(fetchRetryDelay):
				}
				continue
			}

			handle(ctx, msg)

			if err := l.reader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Error().Err(err).Str("consumer", l.name).Msg("failed to commit message")
			}
		}
	}()
}

func (l *consumerLoop) stop(ctx context.Context) {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
	if err := l.reader.Close(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("consumer", l.name).Msg("failed to close reader")
	}
	logger.Ctx(ctx).Info().Str("consumer", l.name).Msg("kafka consumer stopped")
}

// EmailConsumerAdapter 消费 OrderPlaced 事件并发送确认邮件。
// 处理失败的消息转发到死信主题，原消息照常提交。
type EmailConsumerAdapter struct {
	loop   consumerLoop
	emails *application.EmailService
	dlt    mq.MessageWriter
	tracer trace.Tracer
}

func NewEmailConsumerAdapter(reader mq.MessageReader, emails *application.EmailService, dlt mq.MessageWriter, tracer trace.Tracer) *EmailConsumerAdapter {
	return &EmailConsumerAdapter{
		loop:   consumerLoop{name: "order-emails", reader: reader},
		emails: emails,
		dlt:    dlt,
		tracer: tracer,
	}
}

func (a *EmailConsumerAdapter) Start(ctx context.Context) {
	a.loop.start(ctx, a.processMessage)
}

func (a *EmailConsumerAdapter) Stop(ctx context.Context) {
	a.loop.stop(ctx)
}

func (a *EmailConsumerAdapter) processMessage(parent context.Context, msg kafka.Message) {
	ctx := mq.ExtractTraceContext(parent, msg.Headers)
	ctx, span := a.tracer.Start(ctx, "notification-worker.ProcessOrderEmail",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
			attribute.String("messaging.kafka.message.key", string(msg.Key)),
		),
	)
	defer span.End()

	var event domain.OrderConfirmation
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		err = errors.Wrap(err, "failed to unmarshal order confirmation")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.deadLetter(ctx, msg, err)
		return
	}
	span.SetAttributes(attribute.String("order.id", event.OrderID))

	if err := a.emails.SendOrderConfirmation(ctx, &event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.deadLetter(ctx, msg, err)
	}
}

func (a *EmailConsumerAdapter) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	if a.dlt == nil {
		logger.Ctx(ctx).Error().Err(cause).Int64("offset", msg.Offset).Msg("dropping failed order email")
		return
	}
	if err := mq.SendToDLT(ctx, a.dlt, msg, cause); err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("offset", msg.Offset).Msg("failed to forward message to DLT")
		return
	}
	logger.Ctx(ctx).Warn().Err(cause).Int64("offset", msg.Offset).Msg("order email moved to DLT")
}

// DltConsumerAdapter 监听死信队列并记录日志
type DltConsumerAdapter struct {
	loop consumerLoop
}

func NewDltConsumerAdapter(reader mq.MessageReader) *DltConsumerAdapter {
	return &DltConsumerAdapter{loop: consumerLoop{name: "order-emails-dlt", reader: reader}}
}

func (a *DltConsumerAdapter) Start(ctx context.Context) {
	a.loop.start(ctx, logDeadLetter)
}

func (a *DltConsumerAdapter) Stop(ctx context.Context) {
	a.loop.stop(ctx)
}

func logDeadLetter(ctx context.Context, msg kafka.Message) {
	headers := mq.HeaderMap(msg.Headers)
	logger.Ctx(ctx).Error().
		Str("reason", "dead_letter_message_received").
		Str("original_topic", headers[mq.HeaderOriginalTopic]).
		Str("original_partition", headers[mq.HeaderOriginalPartition]).
		Str("original_offset", headers[mq.HeaderOriginalOffset]).
		Str("exception_fqcn", headers[mq.HeaderExceptionFqcn]).
		Str("exception_message", headers[mq.HeaderExceptionMessage]).
		Str("key", string(msg.Key)).
		Str("value", string(msg.Value)).
		Msg("dead letter message received")
}
