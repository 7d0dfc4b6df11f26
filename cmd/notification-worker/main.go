// cmd/notification-worker/main.go
package main

import (
	"context"
	"net/http"
	"strings"

	"bookhub/internal/pkg/bootstrap"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/mq"
	"bookhub/internal/service/notification/application"
	"bookhub/internal/service/notification/infrastructure"
	"bookhub/internal/service/notification/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

const (
	serviceName    = "notification-worker"
	dltGroupSuffix = "-dlt"
)

// notification-worker 消费 order-emails 主题并通过 SMTP 发送下单确认邮件。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	logger.Init(serviceName, cfg.App.LogLevel)
	log := logger.L()

	mailer, err := infrastructure.NewSMTPMailer(cfg.Mail)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize smtp mailer")
	}

	brokers := strings.Split(cfg.Infra.Kafka.Brokers, ",")
	tracer := otel.Tracer(serviceName)

	emailReader := mq.NewKafkaReader(brokers, cfg.Infra.Kafka.EmailTopic, cfg.Infra.Kafka.EmailGroupID)
	dltWriter := mq.NewKafkaWriter(brokers, cfg.Infra.Kafka.DeadLetterTopic)
	dltReader := mq.NewKafkaReader(brokers, cfg.Infra.Kafka.DeadLetterTopic, cfg.Infra.Kafka.EmailGroupID+dltGroupSuffix)

	emailConsumer := interfaces.NewEmailConsumerAdapter(emailReader, application.NewEmailService(mailer, tracer), dltWriter, tracer)
	dltConsumer := interfaces.NewDltConsumerAdapter(dltReader)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.WorkerPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("GET /metrics", promhttp.Handler())
		},
		OnStart: func(ctx context.Context) error {
			emailConsumer.Start(ctx)
			dltConsumer.Start(ctx)
			return nil
		},
		OnStop: []func(ctx context.Context) error{
			func(context.Context) error { return dltWriter.Close() },
			func(ctx context.Context) error { dltConsumer.Stop(ctx); return nil },
			func(ctx context.Context) error { emailConsumer.Stop(ctx); return nil },
		},
	})
}
