// cmd/bookstore-api/main.go
package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookhub/internal/pkg/bootstrap"
	"bookhub/internal/pkg/database"
	"bookhub/internal/pkg/httpclient"
	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/mq"
	"bookhub/internal/pkg/redis"
	catalogapp "bookhub/internal/service/catalog/application"
	catalogstore "bookhub/internal/service/catalog/infrastructure"
	cataloghttp "bookhub/internal/service/catalog/interfaces"
	dashboardapp "bookhub/internal/service/dashboard/application"
	dashboardstore "bookhub/internal/service/dashboard/infrastructure"
	dashboardhttp "bookhub/internal/service/dashboard/interfaces"
	identityapp "bookhub/internal/service/identity/application"
	identitystore "bookhub/internal/service/identity/infrastructure"
	identityhttp "bookhub/internal/service/identity/interfaces"
	notificationapp "bookhub/internal/service/notification/application"
	notificationstore "bookhub/internal/service/notification/infrastructure"
	notificationhttp "bookhub/internal/service/notification/interfaces"
	orderapp "bookhub/internal/service/order/application"
	orderstore "bookhub/internal/service/order/infrastructure"
	"bookhub/internal/service/order/infrastructure/adapter"
	"bookhub/internal/service/order/infrastructure/rule"
	orderhttp "bookhub/internal/service/order/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

const (
	serviceName       = "bookstore-api"
	readinessTimeout  = 2 * time.Second
	subscriberBackoff = 2 * time.Second
)

type routeRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	logger.Init(serviceName, cfg.App.LogLevel)
	log := logger.L()

	// 金额在 JSON 中以数字输出
	decimal.MarshalJSONWithoutQuotes = true

	// 1. 基础设施
	db, err := database.OpenMySQL(database.Options{
		DSN:             cfg.Infra.MySQL.DSN,
		MaxOpenConns:    cfg.Infra.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.Infra.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.Infra.MySQL.ConnMaxLifetime,
		SlowThreshold:   cfg.Infra.MySQL.SlowThreshold,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mysql")
	}
	if cfg.Infra.MySQL.AutoMigrate {
		if err := db.AutoMigrate(
			&identitystore.UserModel{},
			&catalogstore.BookModel{},
			&catalogstore.ReviewModel{},
			&catalogstore.BookmarkModel{},
			&catalogstore.AnnouncementModel{},
			&orderstore.CartModel{},
			&orderstore.OrderModel{},
			&orderstore.OrderItemModel{},
			&notificationstore.NotificationModel{},
		); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate schema")
		}
	}

	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs, cfg.Infra.Redis.Password, cfg.Infra.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	locker, closeLocker, err := newLocker(cfg, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize lock driver")
	}

	emailWriter := mq.NewKafkaWriter(strings.Split(cfg.Infra.Kafka.Brokers, ","), cfg.Infra.Kafka.EmailTopic)

	policy, err := rule.NewCELDiscountPolicy(cfg.Pricing.Rules)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid pricing rules")
	}

	tracer := otel.Tracer(serviceName)

	// 2. 各上下文的服务
	identitySvc := identityapp.NewIdentityService(
		identitystore.NewGormUserRepository(db),
		identitystore.NewBcryptHasher(),
		identitystore.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL),
		tracer,
	)
	guard := httpx.NewGuard(identityhttp.NewTokenAuthenticator(identitySvc))

	ledger := orderstore.NewPurchaseLedger(db)
	books := catalogstore.NewGormBookRepository(db)
	images := catalogstore.NewCloudinaryImageStore(httpclient.NewClient(tracer), catalogstore.CloudinaryConfig{
		BaseURL:   cfg.Cloudinary.BaseURL,
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	})

	publisher := notificationstore.NewRedisPublisher(redisClient)
	hub := notificationhttp.NewHub()

	store := orderstore.NewGormStore(db)

	handlers := []routeRegistrar{
		identityhttp.NewIdentityHandler(identitySvc, guard),
		cataloghttp.NewCatalogHandler(
			catalogapp.NewBookService(books, images, ledger, tracer),
			catalogapp.NewReviewService(books, catalogstore.NewGormReviewRepository(db), ledger, tracer),
			catalogapp.NewBookmarkService(books, catalogstore.NewGormBookmarkRepository(db), tracer),
			catalogapp.NewAnnouncementService(catalogstore.NewGormAnnouncementRepository(db), tracer),
			guard,
		),
		orderhttp.NewOrderHandler(
			orderapp.NewCartService(store, tracer),
			orderapp.NewOrderService(store, policy, adapter.NewOrderEventKafkaAdapter(emailWriter), tracer),
			orderapp.NewClaimService(store, locker, cfg.Infra.Lock.TTL, adapter.NewNoticeBroadcastAdapter(publisher), tracer),
			guard,
		),
		notificationhttp.NewNotificationHandler(
			notificationapp.NewNotificationService(notificationstore.NewGormNotificationRepository(db), tracer),
			hub,
			guard,
		),
		dashboardhttp.NewDashboardHandler(
			dashboardapp.NewDashboardService(dashboardstore.NewGormStatsReader(db), tracer),
			guard,
		),
	}

	// 3. 启动
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
				ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
				defer cancel()
				if err := database.Ping(ctx, db); err != nil {
					httpx.WriteError(w, http.StatusServiceUnavailable, "mysql unavailable")
					return
				}
				if err := redisClient.Ping(ctx); err != nil {
					httpx.WriteError(w, http.StatusServiceUnavailable, "redis unavailable")
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			appCtx.Mux.Handle("GET /metrics", promhttp.Handler())
			for _, h := range handlers {
				h.RegisterRoutes(appCtx.Mux)
			}
		},
		Middleware: func(next http.Handler) http.Handler {
			return httpx.Chain(next, httpx.Recover, httpx.Tracing, httpx.Metrics, httpx.CORS(cfg.App.AllowedOrigins))
		},
		OnStart: func(ctx context.Context) error {
			go hub.Run(ctx)
			go subscribeNotifications(ctx, publisher, hub)
			return nil
		},
		OnStop: []func(ctx context.Context) error{
			func(context.Context) error { return database.Close(db) },
			func(context.Context) error { return redisClient.Close() },
			func(context.Context) error { closeLocker(); return nil },
			func(context.Context) error { return emailWriter.Close() },
		},
	})
}

// subscribeNotifications 把 redis 频道上的通知转交给本节点的 hub，断线后重连。
func subscribeNotifications(ctx context.Context, publisher *notificationstore.RedisPublisher, hub *notificationhttp.Hub) {
	for {
		if err := publisher.Subscribe(ctx, hub.Broadcast); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("notification subscriber stopped, retrying")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(subscriberBackoff):
		}
	}
}
