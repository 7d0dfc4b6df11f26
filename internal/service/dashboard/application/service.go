package application

import (
	"context"
	"time"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/dashboard/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// LatestOrderDTO 是最新订单的响应格式
type LatestOrderDTO struct {
	OrderDate   time.Time       `json:"orderDate"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
	Status      string          `json:"status"`
	UserName    string          `json:"username"`
	Email       string          `json:"email"`
}

// DashboardDTO 字段名沿用前端约定（包括 totalRevinew）
type DashboardDTO struct {
	TotalUsers          int64            `json:"totalUsers"`
	TotalStaff          int64            `json:"totalStaff"`
	TotalBooks          int64            `json:"totalBooks"`
	TotalPendingOrder   int64            `json:"totalPendingOrder"`
	TotalCompletedOrder int64            `json:"totalCompletedOrder"`
	TotalRevenue        decimal.Decimal  `json:"totalRevinew"`
	OutOfStock          int64            `json:"outOfStock"`
	LatestOrders        []LatestOrderDTO `json:"latestOrders"`
}

type DashboardService struct {
	stats  domain.StatsReader
	tracer trace.Tracer
}

func NewDashboardService(stats domain.StatsReader, tracer trace.Tracer) *DashboardService {
	return &DashboardService{stats: stats, tracer: tracer}
}

// GetData 并发执行各项统计，任一失败即整体失败。
func (s *DashboardService) GetData(ctx context.Context) (*DashboardDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetDashboardData")
	defer span.End()

	var st domain.Stats
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}
	byRole := func(role string) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountUsersByRole(ctx, role) }
	}
	byStatus := func(status string) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountOrdersByStatus(ctx, status) }
	}

	count(&st.TotalUsers, byRole("User"))
	count(&st.TotalStaff, byRole("Staff"))
	count(&st.TotalBooks, s.stats.CountBooks)
	count(&st.OutOfStock, s.stats.CountOutOfStock)
	count(&st.TotalPendingOrder, byStatus("Pending"))
	count(&st.TotalCompletedOrder, byStatus("Completed"))
	g.Go(func() error {
		total, err := s.stats.CompletedRevenue(gctx)
		st.TotalRevenue = total
		return err
	})
	g.Go(func() error {
		latest, err := s.stats.LatestOrders(gctx, domain.LatestOrderLimit)
		st.LatestOrders = latest
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Ctx(ctx).Error().Err(err).Msg("failed to load dashboard data")
		return nil, err
	}
	return toDashboardDTO(&st), nil
}

func toDashboardDTO(st *domain.Stats) *DashboardDTO {
	out := &DashboardDTO{
		TotalUsers:          st.TotalUsers,
		TotalStaff:          st.TotalStaff,
		TotalBooks:          st.TotalBooks,
		TotalPendingOrder:   st.TotalPendingOrder,
		TotalCompletedOrder: st.TotalCompletedOrder,
		TotalRevenue:        st.TotalRevenue,
		OutOfStock:          st.OutOfStock,
		LatestOrders:        make([]LatestOrderDTO, 0, len(st.LatestOrders)),
	}
	for _, o := range st.LatestOrders {
		out.LatestOrders = append(out.LatestOrders, LatestOrderDTO(o))
	}
	return out
}
