package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookhub/internal/service/dashboard/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type fakeStats struct {
	failLatest bool
}

func (fakeStats) CountUsersByRole(_ context.Context, role string) (int64, error) {
	if role == "User" {
		return 12, nil
	}
	return 3, nil
}
func (fakeStats) CountBooks(context.Context) (int64, error)      { return 40, nil }
func (fakeStats) CountOutOfStock(context.Context) (int64, error) { return 4, nil }
func (fakeStats) CountOrdersByStatus(_ context.Context, status string) (int64, error) {
	if status == "Pending" {
		return 7, nil
	}
	return 9, nil
}
func (fakeStats) CompletedRevenue(context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString("1234.5"), nil
}
func (f fakeStats) LatestOrders(_ context.Context, limit int) ([]domain.LatestOrder, error) {
	if f.failLatest {
		return nil, errors.New("db down")
	}
	out := make([]domain.LatestOrder, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, domain.LatestOrder{OrderDate: time.Now(), Status: "Pending", UserName: "u"})
	}
	return out, nil
}

func TestGetData(t *testing.T) {
	svc := NewDashboardService(fakeStats{}, noop.NewTracerProvider().Tracer("test"))
	data, err := svc.GetData(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 12, data.TotalUsers)
	assert.EqualValues(t, 3, data.TotalStaff)
	assert.EqualValues(t, 40, data.TotalBooks)
	assert.EqualValues(t, 4, data.OutOfStock)
	assert.EqualValues(t, 7, data.TotalPendingOrder)
	assert.EqualValues(t, 9, data.TotalCompletedOrder)
	assert.Equal(t, "1234.5", data.TotalRevenue.String())
	assert.Len(t, data.LatestOrders, domain.LatestOrderLimit)
}

func TestGetDataFailsWhenAnyQueryFails(t *testing.T) {
	svc := NewDashboardService(fakeStats{failLatest: true}, noop.NewTracerProvider().Tracer("test"))
	_, err := svc.GetData(context.Background())
	assert.EqualError(t, err, "db down")
}
