package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhub/internal/pkg/database/dbtest"
	"bookhub/internal/pkg/httpx"
	catalogstore "bookhub/internal/service/catalog/infrastructure"
	"bookhub/internal/service/dashboard/application"
	"bookhub/internal/service/dashboard/infrastructure"
	identitystore "bookhub/internal/service/identity/infrastructure"
	orderstore "bookhub/internal/service/order/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type staticAuth map[string]*httpx.Principal

func (a staticAuth) Authenticate(_ context.Context, token string) (*httpx.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return nil, errors.New("bad token")
}

func TestGetDataRoute(t *testing.T) {
	db := dbtest.Open(t, &identitystore.UserModel{}, &catalogstore.BookModel{}, &orderstore.OrderModel{})
	svc := application.NewDashboardService(infrastructure.NewGormStatsReader(db), noop.NewTracerProvider().Tracer("test"))
	guard := httpx.NewGuard(staticAuth{
		"staff": {UserID: "s", Role: "Staff"},
		"user":  {UserID: "u", Role: "User"},
	})
	mux := http.NewServeMux()
	NewDashboardHandler(svc, guard).RegisterRoutes(mux)

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/getdata", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, call("user").Code)

	rec := call("staff")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"totalUsers", "totalStaff", "totalBooks", "totalPendingOrder", "totalCompletedOrder", "totalRevinew", "outOfStock", "latestOrders"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, []any{}, body["latestOrders"])
}
