package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/views"
)

type GetStateOutput struct {
	Body *domain.State
}

type GetDashboardOutput struct {
	Body views.Dashboard
}

// RegisterStateRoutes registers the read-only snapshot and dashboard views.
// now supplies the reference time for the revenue window.
func RegisterStateRoutes(api huma.API, store StateStore, now func() time.Time) {
	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/state",
		Summary:     "Get the full snapshot",
		Tags:        []string{"State"},
	}, func(_ context.Context, _ *struct{}) (*GetStateOutput, error) {
		return &GetStateOutput{Body: store.Snapshot()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Get the portfolio dashboard",
		Tags:        []string{"State"},
	}, func(_ context.Context, _ *struct{}) (*GetDashboardOutput, error) {
		return &GetDashboardOutput{Body: views.BuildDashboard(store.Snapshot(), now())}, nil
	})
}
