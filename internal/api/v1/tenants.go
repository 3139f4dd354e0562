package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/views"
)

type ListTenantsOutput struct {
	Body []views.TenantRow
}

type AssignTenantInput struct {
	RoomID string `path:"roomID" doc:"Room ID"`
	Body   struct {
		Name      string `json:"name" maxLength:"255" doc:"Tenant name"`
		Email     string `json:"email" maxLength:"255" doc:"Contact email"`
		Phone     string `json:"phone,omitempty" maxLength:"64" doc:"Contact phone"`
		StartDate string `json:"start_date,omitempty" doc:"Lease start, YYYY-MM-DD; defaults to today"`
		EndDate   string `json:"end_date,omitempty" doc:"Lease end, YYYY-MM-DD; defaults to one year after start"`
	}
}

// Lease is a newly assigned tenant with the first payment created for it.
type Lease struct {
	Tenant  domain.Tenant  `json:"tenant"`
	Payment domain.Payment `json:"payment"`
}

type AssignTenantOutput struct {
	Body Lease
}

func RegisterTenantRoutes(api huma.API, store StateStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/tenants",
		Summary:     "List tenants with property and room labels",
		Tags:        []string{"Tenants"},
	}, func(_ context.Context, _ *struct{}) (*ListTenantsOutput, error) {
		return &ListTenantsOutput{Body: views.TenantRows(store.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-tenant",
		Method:      http.MethodPost,
		Path:        "/rooms/{roomID}/tenants",
		Summary:     "Assign a tenant to a free room",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *AssignTenantInput) (*AssignTenantOutput, error) {
		next, err := store.Dispatch(ctx, ledger.AssignTenant{
			RoomID:    input.RoomID,
			Name:      input.Body.Name,
			Email:     input.Body.Email,
			Phone:     input.Body.Phone,
			StartDate: input.Body.StartDate,
			EndDate:   input.Body.EndDate,
		})
		if err != nil {
			return nil, mutationError(err, "failed to assign tenant")
		}
		return &AssignTenantOutput{Body: Lease{
			Tenant:  next.Tenants[len(next.Tenants)-1],
			Payment: next.Payments[len(next.Payments)-1],
		}}, nil
	})
}
