package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/plan"
)

type GetSubscriptionOutput struct {
	Body plan.Usage
}

type ListPlansOutput struct {
	Body []plan.Tier
}

type ChangePlanInput struct {
	Body struct {
		Plan string `json:"plan" doc:"BASIC, STANDARD or PRO"`
	}
}

type ChangePlanOutput struct {
	Body plan.Usage
}

func RegisterSubscriptionRoutes(api huma.API, store StateStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-subscription",
		Method:      http.MethodGet,
		Path:        "/subscription",
		Summary:     "Get the active plan and its usage",
		Tags:        []string{"Subscription"},
	}, func(_ context.Context, _ *struct{}) (*GetSubscriptionOutput, error) {
		return &GetSubscriptionOutput{Body: plan.UsageOf(store.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-plans",
		Method:      http.MethodGet,
		Path:        "/plans",
		Summary:     "List the plan catalog",
		Tags:        []string{"Subscription"},
	}, func(_ context.Context, _ *struct{}) (*ListPlansOutput, error) {
		return &ListPlansOutput{Body: plan.Catalog()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "change-plan",
		Method:      http.MethodPut,
		Path:        "/subscription/plan",
		Summary:     "Switch to another plan",
		Description: "Downgrades are allowed even when current usage exceeds the new limits; creation stays blocked until usage drops.",
		Tags:        []string{"Subscription"},
	}, func(ctx context.Context, input *ChangePlanInput) (*ChangePlanOutput, error) {
		next, err := store.Dispatch(ctx, ledger.ChangePlan{Plan: domain.PlanType(input.Body.Plan)})
		if err != nil {
			return nil, mutationError(err, "failed to change plan")
		}
		return &ChangePlanOutput{Body: plan.UsageOf(next)}, nil
	})
}
