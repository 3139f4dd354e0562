package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/views"
)

type ListPropertiesOutput struct {
	Body []views.PropertyListing
}

type CreatePropertyInput struct {
	Body struct {
		Name    string `json:"name" maxLength:"255" doc:"Property name"`
		Address string `json:"address" maxLength:"512" doc:"Street address"`
	}
}

type CreatePropertyOutput struct {
	Body domain.Property
}

type CreateRoomInput struct {
	PropertyID string `path:"propertyID" doc:"Property ID"`
	Body       struct {
		RoomNumber string  `json:"room_number" maxLength:"64" doc:"Room label, need not be unique"`
		BaseRent   float64 `json:"base_rent" doc:"Monthly rent, must be positive"`
	}
}

type CreateRoomOutput struct {
	Body domain.Room
}

type ListAvailableRoomsOutput struct {
	Body []domain.Room
}

func RegisterPropertyRoutes(api huma.API, store StateStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-properties",
		Method:      http.MethodGet,
		Path:        "/properties",
		Summary:     "List properties with their rooms",
		Tags:        []string{"Properties"},
	}, func(_ context.Context, _ *struct{}) (*ListPropertiesOutput, error) {
		return &ListPropertiesOutput{Body: views.Properties(store.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-property",
		Method:      http.MethodPost,
		Path:        "/properties",
		Summary:     "Create a property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *CreatePropertyInput) (*CreatePropertyOutput, error) {
		next, err := store.Dispatch(ctx, ledger.CreateProperty{
			Name:    input.Body.Name,
			Address: input.Body.Address,
		})
		if err != nil {
			return nil, mutationError(err, "failed to create property")
		}
		// Writers are serialized, so the committed snapshot ends with ours.
		return &CreatePropertyOutput{Body: next.Properties[len(next.Properties)-1]}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-room",
		Method:      http.MethodPost,
		Path:        "/properties/{propertyID}/rooms",
		Summary:     "Add a room to a property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
		next, err := store.Dispatch(ctx, ledger.CreateRoom{
			PropertyID: input.PropertyID,
			RoomNumber: input.Body.RoomNumber,
			BaseRent:   input.Body.BaseRent,
		})
		if err != nil {
			return nil, mutationError(err, "failed to create room")
		}
		return &CreateRoomOutput{Body: next.Rooms[len(next.Rooms)-1]}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-available-rooms",
		Method:      http.MethodGet,
		Path:        "/rooms/available",
		Summary:     "List rooms without a tenant",
		Tags:        []string{"Properties"},
	}, func(_ context.Context, _ *struct{}) (*ListAvailableRoomsOutput, error) {
		return &ListAvailableRoomsOutput{Body: views.AvailableRooms(store.Snapshot())}, nil
	})
}
