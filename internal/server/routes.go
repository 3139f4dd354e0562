package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/unistay/internal/api/v1"
	"github.com/gosuda/unistay/internal/api/ws"
	"github.com/gosuda/unistay/internal/messenger/slack"
)

func registerAPIRoutes(api huma.API, deps Deps) {
	v1.RegisterStateRoutes(api, deps.Store, deps.Now)
	v1.RegisterPropertyRoutes(api, deps.Store)
	v1.RegisterTenantRoutes(api, deps.Store)
	v1.RegisterPaymentRoutes(api, deps.Store, deps.Reminders)
	v1.RegisterSubscriptionRoutes(api, deps.Store)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/events", hub.ServeEvents)
}

func registerSlackRoutes(r chi.Router, handler *slack.Handler) {
	r.Post("/commands", handler.HandleCommand)
}
