package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/plan"
	"github.com/gosuda/unistay/internal/reminder"
	"github.com/gosuda/unistay/internal/views"
)

type ListPaymentsInput struct {
	Status string `query:"status" doc:"PENDING, PAID or OVERDUE; empty lists all"`
}

type ListPaymentsOutput struct {
	Body []views.PaymentRow
}

type PaymentPathInput struct {
	PaymentID string `path:"paymentID" doc:"Payment ID"`
}

type CyclePaymentOutput struct {
	Body domain.Payment
}

// ReminderDraft is a reviewable reminder. FallbackReason is set when the
// text is the fixed template.
type ReminderDraft struct {
	Text           string          `json:"text"`
	Source         reminder.Source `json:"source"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
}

type DraftReminderOutput struct {
	Body ReminderDraft
}

type SendReminderInput struct {
	PaymentID string `path:"paymentID" doc:"Payment ID"`
	Body      struct {
		Message string `json:"message" maxLength:"4000" doc:"Reviewed reminder text"`
	}
}

// SentReminder reports the reminder meter after a successful send.
type SentReminder struct {
	PaymentID   string     `json:"payment_id"`
	AIReminders plan.Meter `json:"ai_reminders"`
}

type SendReminderOutput struct {
	Body SentReminder
}

func RegisterPaymentRoutes(api huma.API, store StateStore, reminders ReminderService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-payments",
		Method:      http.MethodGet,
		Path:        "/payments",
		Summary:     "List payments, optionally filtered by status",
		Tags:        []string{"Payments"},
	}, func(_ context.Context, input *ListPaymentsInput) (*ListPaymentsOutput, error) {
		status := domain.PaymentStatus(input.Status)
		if status != "" && !status.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown payment status " + input.Status)
		}
		return &ListPaymentsOutput{Body: views.FilterPayments(store.Snapshot(), status)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cycle-payment-status",
		Method:      http.MethodPost,
		Path:        "/payments/{paymentID}/cycle",
		Summary:     "Advance a payment to its next status",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *PaymentPathInput) (*CyclePaymentOutput, error) {
		next, err := store.Dispatch(ctx, ledger.CyclePaymentStatus{PaymentID: input.PaymentID})
		if err != nil {
			return nil, mutationError(err, "failed to cycle payment")
		}
		p, err := next.Payment(input.PaymentID)
		if err != nil {
			return nil, mutationError(err, "failed to cycle payment")
		}
		return &CyclePaymentOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "draft-reminder",
		Method:      http.MethodPost,
		Path:        "/payments/{paymentID}/reminder-draft",
		Summary:     "Draft a rent reminder without using quota",
		Tags:        []string{"Reminders"},
	}, func(ctx context.Context, input *PaymentPathInput) (*DraftReminderOutput, error) {
		d, err := reminders.DraftFor(ctx, input.PaymentID)
		if err != nil {
			return nil, mutationError(err, "failed to draft reminder")
		}
		out := ReminderDraft{Text: d.Text, Source: d.Source}
		out.FallbackReason = d.FallbackReason()
		return &DraftReminderOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "send-reminder",
		Method:      http.MethodPost,
		Path:        "/payments/{paymentID}/reminders",
		Summary:     "Send a reviewed reminder and record quota use",
		Tags:        []string{"Reminders"},
	}, func(ctx context.Context, input *SendReminderInput) (*SendReminderOutput, error) {
		next, err := reminders.Send(ctx, input.PaymentID, input.Body.Message)
		switch {
		case err == nil:
		case errors.Is(err, reminder.ErrDeliveryFailed):
			log.Error().Err(err).Str("payment_id", input.PaymentID).Msg("send reminder")
			return nil, huma.Error502BadGateway("reminder delivery failed")
		case errors.Is(err, reminder.ErrUsageNotRecorded):
			log.Error().Err(err).Str("payment_id", input.PaymentID).Msg("reminder sent but usage not recorded")
			return nil, huma.Error500InternalServerError("reminder sent but usage was not recorded")
		default:
			return nil, mutationError(err, "failed to send reminder")
		}
		return &SendReminderOutput{Body: SentReminder{
			PaymentID:   input.PaymentID,
			AIReminders: plan.UsageOf(next).AIReminders,
		}}, nil
	})
}
