package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/metrics"
	"github.com/gosuda/unistay/internal/notify"
	"github.com/gosuda/unistay/internal/plan"
)

const (
	draftCommand = "draft-reminder"
	sendCommand  = "send-reminder"
)

var (
	// ErrDeliveryFailed wraps a messenger failure. Nothing was sent and no
	// quota was used.
	ErrDeliveryFailed = errors.New("reminder: delivery failed") //nolint:gochecknoglobals // sentinel error

	// ErrUsageNotRecorded means the reminder went out but the quota charge
	// could not be committed.
	ErrUsageNotRecorded = errors.New("reminder: sent but usage not recorded") //nolint:gochecknoglobals // sentinel error
)

// StateStore is the subset of the snapshot store the service needs.
type StateStore interface {
	Snapshot() *domain.State
	Dispatch(ctx context.Context, cmd ledger.Command) (*domain.State, error)
}

// Deliverer sends a reviewed reminder.
type Deliverer interface {
	Deliver(ctx context.Context, r notify.Reminder) error
}

// Service gates drafting and sending on the plan's reminder quota. Only a
// successful send consumes quota.
type Service struct {
	store     StateStore
	drafter   *Drafter
	deliverer Deliverer
	metrics   *metrics.Recorder
}

func NewService(store StateStore, drafter *Drafter, deliverer Deliverer, m *metrics.Recorder) *Service {
	return &Service{store: store, drafter: drafter, deliverer: deliverer, metrics: m}
}

// DraftFor drafts a reminder for the payment without consuming quota.
func (s *Service) DraftFor(ctx context.Context, paymentID string) (Draft, error) {
	snap := s.store.Snapshot()
	t, p, err := eligible(snap, draftCommand, paymentID)
	if err != nil {
		return Draft{}, err
	}
	return s.drafter.Draft(ctx, t, p), nil
}

// Send delivers message for the payment and records one reminder against the
// quota. Nothing is recorded if delivery fails (ErrDeliveryFailed); once
// delivery succeeds the charge is committed even if ctx is cancelled. Returns
// the committed snapshot.
//
// Quota is checked before delivery and consumed after it, so two concurrent
// sends at the last slot can both go out.
func (s *Service) Send(ctx context.Context, paymentID, message string) (*domain.State, error) {
	message = strings.TrimSpace(message)
	snap := s.store.Snapshot()
	if message == "" {
		return snap, domain.Reject(sendCommand, domain.ErrInvalidInput, "message is required")
	}

	t, p, err := eligible(snap, sendCommand, paymentID)
	if err != nil {
		return snap, err
	}

	if err := s.deliverer.Deliver(ctx, notify.Reminder{
		PaymentID:   p.ID,
		TenantName:  t.Name,
		TenantEmail: t.Email,
		Amount:      p.Amount,
		DueDate:     p.DueDate,
		Message:     message,
	}); err != nil {
		return snap, fmt.Errorf("reminder.Service.Send: %w: %w", ErrDeliveryFailed, err)
	}
	s.metrics.ObserveReminderSent()

	// The message is out; a caller hanging up must not skip the charge.
	next, err := s.store.Dispatch(context.WithoutCancel(ctx), ledger.RecordReminderUsage{})
	if err != nil {
		return next, fmt.Errorf("reminder.Service.Send: %w: %w", ErrUsageNotRecorded, err)
	}
	return next, nil
}

func eligible(snap *domain.State, command, paymentID string) (domain.Tenant, domain.Payment, error) {
	p, err := snap.Payment(paymentID)
	if err != nil {
		return domain.Tenant{}, domain.Payment{}, domain.Reject(command, domain.ErrNotFound, err.Error())
	}
	t, err := snap.Tenant(p.TenantID)
	if err != nil {
		return domain.Tenant{}, domain.Payment{}, domain.Reject(command, domain.ErrNotFound, err.Error())
	}
	if p.Status == domain.PaymentStatusPaid {
		return domain.Tenant{}, domain.Payment{}, domain.Reject(command, domain.ErrConflict, "payment is already paid")
	}
	if !plan.HasReminderQuota(snap) {
		return domain.Tenant{}, domain.Payment{}, domain.Reject(command, domain.ErrQuotaExceeded,
			fmt.Sprintf("AI reminder limit of %d reached for %s plan",
				plan.LimitsFor(snap.Subscription.Plan).MaxAIReminders, snap.Subscription.Plan))
	}
	return t, p, nil
}
