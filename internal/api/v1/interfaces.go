package v1

import (
	"context"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/reminder"
)

// StateStore abstracts the snapshot store for handler testing.
// *memory.Store satisfies this interface.
type StateStore interface {
	Snapshot() *domain.State
	Dispatch(ctx context.Context, cmd ledger.Command) (*domain.State, error)
}

// ReminderService abstracts reminder drafting and delivery for handler testing.
// *reminder.Service satisfies this interface.
type ReminderService interface {
	DraftFor(ctx context.Context, paymentID string) (reminder.Draft, error)
	Send(ctx context.Context, paymentID, message string) (*domain.State, error)
}
