package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/unistay/internal/api/v1"
	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/notify"
	"github.com/gosuda/unistay/internal/reminder"
	"github.com/gosuda/unistay/internal/store/memory"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func fixedNow() time.Time {
	return time.Date(2023, time.December, 20, 9, 0, 0, 0, time.UTC)
}

// seedStore returns a memory store holding the example portfolio with a fixed
// clock and predictable IDs (p-new1, t-new2, ...).
func seedStore(t *testing.T) *memory.Store {
	t.Helper()

	initial, err := ledger.Seed()
	require.NoError(t, err)

	n := 0
	reducer := ledger.NewReducer(
		ledger.WithClock(fixedNow),
		ledger.WithIDs(func(prefix string) string {
			n++
			return fmt.Sprintf("%s-new%d", prefix, n)
		}),
	)

	s, err := memory.New(initial, memory.WithReducer(reducer), memory.WithClock(fixedNow))
	require.NoError(t, err)
	return s
}

// newAPI registers every v1 route on a humatest API.
func newAPI(t *testing.T, store v1.StateStore, reminders v1.ReminderService) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	v1.RegisterStateRoutes(api, store, fixedNow)
	v1.RegisterPropertyRoutes(api, store)
	v1.RegisterTenantRoutes(api, store)
	v1.RegisterPaymentRoutes(api, store, reminders)
	v1.RegisterSubscriptionRoutes(api, store)
	return api
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// ---------------------------------------------------------------------------
// Mock StateStore
// ---------------------------------------------------------------------------

type mockStore struct {
	snapshotFunc func() *domain.State
	dispatchFunc func(ctx context.Context, cmd ledger.Command) (*domain.State, error)
}

func (m *mockStore) Snapshot() *domain.State {
	return m.snapshotFunc()
}

func (m *mockStore) Dispatch(ctx context.Context, cmd ledger.Command) (*domain.State, error) {
	return m.dispatchFunc(ctx, cmd)
}

// ---------------------------------------------------------------------------
// Mock ReminderService
// ---------------------------------------------------------------------------

type mockReminders struct {
	draftForFunc func(ctx context.Context, paymentID string) (reminder.Draft, error)
	sendFunc     func(ctx context.Context, paymentID, message string) (*domain.State, error)
}

func (m *mockReminders) DraftFor(ctx context.Context, paymentID string) (reminder.Draft, error) {
	return m.draftForFunc(ctx, paymentID)
}

func (m *mockReminders) Send(ctx context.Context, paymentID, message string) (*domain.State, error) {
	return m.sendFunc(ctx, paymentID, message)
}

// ---------------------------------------------------------------------------
// Mock Deliverer (for the real reminder.Service)
// ---------------------------------------------------------------------------

type mockDeliverer struct {
	deliverFunc func(ctx context.Context, r notify.Reminder) error
}

func (m *mockDeliverer) Deliver(ctx context.Context, r notify.Reminder) error {
	if m.deliverFunc == nil {
		return nil
	}
	return m.deliverFunc(ctx, r)
}
