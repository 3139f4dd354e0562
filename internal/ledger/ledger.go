// Package ledger applies commands to domain snapshots. Apply is the single
// state-transition function of the service: it either returns a new snapshot
// with Version incremented, or the input snapshot untouched together with a
// *domain.Rejection describing the unmet precondition.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/plan"
)

// Command is a mutation request. The concrete types below are the full set.
type Command interface {
	CommandName() string
}

type CreateProperty struct {
	Name    string
	Address string
}

type CreateRoom struct {
	PropertyID string
	RoomNumber string
	BaseRent   float64
}

// AssignTenant leases a free room to a new tenant. Empty dates default to
// today and one year after the start date.
type AssignTenant struct {
	RoomID    string
	Name      string
	Email     string
	Phone     string
	StartDate string
	EndDate   string
}

type CyclePaymentStatus struct {
	PaymentID string
}

// RecordReminderUsage counts one sent AI reminder. It has no upper bound; the
// quota is checked by the sender before drafting.
type RecordReminderUsage struct{}

// ChangePlan switches tiers without re-validating existing counts.
type ChangePlan struct {
	Plan domain.PlanType
}

func (CreateProperty) CommandName() string      { return "create-property" }
func (CreateRoom) CommandName() string          { return "create-room" }
func (AssignTenant) CommandName() string        { return "assign-tenant" }
func (CyclePaymentStatus) CommandName() string  { return "cycle-payment-status" }
func (RecordReminderUsage) CommandName() string { return "record-reminder-usage" }
func (ChangePlan) CommandName() string          { return "change-plan" }

// Reducer applies commands. The clock and ID source are injectable so tests
// are deterministic.
type Reducer struct {
	now   func() time.Time
	newID func(prefix string) string
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithClock overrides the time source used for paid dates and default lease dates.
func WithClock(now func() time.Time) Option {
	return func(r *Reducer) { r.now = now }
}

// WithIDs overrides entity ID generation.
func WithIDs(newID func(prefix string) string) Option {
	return func(r *Reducer) { r.newID = newID }
}

// NewReducer creates a Reducer using wall-clock time and UUID-based IDs.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		now:   time.Now,
		newID: func(prefix string) string { return prefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply runs cmd against s. On rejection s itself is returned with the error.
func (r *Reducer) Apply(s *domain.State, cmd Command) (*domain.State, error) {
	var (
		next *domain.State
		err  error
	)

	switch c := cmd.(type) {
	case CreateProperty:
		next, err = r.createProperty(s, c)
	case CreateRoom:
		next, err = r.createRoom(s, c)
	case AssignTenant:
		next, err = r.assignTenant(s, c)
	case CyclePaymentStatus:
		next, err = r.cyclePaymentStatus(s, c)
	case RecordReminderUsage:
		next = s.Clone()
		next.Subscription.AIRemindersUsed++
	case ChangePlan:
		next, err = r.changePlan(s, c)
	default:
		return s, fmt.Errorf("ledger.Reducer.Apply: unsupported command %T", cmd)
	}

	if err != nil {
		return s, err
	}
	next.Version = s.Version + 1
	return next, nil
}

func (r *Reducer) createProperty(s *domain.State, c CreateProperty) (*domain.State, error) {
	name, address := strings.TrimSpace(c.Name), strings.TrimSpace(c.Address)
	if name == "" || address == "" {
		return nil, domain.Reject(c.CommandName(), domain.ErrInvalidInput, "name and address are required")
	}
	if !plan.CanCreateProperty(s) {
		return nil, domain.Reject(c.CommandName(), domain.ErrQuotaExceeded,
			fmt.Sprintf("property limit of %d reached for %s plan", plan.LimitsFor(s.Subscription.Plan).MaxProperties, s.Subscription.Plan))
	}

	next := s.Clone()
	next.Properties = append(next.Properties, domain.Property{
		ID:      r.newID("p"),
		Name:    name,
		Address: address,
	})
	return next, nil
}

func (r *Reducer) createRoom(s *domain.State, c CreateRoom) (*domain.State, error) {
	number := strings.TrimSpace(c.RoomNumber)
	if number == "" {
		return nil, domain.Reject(c.CommandName(), domain.ErrInvalidInput, "room number is required")
	}
	if c.BaseRent <= 0 {
		return nil, domain.Reject(c.CommandName(), domain.ErrInvalidInput, "base rent must be positive")
	}
	if _, err := s.Property(c.PropertyID); err != nil {
		return nil, domain.Reject(c.CommandName(), domain.ErrNotFound, err.Error())
	}

	next := s.Clone()
	next.Rooms = append(next.Rooms, domain.Room{
		ID:         r.newID("r"),
		PropertyID: c.PropertyID,
		RoomNumber: number,
		BaseRent:   c.BaseRent,
	})
	return next, nil
}

func (r *Reducer) assignTenant(s *domain.State, c AssignTenant) (*domain.State, error) {
	name, email := strings.TrimSpace(c.Name), strings.TrimSpace(c.Email)
	if name == "" || email == "" {
		return nil, domain.Reject(c.CommandName(), domain.ErrInvalidInput, "name and email are required")
	}

	start, end, err := r.leaseWindow(c.StartDate, c.EndDate)
	if err != nil {
		return nil, domain.Reject(c.CommandName(), domain.ErrInvalidInput, err.Error())
	}

	room, err := s.Room(c.RoomID)
	if err != nil {
		return nil, domain.Reject(c.CommandName(), domain.ErrNotFound, err.Error())
	}
	if !plan.CanCreateTenant(s) {
		return nil, domain.Reject(c.CommandName(), domain.ErrQuotaExceeded,
			fmt.Sprintf("tenant limit of %d reached for %s plan", plan.LimitsFor(s.Subscription.Plan).MaxTenants, s.Subscription.Plan))
	}
	if s.Occupied(room.ID) {
		return nil, domain.Reject(c.CommandName(), domain.ErrRoomOccupied, "room "+room.RoomNumber+" is already occupied")
	}

	tenant := domain.Tenant{
		ID:         r.newID("t"),
		PropertyID: room.PropertyID,
		RoomID:     room.ID,
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(c.Phone),
		StartDate:  start,
		EndDate:    end,
	}
	initial := domain.Payment{
		ID:       r.newID("pay"),
		TenantID: tenant.ID,
		Amount:   room.BaseRent,
		DueDate:  start,
		Status:   domain.PaymentStatusPending,
	}

	next := s.Clone()
	if err := next.AddLease(tenant, initial); err != nil {
		return nil, domain.Reject(c.CommandName(), domain.ErrRoomOccupied, err.Error())
	}
	return next, nil
}

// leaseWindow validates the supplied dates and fills in the defaults.
func (r *Reducer) leaseWindow(startDate, endDate string) (string, string, error) {
	start := r.now()
	if startDate != "" {
		t, err := domain.ParseDate(startDate)
		if err != nil {
			return "", "", err
		}
		start = t
	}

	end := start.AddDate(1, 0, 0)
	if endDate != "" {
		t, err := domain.ParseDate(endDate)
		if err != nil {
			return "", "", err
		}
		end = t
	}

	return domain.FormatDate(start), domain.FormatDate(end), nil
}

func (r *Reducer) cyclePaymentStatus(s *domain.State, c CyclePaymentStatus) (*domain.State, error) {
	p, err := s.Payment(c.PaymentID)
	if err != nil {
		return nil, domain.Reject(c.CommandName(), domain.ErrNotFound, err.Error())
	}

	p.Status = p.Status.Next()
	p.PaidDate = ""
	if p.Status == domain.PaymentStatusPaid {
		p.PaidDate = domain.FormatDate(r.now())
	}

	next := s.Clone()
	if err := next.ReplacePayment(p); err != nil {
		return nil, domain.Reject(c.CommandName(), domain.ErrNotFound, err.Error())
	}
	return next, nil
}

func (r *Reducer) changePlan(s *domain.State, c ChangePlan) (*domain.State, error) {
	p, err := domain.ParsePlan(string(c.Plan))
	if err != nil {
		return nil, domain.Reject(c.CommandName(), domain.ErrInvalidInput, err.Error())
	}

	next := s.Clone()
	next.Subscription.Plan = p
	return next, nil
}
