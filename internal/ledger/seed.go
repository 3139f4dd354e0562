package ledger

import (
	"fmt"

	"github.com/gosuda/unistay/internal/domain"
)

// Seed returns the example portfolio loaded at startup: two properties, five
// rooms, three tenants and their payment history on the BASIC plan.
func Seed() (*domain.State, error) {
	s, err := domain.NewState(
		[]domain.Property{
			{ID: "p1", Name: "University Heights", Address: "123 Scholar Lane"},
			{ID: "p2", Name: "West End Dorms", Address: "45 Varsity Blvd"},
		},
		[]domain.Room{
			{ID: "r1", PropertyID: "p1", RoomNumber: "101A", BaseRent: 650},
			{ID: "r2", PropertyID: "p1", RoomNumber: "101B", BaseRent: 650},
			{ID: "r3", PropertyID: "p1", RoomNumber: "102A", BaseRent: 700},
			{ID: "r4", PropertyID: "p2", RoomNumber: "B201", BaseRent: 550},
			{ID: "r5", PropertyID: "p2", RoomNumber: "B202", BaseRent: 550},
		},
		[]domain.Tenant{
			{ID: "t1", PropertyID: "p1", RoomID: "r1", Name: "Alice Smith", Email: "alice@student.edu", Phone: "555-0101", StartDate: "2023-08-01", EndDate: "2024-06-30"},
			{ID: "t2", PropertyID: "p1", RoomID: "r2", Name: "Bob Jones", Email: "bob@student.edu", Phone: "555-0102", StartDate: "2023-08-01", EndDate: "2024-06-30"},
			{ID: "t3", PropertyID: "p2", RoomID: "r4", Name: "Charlie Brown", Email: "charlie@student.edu", Phone: "555-0201", StartDate: "2023-09-01", EndDate: "2024-06-30"},
		},
		[]domain.Payment{
			{ID: "h1", TenantID: "t1", Amount: 650, DueDate: "2023-08-01", Status: domain.PaymentStatusPaid, PaidDate: "2023-07-30"},
			{ID: "h2", TenantID: "t2", Amount: 650, DueDate: "2023-08-01", Status: domain.PaymentStatusPaid, PaidDate: "2023-08-02"},
			{ID: "pay1", TenantID: "t1", Amount: 650, DueDate: "2023-12-01", Status: domain.PaymentStatusPaid, PaidDate: "2023-11-30"},
			{ID: "pay2", TenantID: "t1", Amount: 650, DueDate: "2023-12-15", Status: domain.PaymentStatusOverdue},
			{ID: "pay3", TenantID: "t2", Amount: 650, DueDate: "2023-12-01", Status: domain.PaymentStatusPending},
		},
		domain.Subscription{Plan: domain.PlanBasic},
	)
	if err != nil {
		return nil, fmt.Errorf("ledger.Seed: %w", err)
	}
	return s, nil
}

// Empty returns a snapshot with no entities on the given plan. NewState only
// fails on conflicting leases and there are none here, so an error is a bug.
func Empty(p domain.PlanType) *domain.State {
	s, err := domain.NewState(nil, nil, nil, nil, domain.Subscription{Plan: p})
	if err != nil {
		panic(fmt.Sprintf("ledger.Empty: %v", err))
	}
	return s
}
