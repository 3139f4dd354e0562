package views

import (
	"math"
	"time"

	"github.com/gosuda/unistay/internal/domain"
)

const (
	overdueHighlightLimit = 3
	unknownLabel          = "unknown"
)

// PaymentRow is a payment joined with the tenant and room it belongs to.
// Dangling references are rendered as "unknown".
type PaymentRow struct {
	domain.Payment
	TenantName string `json:"tenant_name"`
	RoomNumber string `json:"room_number"`
}

// Dashboard is the portfolio overview.
type Dashboard struct {
	Collected        float64             `json:"collected"`
	Pending          float64             `json:"pending"`
	Overdue          float64             `json:"overdue"`
	ActiveTenants    int                 `json:"active_tenants"`
	OverdueHighlight []PaymentRow        `json:"overdue_highlight"`
	OverdueCount     int                 `json:"overdue_count"`
	Revenue          []MonthRevenue      `json:"revenue"`
	Occupancy        []PropertyOccupancy `json:"occupancy"`
	AverageOccupancy int                 `json:"average_occupancy"`
}

// BuildDashboard assembles the overview for s as of now.
func BuildDashboard(s *domain.State, now time.Time) Dashboard {
	totals := TotalsByStatus(s)
	overdue := FilterPayments(s, domain.PaymentStatusOverdue)

	highlight := overdue
	if len(highlight) > overdueHighlightLimit {
		highlight = highlight[:overdueHighlightLimit]
	}

	occupancy := OccupancyByProperty(s)
	average := 0
	if len(occupancy) > 0 {
		sum := 0
		for _, o := range occupancy {
			sum += o.Occupancy
		}
		average = int(math.Round(float64(sum) / float64(len(occupancy))))
	}

	return Dashboard{
		Collected:        totals[domain.PaymentStatusPaid],
		Pending:          totals[domain.PaymentStatusPending],
		Overdue:          totals[domain.PaymentStatusOverdue],
		ActiveTenants:    len(s.Tenants),
		OverdueHighlight: highlight,
		OverdueCount:     len(overdue),
		Revenue:          MonthlyRevenue(s, now),
		Occupancy:        occupancy,
		AverageOccupancy: average,
	}
}

// FilterPayments returns payment rows with the given status, or all rows when
// status is empty.
func FilterPayments(s *domain.State, status domain.PaymentStatus) []PaymentRow {
	rows := make([]PaymentRow, 0, len(s.Payments))
	for _, p := range s.Payments {
		if status != "" && p.Status != status {
			continue
		}
		rows = append(rows, paymentRow(s, p))
	}
	return rows
}

func paymentRow(s *domain.State, p domain.Payment) PaymentRow {
	row := PaymentRow{Payment: p, TenantName: unknownLabel, RoomNumber: unknownLabel}
	t, err := s.Tenant(p.TenantID)
	if err != nil {
		return row
	}
	row.TenantName = t.Name
	if r, err := s.Room(t.RoomID); err == nil {
		row.RoomNumber = r.RoomNumber
	}
	return row
}

// TenantRow is a tenant joined with its property and room labels.
type TenantRow struct {
	domain.Tenant
	PropertyName string `json:"property_name"`
	RoomNumber   string `json:"room_number"`
}

// TenantRows lists tenants with their assignment labels.
func TenantRows(s *domain.State) []TenantRow {
	rows := make([]TenantRow, 0, len(s.Tenants))
	for _, t := range s.Tenants {
		row := TenantRow{Tenant: t, PropertyName: unknownLabel, RoomNumber: unknownLabel}
		if p, err := s.Property(t.PropertyID); err == nil {
			row.PropertyName = p.Name
		}
		if r, err := s.Room(t.RoomID); err == nil {
			row.RoomNumber = r.RoomNumber
		}
		rows = append(rows, row)
	}
	return rows
}

// PropertyListing is a property with its rooms and per-room occupant.
type PropertyListing struct {
	domain.Property
	Rooms []RoomListing `json:"rooms"`
}

// RoomListing is a room with the ID of its tenant, if any.
type RoomListing struct {
	domain.Room
	TenantID string `json:"tenant_id,omitempty"`
}

// Properties lists every property with its rooms.
func Properties(s *domain.State) []PropertyListing {
	out := make([]PropertyListing, 0, len(s.Properties))
	for _, p := range s.Properties {
		rooms := s.RoomsOf(p.ID)
		listing := PropertyListing{Property: p, Rooms: make([]RoomListing, 0, len(rooms))}
		for _, r := range rooms {
			tenantID, _ := s.RoomOccupant(r.ID)
			listing.Rooms = append(listing.Rooms, RoomListing{Room: r, TenantID: tenantID})
		}
		out = append(out, listing)
	}
	return out
}

// AvailableRooms returns the rooms the assignment picker may offer.
func AvailableRooms(s *domain.State) []domain.Room {
	out := make([]domain.Room, 0)
	for _, r := range s.Rooms {
		if !s.Occupied(r.ID) {
			out = append(out, r)
		}
	}
	return out
}
