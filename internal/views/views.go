// Package views computes read models from a snapshot. Nothing here is cached;
// every call walks the snapshot it is given.
package views

import (
	"math"
	"time"

	"github.com/gosuda/unistay/internal/domain"
)

const revenueWindowMonths = 6

// TotalsByStatus sums payment amounts per status. Every known status is present.
func TotalsByStatus(s *domain.State) map[domain.PaymentStatus]float64 {
	totals := make(map[domain.PaymentStatus]float64, len(domain.PaymentStatuses))
	for _, status := range domain.PaymentStatuses {
		totals[status] = 0
	}
	for _, p := range s.Payments {
		totals[p.Status] += p.Amount
	}
	return totals
}

// MonthRevenue is the PAID total for one calendar month.
type MonthRevenue struct {
	Month   string  `json:"month"` // short label, e.g. "Jan"
	Key     string  `json:"key"`   // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// MonthlyRevenue returns exactly six entries, oldest first, ending with the
// month containing now. A payment counts toward the month of its due date.
func MonthlyRevenue(s *domain.State, now time.Time) []MonthRevenue {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	months := make([]MonthRevenue, revenueWindowMonths)
	index := make(map[string]int, revenueWindowMonths)
	for i := range revenueWindowMonths {
		m := first.AddDate(0, i-(revenueWindowMonths-1), 0)
		key := m.Format("2006-01")
		months[i] = MonthRevenue{Month: m.Format("Jan"), Key: key}
		index[key] = i
	}

	for _, p := range s.Payments {
		if p.Status != domain.PaymentStatusPaid {
			continue
		}
		due, err := domain.ParseDate(p.DueDate)
		if err != nil {
			continue
		}
		if i, ok := index[due.Format("2006-01")]; ok {
			months[i].Revenue += p.Amount
		}
	}
	return months
}

// PropertyOccupancy is the share of a property's rooms that have a tenant.
type PropertyOccupancy struct {
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`
	Rooms      int    `json:"rooms"`
	Occupied   int    `json:"occupied"`
	Occupancy  int    `json:"occupancy"` // percent, rounded
}

// OccupancyByProperty reports occupancy per property in snapshot order. A
// property without rooms reports 0.
func OccupancyByProperty(s *domain.State) []PropertyOccupancy {
	out := make([]PropertyOccupancy, 0, len(s.Properties))
	for _, p := range s.Properties {
		rooms := s.RoomsOf(p.ID)
		occupied := 0
		for _, r := range rooms {
			if s.Occupied(r.ID) {
				occupied++
			}
		}
		po := PropertyOccupancy{
			PropertyID: p.ID,
			Name:       p.Name,
			Rooms:      len(rooms),
			Occupied:   occupied,
		}
		if len(rooms) > 0 {
			po.Occupancy = int(math.Round(float64(occupied) / float64(len(rooms)) * 100))
		}
		out = append(out, po)
	}
	return out
}
