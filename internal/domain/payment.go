package domain

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// PaymentStatuses lists every status in cycle order starting from the initial one.
var PaymentStatuses = []PaymentStatus{PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue} //nolint:gochecknoglobals // fixed enumeration

// Next returns the status that follows s in the manual cycle
// PENDING -> PAID -> OVERDUE -> PENDING. Unknown values reset to PENDING.
func (s PaymentStatus) Next() PaymentStatus {
	switch s {
	case PaymentStatusPending:
		return PaymentStatusPaid
	case PaymentStatusPaid:
		return PaymentStatusOverdue
	default:
		return PaymentStatusPending
	}
}

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	default:
		return false
	}
}

// Payment is a rent charge owed by a tenant. PaidDate is set iff Status is PAID.
type Payment struct {
	ID       string        `json:"id"`
	TenantID string        `json:"tenant_id"`
	Amount   float64       `json:"amount"`
	DueDate  string        `json:"due_date"`
	Status   PaymentStatus `json:"status"`
	PaidDate string        `json:"paid_date,omitempty"`
}
