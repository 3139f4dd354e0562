package domain

// Tenant is a student occupying a room for the lease window [StartDate, EndDate].
// Dates use DateLayout. EndDate is not validated against StartDate.
type Tenant struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	RoomID     string `json:"room_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}
