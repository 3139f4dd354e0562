package domain

// Property is a building managed by the operator. It owns zero or more rooms.
type Property struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Room is a rentable unit inside a property. PropertyID never changes after
// creation. Room numbers are not required to be unique.
type Room struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"property_id"`
	RoomNumber string  `json:"room_number"`
	BaseRent   float64 `json:"base_rent"`
}
