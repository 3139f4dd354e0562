package domain

import (
	"fmt"
	"maps"
	"slices"
)

// State is one immutable snapshot of every entity collection plus the
// subscription. Snapshots handed out by a store are read-only; mutate a Clone.
//
// The room occupancy index is maintained together with Tenants so that the
// one-tenant-per-room rule is checked against stored data instead of being
// recomputed by scanning.
type State struct {
	Properties   []Property   `json:"properties"`
	Rooms        []Room       `json:"rooms"`
	Tenants      []Tenant     `json:"tenants"`
	Payments     []Payment    `json:"payments"`
	Subscription Subscription `json:"subscription"`
	Version      uint64       `json:"version"`

	occupants map[string]string // room ID -> tenant ID
}

// NewState builds a snapshot from raw collections and indexes room occupancy.
// It fails with ErrRoomOccupied when two tenants claim the same room.
func NewState(properties []Property, rooms []Room, tenants []Tenant, payments []Payment, sub Subscription) (*State, error) {
	s := &State{
		Properties:   nonNil(properties),
		Rooms:        nonNil(rooms),
		Tenants:      nonNil(tenants),
		Payments:     nonNil(payments),
		Subscription: sub,
		occupants:    make(map[string]string, len(tenants)),
	}
	for _, t := range s.Tenants {
		if other, taken := s.occupants[t.RoomID]; taken {
			return nil, fmt.Errorf("domain.NewState: room %s held by %s and %s: %w", t.RoomID, other, t.ID, ErrRoomOccupied)
		}
		s.occupants[t.RoomID] = t.ID
	}
	return s, nil
}

// Clone returns a deep copy that shares no memory with s.
func (s *State) Clone() *State {
	return &State{
		Properties:   slices.Clone(s.Properties),
		Rooms:        slices.Clone(s.Rooms),
		Tenants:      slices.Clone(s.Tenants),
		Payments:     slices.Clone(s.Payments),
		Subscription: s.Subscription,
		Version:      s.Version,
		occupants:    maps.Clone(s.occupants),
	}
}

// Property returns the property with id, or ErrNotFound.
func (s *State) Property(id string) (Property, error) {
	for _, p := range s.Properties {
		if p.ID == id {
			return p, nil
		}
	}
	return Property{}, fmt.Errorf("property %s: %w", id, ErrNotFound)
}

// Room returns the room with id, or ErrNotFound.
func (s *State) Room(id string) (Room, error) {
	for _, r := range s.Rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return Room{}, fmt.Errorf("room %s: %w", id, ErrNotFound)
}

// Tenant returns the tenant with id, or ErrNotFound.
func (s *State) Tenant(id string) (Tenant, error) {
	for _, t := range s.Tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return Tenant{}, fmt.Errorf("tenant %s: %w", id, ErrNotFound)
}

// Payment returns the payment with id, or ErrNotFound.
func (s *State) Payment(id string) (Payment, error) {
	for _, p := range s.Payments {
		if p.ID == id {
			return p, nil
		}
	}
	return Payment{}, fmt.Errorf("payment %s: %w", id, ErrNotFound)
}

// RoomOccupant returns the ID of the tenant holding roomID.
func (s *State) RoomOccupant(roomID string) (string, error) {
	if id, ok := s.occupants[roomID]; ok {
		return id, nil
	}
	return "", fmt.Errorf("occupant of room %s: %w", roomID, ErrNotFound)
}

// Occupied reports whether a tenant currently holds roomID.
func (s *State) Occupied(roomID string) bool {
	_, ok := s.occupants[roomID]
	return ok
}

// RoomsOf returns the rooms belonging to propertyID in insertion order.
func (s *State) RoomsOf(propertyID string) []Room {
	rooms := make([]Room, 0)
	for _, r := range s.Rooms {
		if r.PropertyID == propertyID {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// AddLease appends a tenant together with its initial payment and records
// the room as occupied. Nothing is written when the room is already taken.
func (s *State) AddLease(t Tenant, initial Payment) error {
	if s.occupants == nil {
		s.occupants = make(map[string]string)
	}
	if other, taken := s.occupants[t.RoomID]; taken {
		return fmt.Errorf("room %s held by tenant %s: %w", t.RoomID, other, ErrRoomOccupied)
	}
	s.Tenants = append(s.Tenants, t)
	s.Payments = append(s.Payments, initial)
	s.occupants[t.RoomID] = t.ID
	return nil
}

// ReplacePayment swaps in p for the stored payment with the same ID.
func (s *State) ReplacePayment(p Payment) error {
	i := slices.IndexFunc(s.Payments, func(existing Payment) bool { return existing.ID == p.ID })
	if i < 0 {
		return fmt.Errorf("payment %s: %w", p.ID, ErrNotFound)
	}
	s.Payments[i] = p
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return slices.Clone(items)
}
