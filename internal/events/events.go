// Package events carries state-change notifications to WebSocket clients.
// The transport is Redis pub/sub when configured and an in-process
// broadcaster otherwise.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event types.
const (
	TypeStateChanged       = "state_changed"
	TypeDashboardRefreshed = "dashboard_refreshed"
)

// Event is the payload published on the state channel.
type Event struct {
	Type    string    `json:"type"`
	Command string    `json:"command,omitempty"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
	Data    any       `json:"data,omitempty"`
}

// PubSub is a byte-oriented channel transport. Both the Redis store and Local
// implement it.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Bus binds a PubSub to a single channel and encodes events as JSON.
type Bus struct {
	ps      PubSub
	channel string
}

// NewBus creates a Bus on channel.
func NewBus(ps PubSub, channel string) *Bus {
	return &Bus{ps: ps, channel: channel}
}

// Publish encodes ev and publishes it.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events.Bus.Publish: marshal: %w", err)
	}
	if err := b.ps.Publish(ctx, b.channel, payload); err != nil {
		return fmt.Errorf("events.Bus.Publish: %w", err)
	}
	return nil
}

// Subscribe returns raw encoded events until ctx is done or cleanup is called.
func (b *Bus) Subscribe(ctx context.Context) (<-chan []byte, func(), error) {
	ch, cleanup, err := b.ps.Subscribe(ctx, b.channel)
	if err != nil {
		return nil, nil, fmt.Errorf("events.Bus.Subscribe: %w", err)
	}
	return ch, cleanup, nil
}
