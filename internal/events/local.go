package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

const localBuffer = 64

// Local is an in-process PubSub. Slow subscribers lose messages rather than
// blocking publishers.
type Local struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

// NewLocal creates an empty broadcaster.
func NewLocal() *Local {
	return &Local{subs: make(map[string]map[chan []byte]struct{})}
}

// Publish fans payload out to every current subscriber of channel.
func (l *Local) Publish(_ context.Context, channel string, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ch := range l.subs[channel] {
		select {
		case ch <- payload:
		default:
			log.Debug().Str("channel", channel).Msg("events: dropping message for slow subscriber")
		}
	}
	return nil
}

// Subscribe registers a subscriber. The returned channel is closed by cleanup
// or when ctx is done.
func (l *Local) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, localBuffer)

	l.mu.Lock()
	if l.subs[channel] == nil {
		l.subs[channel] = make(map[chan []byte]struct{})
	}
	l.subs[channel][ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs[channel], ch)
			if len(l.subs[channel]) == 0 {
				delete(l.subs, channel)
			}
			close(ch)
			l.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		cleanup()
	}()

	return ch, cleanup, nil
}

// Subscribers reports the number of subscribers on channel.
func (l *Local) Subscribers(channel string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs[channel])
}
