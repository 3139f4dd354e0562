// Package redis fans state-change events out across server instances.
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyspace = "unistay:"

	// Matches events.Local so both transports drop at the same depth.
	forwardBuffer = 64
)

// StateChannel returns the Redis channel carrying snapshot change events.
func StateChannel() string { return keyspace + "state" }

// PubSub carries encoded events over Redis pub/sub. It implements
// events.PubSub and the server's health Pinger.
type PubSub struct {
	client redis.UniversalClient
}

// New dials Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ps := NewWithClient(client)
	if err := ps.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: %w", err)
	}

	log.Info().Str("addr", addr).Int("db", db).Msg("redis connected")
	return ps, nil
}

// NewWithClient wraps an existing client, such as a cluster or sentinel
// client. The caller is responsible for having dialed it.
func NewWithClient(client redis.UniversalClient) *PubSub {
	return &PubSub{client: client}
}

// Close releases the underlying client.
func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

// Ping reports whether the server is reachable.
func (ps *PubSub) Ping(ctx context.Context) error {
	if err := ps.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Ping: %w", err)
	}
	return nil
}

// Publish sends payload on channel. Receivers on other instances see it
// even when this instance has no local subscriber.
func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	n, err := ps.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("redis.PubSub.Publish %s: %w", channel, err)
	}
	log.Debug().Str("channel", channel).Int64("receivers", n).Msg("redis publish")
	return nil
}

// Subscribe returns a stream of payloads published on channel. The stream
// closes when ctx is done, when cleanup is called or when Redis drops the
// subscription. A subscriber that falls forwardBuffer messages behind loses
// the newest ones.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	// The first reply is the subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe %s: %w", channel, err)
	}

	out := make(chan []byte, forwardBuffer)
	in := sub.Channel()

	go func() {
		defer close(out)

		var dropped int
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					log.Debug().Str("channel", channel).Int("dropped", dropped).Msg("redis subscription closed")
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					dropped++
					log.Debug().Str("channel", channel).Int("dropped", dropped).Msg("redis: dropping message for slow subscriber")
				}
			}
		}
	}()

	var once sync.Once
	cleanup := func() {
		once.Do(func() { _ = sub.Close() })
	}

	return out, cleanup, nil
}
