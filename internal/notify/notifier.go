package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/unistay/internal/messenger"
)

// ErrPlatformNotFound is returned when a messenger platform is not registered.
var ErrPlatformNotFound = errors.New("notify: platform not found") //nolint:gochecknoglobals // sentinel error

// MessengerRegistry maps platform names to Messenger implementations.
type MessengerRegistry interface {
	Get(platform string) (messenger.Messenger, bool)
}

// Reminder is a reviewed rent reminder ready to go out.
type Reminder struct {
	PaymentID   string
	TenantName  string
	TenantEmail string
	Amount      float64
	DueDate     string
	Message     string
}

// Notifier delivers reminders to the operator channel of one messenger
// platform.
type Notifier struct {
	messengers MessengerRegistry
	platform   string
	channelID  string
}

// New creates a Notifier posting to channelID on platform. An empty platform
// means no messenger is configured and reminders are only logged.
func New(messengers MessengerRegistry, platform, channelID string) *Notifier {
	return &Notifier{
		messengers: messengers,
		platform:   platform,
		channelID:  channelID,
	}
}

// Deliver sends r. Returns nil without sending when no platform is configured.
func (n *Notifier) Deliver(ctx context.Context, r Reminder) error {
	if n.platform == "" {
		log.Info().
			Str("payment_id", r.PaymentID).
			Str("tenant", r.TenantName).
			Str("email", r.TenantEmail).
			Str("message", r.Message).
			Msg("reminder recorded (no messenger configured)")
		return nil
	}

	msg, ok := n.messengers.Get(n.platform)
	if !ok {
		return fmt.Errorf("notify.Notifier.Deliver: platform %q: %w", n.platform, ErrPlatformNotFound)
	}

	id, err := msg.SendMessage(ctx, n.channelID, Format(r))
	if err != nil {
		return fmt.Errorf("notify.Notifier.Deliver: send: %w", err)
	}

	log.Info().
		Str("payment_id", r.PaymentID).
		Str("platform", n.platform).
		Str("message_id", string(id)).
		Msg("reminder delivered")
	return nil
}

// Format renders r for a chat channel.
func Format(r Reminder) string {
	return fmt.Sprintf("*Rent reminder* for %s <%s>\nPayment `%s`: R%s due %s\n\n%s",
		r.TenantName, r.TenantEmail, r.PaymentID,
		strconv.FormatFloat(r.Amount, 'f', -1, 64), r.DueDate, r.Message)
}
