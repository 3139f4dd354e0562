// Package reminder drafts and sends rent reminders. Drafting goes through a
// text generator and always yields usable text: any generator failure falls
// back to a fixed template.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/metrics"
)

// DefaultTimeout bounds one generator call.
const DefaultTimeout = 15 * time.Second

// ErrNoGenerator means no generator is configured (no API key).
var ErrNoGenerator = errors.New("reminder: no generator configured") //nolint:gochecknoglobals // sentinel error

// Source says where a draft's text came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Draft is an unsent reminder. Err holds the generator failure when Source is
// SourceFallback.
type Draft struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
	Err    error  `json:"-"`
}

// FallbackReason classifies Err for callers outside the service. Upstream
// error text stays in the logs.
func (d Draft) FallbackReason() string {
	switch {
	case d.Err == nil:
		return ""
	case errors.Is(d.Err, ErrNoGenerator):
		return "not configured"
	case errors.Is(d.Err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(d.Err, ErrEmptyResponse):
		return "empty response"
	case errors.Is(d.Err, ErrBlocked):
		return "blocked"
	default:
		return "upstream error"
	}
}

// Drafter produces reminder drafts.
type Drafter struct {
	gen     Generator
	timeout time.Duration
	metrics *metrics.Recorder
}

// NewDrafter creates a Drafter. gen may be nil, in which case every draft is
// the fallback. A non-positive timeout uses DefaultTimeout.
func NewDrafter(gen Generator, timeout time.Duration, m *metrics.Recorder) *Drafter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Drafter{gen: gen, timeout: timeout, metrics: m}
}

// Draft writes a reminder for t about p. It never fails; see Draft.Err.
func (d *Drafter) Draft(ctx context.Context, t domain.Tenant, p domain.Payment) Draft {
	draft := d.draft(ctx, t, p)
	d.metrics.ObserveDraft(string(draft.Source))
	if draft.Err != nil {
		log.Warn().Err(draft.Err).Str("payment_id", p.ID).Msg("reminder draft fell back to template")
	}
	return draft
}

func (d *Drafter) draft(ctx context.Context, t domain.Tenant, p domain.Payment) Draft {
	if d.gen == nil {
		return Draft{Text: Fallback(t, p), Source: SourceFallback, Err: ErrNoGenerator}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	text, err := d.gen.Generate(ctx, Prompt(t, p))
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		return Draft{
			Text:   Fallback(t, p),
			Source: SourceFallback,
			Err:    fmt.Errorf("reminder.Drafter.Draft: %w", err),
		}
	}
	return Draft{Text: strings.TrimSpace(text), Source: SourceGenerated}
}

// Prompt is the instruction sent to the generator.
func Prompt(t domain.Tenant, p domain.Payment) string {
	return fmt.Sprintf(`Draft a professional yet friendly rent reminder for a student tenant.
Tenant Name: %s
Property Address context: Private Student Accommodation
Amount Due: R%s
Due Date: %s
Tone: Helpful, polite, but firm about the deadline. Mention that as students, managing finances is hard but timely payment is crucial for house maintenance.
Keep it concise and suitable for an email or WhatsApp message.`, t.Name, formatAmount(p.Amount), p.DueDate)
}

// Fallback is the fixed reminder used whenever generation fails.
func Fallback(t domain.Tenant, p domain.Payment) string {
	return fmt.Sprintf("Hi %s, this is a reminder that your rent of R%s was due on %s. Please ensure this is paid as soon as possible. Thank you!",
		t.Name, formatAmount(p.Amount), p.DueDate)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
