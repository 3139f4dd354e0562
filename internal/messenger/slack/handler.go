package slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/plan"
	"github.com/gosuda/unistay/internal/views"
)

// SnapshotSource provides the committed state the command replies are built from.
type SnapshotSource interface {
	Snapshot() *domain.State
}

// Handler answers /unistay slash commands. Replies are ephemeral and read-only.
type Handler struct {
	signingSecret string
	source        SnapshotSource
	now           func() time.Time
}

// NewHandler creates a new Slack slash command handler.
func NewHandler(signingSecret string, source SnapshotSource) *Handler {
	return &Handler{
		signingSecret: signingSecret,
		source:        source,
		now:           time.Now,
	}
}

// HandleCommand is an http.HandlerFunc for POST /slack/commands.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if verifyErr := h.verifySignature(r.Header, body); verifyErr != nil {
		log.Debug().Err(verifyErr).Msg("slack command signature")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	// The body was consumed for signature verification; restore it for form parsing.
	r.Body = io.NopCloser(bytes.NewReader(body))

	sc, err := slacklib.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "failed to parse command", http.StatusBadRequest)
		return
	}

	cmd := ParseCommand(sc.Text)
	log.Info().Str("action", string(cmd.Action)).Str("slack_user", sc.UserID).Msg("slack command")

	msg := h.reply(cmd)
	w.Header().Set("Content-Type", "application/json")
	if encodeErr := json.NewEncoder(w).Encode(msg); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("encode slack command response")
	}
}

func (h *Handler) reply(cmd Command) slacklib.Msg {
	msg := slacklib.Msg{ResponseType: "ephemeral"}
	snap := h.source.Snapshot()

	switch cmd.Action {
	case CommandActionStatus:
		d := views.BuildDashboard(snap, h.now())
		msg.Text = fmt.Sprintf("Collected R%s, pending R%s, overdue R%s",
			formatAmount(d.Collected), formatAmount(d.Pending), formatAmount(d.Overdue))
		msg.Blocks = slacklib.Blocks{BlockSet: BuildStatusBlocks(d, plan.UsageOf(snap))}
	case CommandActionOverdue:
		rows := views.FilterPayments(snap, domain.PaymentStatusOverdue)
		msg.Text = fmt.Sprintf("%d overdue payment(s)", len(rows))
		msg.Blocks = slacklib.Blocks{BlockSet: BuildOverdueBlocks(rows)}
	case CommandActionPlan:
		usage := plan.UsageOf(snap)
		msg.Text = fmt.Sprintf("Plan %s: properties %s, tenants %s, AI reminders %s",
			usage.Plan, meterText(usage.Properties), meterText(usage.Tenants), meterText(usage.AIReminders))
	case CommandActionHelp:
		msg.Text = HelpText
	default:
		msg.Text = fmt.Sprintf("Unknown command %q.\n%s", cmd.Raw, HelpText)
	}
	return msg
}

// verifySignature validates the Slack request signature using the signing secret.
func (h *Handler) verifySignature(header http.Header, body []byte) error {
	sv, err := slacklib.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return fmt.Errorf("slack.Handler.verifySignature: create verifier: %w", err)
	}

	if _, writeErr := sv.Write(body); writeErr != nil {
		return fmt.Errorf("slack.Handler.verifySignature: write body: %w", writeErr)
	}

	if ensureErr := sv.Ensure(); ensureErr != nil {
		return fmt.Errorf("slack.Handler.verifySignature: ensure: %w", ensureErr)
	}

	return nil
}
