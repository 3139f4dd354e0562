package slack

import (
	"fmt"
	"strconv"
	"strings"

	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/unistay/internal/plan"
	"github.com/gosuda/unistay/internal/views"
)

// BuildTextBlocks wraps text in a single markdown section.
func BuildTextBlocks(text string) []slacklib.Block {
	return []slacklib.Block{markdownSection(text)}
}

// BuildStatusBlocks renders the portfolio overview for the /unistay status command.
func BuildStatusBlocks(d views.Dashboard, usage plan.Usage) []slacklib.Block {
	header := slacklib.NewHeaderBlock(
		slacklib.NewTextBlockObject(slacklib.PlainTextType, "UniStay portfolio", false, false),
	)

	fields := []*slacklib.TextBlockObject{
		slacklib.NewTextBlockObject(slacklib.MarkdownType, "*Collected*\nR"+formatAmount(d.Collected), false, false),
		slacklib.NewTextBlockObject(slacklib.MarkdownType, "*Pending*\nR"+formatAmount(d.Pending), false, false),
		slacklib.NewTextBlockObject(slacklib.MarkdownType, "*Overdue*\nR"+formatAmount(d.Overdue), false, false),
		slacklib.NewTextBlockObject(slacklib.MarkdownType, fmt.Sprintf("*Tenants*\n%d", d.ActiveTenants), false, false),
		slacklib.NewTextBlockObject(slacklib.MarkdownType, fmt.Sprintf("*Occupancy*\n%d%%", d.AverageOccupancy), false, false),
		slacklib.NewTextBlockObject(slacklib.MarkdownType, fmt.Sprintf("*Plan*\n`%s`", usage.Plan), false, false),
	}
	stats := slacklib.NewSectionBlock(nil, fields, nil)

	quota := fmt.Sprintf("AI reminders: %s", meterText(usage.AIReminders))
	footer := slacklib.NewContextBlock("quota",
		slacklib.NewTextBlockObject(slacklib.MarkdownType, quota, false, false),
	)

	return []slacklib.Block{header, stats, footer}
}

// BuildOverdueBlocks lists overdue payments for the /unistay overdue command.
func BuildOverdueBlocks(rows []views.PaymentRow) []slacklib.Block {
	if len(rows) == 0 {
		return []slacklib.Block{markdownSection("No overdue payments. :tada:")}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%d overdue payment(s)*\n", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "• %s (room %s): R%s due %s\n", r.TenantName, r.RoomNumber, formatAmount(r.Amount), r.DueDate)
	}
	return []slacklib.Block{markdownSection(strings.TrimRight(b.String(), "\n"))}
}

func markdownSection(text string) *slacklib.SectionBlock {
	return slacklib.NewSectionBlock(
		slacklib.NewTextBlockObject(slacklib.MarkdownType, text, false, false),
		nil,
		nil,
	)
}

func meterText(m plan.Meter) string {
	if m.Unlimited {
		return fmt.Sprintf("%d used (unlimited)", m.Used)
	}
	return fmt.Sprintf("%d / %d", m.Used, m.Limit)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
