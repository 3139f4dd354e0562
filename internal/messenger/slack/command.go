package slack

import (
	"strings"
)

// CommandAction represents the type of parsed command.
type CommandAction string

const (
	// CommandActionStatus asks for the portfolio overview.
	CommandActionStatus CommandAction = "status"
	// CommandActionOverdue lists overdue payments.
	CommandActionOverdue CommandAction = "overdue"
	// CommandActionPlan shows the active plan and quota usage.
	CommandActionPlan CommandAction = "plan"
	// CommandActionHelp indicates a help request.
	CommandActionHelp CommandAction = "help"
	// CommandActionUnknown indicates an unrecognized command.
	CommandActionUnknown CommandAction = "unknown"
)

// Command represents a parsed /unistay slash command.
type Command struct {
	Action CommandAction
	Raw    string // original text
}

// ParseCommand extracts a command from the text following /unistay. Empty
// text means status. Only the first word is significant.
func ParseCommand(text string) Command {
	cmd := Command{
		Action: CommandActionUnknown,
		Raw:    text,
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		cmd.Action = CommandActionStatus
		return cmd
	}

	switch strings.ToLower(fields[0]) {
	case "status", "dashboard":
		cmd.Action = CommandActionStatus
	case "overdue", "late":
		cmd.Action = CommandActionOverdue
	case "plan", "subscription", "usage":
		cmd.Action = CommandActionPlan
	case "help", "?":
		cmd.Action = CommandActionHelp
	}

	return cmd
}

// HelpText lists the supported subcommands.
const HelpText = "*UniStay commands*\n" +
	"• `/unistay status`: collected, pending and overdue totals\n" +
	"• `/unistay overdue`: overdue payments with tenant and room\n" +
	"• `/unistay plan`: active plan and quota usage\n" +
	"• `/unistay help`: this message"
