package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gosuda/unistay/internal/plan"
)

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Print the subscription plan catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printPlans(cmd.OutOrStdout())
		},
	}
}

func printPlans(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAN\tPRICE\tPROPERTIES\tTENANTS\tAI REMINDERS\t")
	for _, t := range plan.Catalog() {
		name := string(t.Plan)
		if t.Recommended {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			name,
			t.Price+"/mo",
			limitText(t.Limits.MaxProperties),
			limitText(t.Limits.MaxTenants),
			limitText(t.Limits.MaxAIReminders),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("print plans: %w", err)
	}
	return nil
}

func limitText(limit int) string {
	if plan.IsUnlimited(limit) {
		return "unlimited"
	}
	return strconv.Itoa(limit)
}
