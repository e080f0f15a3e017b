package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show recent requests from the journal",
	Example: `  podpanel history --journal data/journal.db --limit 5`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if a.cfg.Journal.Path == "" {
				return fmt.Errorf("history needs a journal: set --journal or PANEL_JOURNAL_PATH")
			}
			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := a.panel.History(ctx, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTION\tTARGET\tSTATUS\tOUTCOME")
			for _, e := range entries {
				status := "ok"
				if e.Failed {
					status = "failed"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Action, e.Target, status, e.Outcome)
			}
			return tw.Flush()
		})
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
