package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kyleking/tcnotify/internal/history"
)

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var (
		pipeline string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently finished builds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := history.LoadFrom(flags.historyPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", flags.historyPath, err)
			}

			entries := store.Recent(pipeline, limit)
			if len(entries) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no finished builds recorded")
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FINISHED\tPIPELINE\tBUILD\tSTATUS\tUSER\tBRANCH")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t#%s\t%s\t%s\t%s\n",
					e.FinishedAt.Local().Format("2006-01-02 15:04"),
					e.Pipeline, e.Number, e.Status, e.User, e.Branch)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&pipeline, "pipeline-id", "", "only show this build type id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of builds to list (0 for all)")

	return cmd
}
