package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the published ACM documents",
	}

	var baseline bool
	check := &cobra.Command{
		Use:   "check",
		Short: "Fetch the watched documents once and report changes",
		Long: `Fetches every watched document, compares it with the hash stored by the
previous check and sends alerts for changes. With --baseline the hashes
are recorded without alerting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := newMonitor(store).Check(cmd.Context(), baseline)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DOCUMENT\tHASH\tLAST CHANGED\tERROR")
			for _, st := range report.States {
				hash := st.Hash
				if len(hash) > 12 {
					hash = hash[:12]
				}
				changed := "-"
				if st.LastChanged != nil {
					changed = st.LastChanged.Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.Key, hash, changed, st.LastError)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d alert(s)\n", len(report.Alerts))
			return nil
		},
	}
	check.Flags().BoolVar(&baseline, "baseline", false, "record hashes without alerting")

	cmd.AddCommand(check)
	return cmd
}
