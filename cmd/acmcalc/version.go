package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build and the edition in force",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, reg, err := openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			ed := reg.Snapshot().Edition
			fmt.Fprintf(cmd.OutOrStdout(), "acmcalc %s\n%s\n", version, ed.Label())
			if ed.LastReviewed != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Last reviewed: %s\n", ed.LastReviewed)
			}
			return nil
		},
	}
}
