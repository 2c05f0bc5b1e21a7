/*
main.go - Application entry point

PURPOSE:
  Command-line front end of the ACM eligibility engine. Runs the HTTP
  server, calculates single events from files, checks the published
  documents for changes, and prints the edition in force.

COMMANDS:
  serve              HTTP API, admin surface and document monitor
  calculate <file>   Calculate one event from a YAML or JSON file
  monitor check      Run one document check and print the result
  version            Print the edition stamp of the loaded configuration

CONFIGURATION:
  Flags override environment variables (ACM_ prefix), which override
  acmcalc.yaml, which overrides the built-in defaults. A .env file in the
  working directory is loaded first when present. See config.go.

EXAMPLES:
  # Serve with an in-memory database
  ACM_DB=":memory:" ./acmcalc serve

  # Calculate an event against a draft rate table
  ./acmcalc calculate event.yaml --rates draft-rates.yaml --format text

SEE ALSO:
  - config.go: Configuration keys and defaults
  - serve.go: Server startup and graceful shutdown
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/warp/acm-engine/logging"
)

var (
	cfgFile string
	cfg     *Config
	log     = logging.Nop()

	rootCmd = &cobra.Command{
		Use:           "acmcalc",
		Short:         "HRD Corp ACM training grant calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			l, err := logging.New(c.LogLevel)
			if err != nil {
				return err
			}
			cfg, log = c, l
			logging.L = l
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./acmcalc.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (\":memory:\" for none)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(monitorCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
