package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	json "github.com/goccy/go-json"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/api"
	"github.com/warp/acm-engine/eligibility"
	"github.com/warp/acm-engine/factory"
)

func calculateCmd() *cobra.Command {
	var (
		ratesFile string
		docsFile  string
		scenario  string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "calculate [event-file]",
		Short: "Calculate one training event",
		Long: `Calculates the claimable ACM amounts for one training event read from a
YAML or JSON file ("-" reads stdin), or for a canned scenario.

The published configuration in the database is used unless --rates or
--docs name a draft file to calculate against instead.`,
		Example: `  acmcalc calculate event.yaml
  acmcalc calculate --scenario slb-joint --format text
  acmcalc calculate event.json --rates draft-rates.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q (json or text)", format)
			}

			in, err := readEvent(cmd.InOrStdin(), args, scenario)
			if err != nil {
				return err
			}

			store, reg, err := openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			f := factory.New()
			var opts []eligibility.Option
			if ratesFile != "" {
				body, err := os.ReadFile(ratesFile)
				if err != nil {
					return err
				}
				rates, err := f.ParseRates(body)
				if err != nil {
					return err
				}
				opts = append(opts, eligibility.WithRates(rates))
			}
			if docsFile != "" {
				body, err := os.ReadFile(docsFile)
				if err != nil {
					return err
				}
				docs, err := f.ParseDocuments(body)
				if err != nil {
					return err
				}
				opts = append(opts, eligibility.WithDocuments(docs))
			}

			res, err := eligibility.New(reg.Holder()).Calculate(in, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "text" {
				return renderText(out, in, res)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(api.CalculateResponse{Input: in, Result: res})
		},
	}
	cmd.Flags().StringVar(&ratesFile, "rates", "", "draft rate table (YAML or JSON)")
	cmd.Flags().StringVar(&docsFile, "docs", "", "draft document table (YAML or JSON)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "canned scenario id instead of a file")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, text)")
	return cmd
}

// readEvent loads the event from a file, stdin or a canned scenario and
// applies input defaults.
func readEvent(stdin io.Reader, args []string, scenario string) (acm.Input, error) {
	switch {
	case scenario != "" && len(args) > 0:
		return acm.Input{}, errors.New("give either an event file or --scenario, not both")
	case scenario != "":
		in, ok := api.ScenarioInput(scenario)
		if !ok {
			return acm.Input{}, fmt.Errorf("unknown scenario %q", scenario)
		}
		return in.WithDefaults(), nil
	case len(args) == 0:
		return acm.Input{}, errors.New("an event file or --scenario is required")
	}

	var (
		body []byte
		err  error
	)
	if args[0] == "-" {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(args[0])
	}
	if err != nil {
		return acm.Input{}, err
	}

	var in acm.Input
	if err := factory.Decode(body, &in); err != nil {
		return acm.Input{}, fmt.Errorf("read event: %w", err)
	}
	return in.WithDefaults(), nil
}
