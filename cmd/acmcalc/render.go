package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/warp/acm-engine/acm"
)

var printer = message.NewPrinter(language.English)

func ringgit(d decimal.Decimal) string {
	return printer.Sprintf("RM%.2f", d.InexactFloat64())
}

// renderText prints a result as a claim worksheet.
func renderText(w io.Writer, in acm.Input, res *acm.Result) error {
	fmt.Fprintf(w, "%s\n", res.Edition)
	fmt.Fprintf(w, "%s, %s, %d pax, %d day(s)\n\n",
		strings.ToUpper(string(in.Scheme)), in.Variant.Label(), in.TotalPax(), in.Days)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tCLAIMABLE\tDEFICIT\tDOCUMENT")
	for _, item := range res.Items {
		amount := "actual cost"
		if item.HasAmount() {
			amount = ringgit(item.Amount.Decimal)
			if item.IsEstimate {
				amount += " (est.)"
			}
		}
		deficit := "-"
		if !item.Deficit.IsZero() {
			deficit = ringgit(item.Deficit)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.Label, amount, deficit, item.RequiredDocument)
		for _, g := range item.Groups {
			fmt.Fprintf(tw, "  %s (%d pax)\t%s\t\t\n", g.Label, g.Pax, ringgit(g.Amount))
		}
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t%s\t\n", ringgit(res.TotalClaimable), ringgit(res.TotalDeficit))
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.AirTicketEntitled > 0 {
		fmt.Fprintf(w, "\nAir tickets entitled: %d\n", res.AirTicketEntitled)
	}

	notes := false
	for _, item := range res.Items {
		if item.Note == "" {
			continue
		}
		if !notes {
			fmt.Fprintln(w, "\nNotes:")
			notes = true
		}
		fmt.Fprintf(w, "  %s: %s\n", item.Label, strings.ReplaceAll(item.Note, "\n", "\n    "))
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warning)
		}
	}

	if len(res.Checklist.GrantSubmission) > 0 {
		fmt.Fprintln(w, "\nGrant submission checklist:")
		for _, doc := range res.Checklist.GrantSubmission {
			fmt.Fprintf(w, "  [ ] %s\n", doc.Text)
			for _, sub := range doc.SubItems {
				fmt.Fprintf(w, "      - %s\n", sub)
			}
		}
	}
	return nil
}
