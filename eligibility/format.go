package eligibility

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// rm renders an amount in ringgit with thousands separators: RM10,500.
func rm(d decimal.Decimal) string {
	if d.IsInteger() {
		return "RM" + printer.Sprintf("%d", d.IntPart())
	}
	return "RM" + printer.Sprintf("%.2f", d.InexactFloat64())
}

// pct renders a fraction as a percentage: 0.5 -> "50%".
func pct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

func dec(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// whole rounds to currency units, half away from zero.
func whole(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
