package output

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "CAD"

// FormatMoney renders amount in the given ISO currency with grouping,
// e.g. "$1,234.56". Unknown codes fall back to "<code> 1234.56".
func FormatMoney(amount decimal.Decimal, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	code = strings.ToUpper(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", code, amount.StringFixed(2))
	}

	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// FormatWholeMoney renders amount rounded to whole units with the currency's
// own separators and symbol, e.g. "$1,235" or "R$1.235".
func FormatWholeMoney(amount decimal.Decimal, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	code = strings.ToUpper(code)
	whole := amount.Round(0)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", code, whole.StringFixed(0))
	}

	f := cur.Formatter()
	f.Fraction = 0
	return f.Format(whole.IntPart())
}

// FormatSignedMoney prefixes positive amounts with "+".
func FormatSignedMoney(amount decimal.Decimal, code string) string {
	if amount.IsPositive() {
		return "+" + FormatMoney(amount, code)
	}
	return FormatMoney(amount, code)
}

// FormatCompact abbreviates large amounts: 1.25M, 340.0K.
func FormatCompact(d decimal.Decimal) string {
	switch {
	case d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)):
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	case d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// FormatPercent renders a fraction (0.875) as "87.5%".
func FormatPercent(fraction decimal.Decimal, places int32) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(places) + "%"
}
