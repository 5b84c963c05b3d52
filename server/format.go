package server

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// euroPrinter formats amounts with dot thousands separators (6000 becomes
// "6.000"), matching the convention the templates were authored with.
var euroPrinter = message.NewPrinter(language.Spanish)

// formatEuro renders a whole euro amount with a trailing currency symbol,
// e.g. 6000 -> "6.000€".
func formatEuro(amount int) string {
	return euroPrinter.Sprintf("%v€", number.Decimal(amount))
}
