// Package locale formats the numbers shown by the console front-ends.
package locale

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default is the locale used when none is configured
const Default = "es"

// Numbers formats prices and quantities for one locale.
// Safe for concurrent use.
type Numbers struct {
	printer *message.Printer
}

// NewNumbers creates a formatter for a BCP 47 locale; empty means Default
func NewNumbers(locale string) (*Numbers, error) {
	if locale == "" {
		locale = Default
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Numbers{printer: message.NewPrinter(tag)}, nil
}

// Stock groups digits the way the locale does
func (n *Numbers) Stock(v int64) string {
	return n.printer.Sprintf("%d", v)
}

// Price renders the shortest exact decimal form of a price.
// Example: 1.5 -> "1.5", 2 -> "2"
func Price(v float64) string {
	return decimal.NewFromFloat(v).String()
}
