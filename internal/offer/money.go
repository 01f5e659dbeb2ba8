package offer

import (
	"fmt"

	"github.com/kvothesson/chat-saas-gateway/internal/fallback"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale and currency used when the requested pair cannot be formatted.
const (
	FallbackLocale   = "en-US"
	FallbackCurrency = "USD"
)

// Money formats whole currency amounts for one locale/currency pair.
type Money struct {
	tag     language.Tag
	unit    currency.Unit
	scale   int
	printer *message.Printer
}

// NewMoney builds a formatter for the pair, or an error when the locale is
// not a well-formed BCP 47 tag or the code is not an ISO 4217 currency.
func NewMoney(locale, code string) (*Money, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)

	return &Money{
		tag:     tag,
		unit:    unit,
		scale:   scale,
		printer: message.NewPrinter(tag),
	}, nil
}

// MoneyFor returns a formatter for the pair, degrading to en-US/USD instead
// of failing. It never returns nil.
func MoneyFor(locale, code string) *Money {
	m, _, err := fallback.First(
		fallback.Step[*Money]{Name: "requested", Run: func() (*Money, error) { return NewMoney(locale, code) }},
		fallback.Step[*Money]{Name: "fixed", Run: func() (*Money, error) { return NewMoney(FallbackLocale, FallbackCurrency) }},
	)
	if err != nil {
		// en-US/USD is always parseable.
		panic(err)
	}
	return m
}

// Format renders an amount with the locale's symbol, grouping and decimal separators.
func (m *Money) Format(amount int64) string {
	sym := m.printer.Sprint(currency.NarrowSymbol(m.unit))
	num := m.printer.Sprint(number.Decimal(amount, number.Scale(m.scale)))

	// English locales glue the symbol to the number ($1,200.00); the rest
	// separate them with a non-breaking space.
	if base, _ := m.tag.Base(); base.String() == "en" {
		return sym + num
	}
	return sym + "\u00a0" + num
}

// Locale returns the tag the formatter actually uses.
func (m *Money) Locale() string {
	return m.tag.String()
}

// Currency returns the ISO code the formatter actually uses.
func (m *Money) Currency() string {
	return m.unit.String()
}
