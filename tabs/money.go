package tabs

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money formats prices for one locale and currency.
type Money struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewMoney falls back to en-US and USD for tags it cannot parse.
func NewMoney(locale, code string) Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return Money{printer: message.NewPrinter(tag), unit: unit}
}

func (m Money) Format(amount float64) string {
	if m.printer == nil {
		m = NewMoney("en-US", "USD")
	}
	return m.printer.Sprint(currency.Symbol(m.unit.Amount(amount)))
}
