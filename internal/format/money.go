// Package format renders amounts for certificates, the dashboard and the CLI.
package format

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

var printer = message.NewPrinter(language.English)

// Amount renders an amount with its currency, e.g. "$ 1,200.00" or
// "BTC 0.015". Crypto currencies have no ISO unit and keep their code.
func Amount(amount float64, code domain.Currency) string {
	if unit, err := currency.ParseISO(string(code)); err == nil {
		return printer.Sprint(currency.Symbol(unit.Amount(amount)))
	}
	return printer.Sprintf("%s %v", string(code), number.Decimal(amount, number.MaxFractionDigits(8)))
}

// Total renders a mixed-currency total without a unit, e.g. "2,150".
func Total(amount float64) string {
	return printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}

// Topic collapses runs of whitespace in an admin-entered topic. The wording
// and casing stay as typed.
func Topic(topic string) string {
	return strings.Join(strings.Fields(topic), " ")
}
