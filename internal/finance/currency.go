package finance

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/piwi3910/villaplan/internal/model"
)

// ErrInvalidExchangeRate is returned when a conversion needs a rate that is not positive.
var ErrInvalidExchangeRate = errors.New("exchange rate must be positive")

// ConvertCurrency converts amount between USD and DOP using rate (DOP per USD).
// Converting between equal currencies only rounds. A non-positive rate yields 0.
func ConvertCurrency(amount float64, from, to model.Currency, rate float64) float64 {
	if from == to {
		return Round2(amount)
	}
	if rate <= 0 {
		return 0
	}
	switch {
	case from == model.CurrencyUSD && to == model.CurrencyDOP:
		return cents(dec(amount).Mul(dec(rate)))
	case from == model.CurrencyDOP && to == model.CurrencyUSD:
		return cents(dec(amount).Div(dec(rate)))
	default:
		return Round2(amount)
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatMoney renders amount with the currency symbol, thousands separators
// and two decimals, e.g. "US$ 12,000.00".
func FormatMoney(amount float64, c model.Currency) string {
	n := number.Decimal(Round2(amount), number.MinFractionDigits(2), number.MaxFractionDigits(2))
	return printer.Sprintf("%s %v", c.Symbol(), n)
}

// ConvertAnalysis re-expresses every monetary input of a in currency to and
// re-derives the totals. The exchange rate and timestamps are kept.
func ConvertAnalysis(a model.FinancialAnalysis, to model.Currency) (model.FinancialAnalysis, error) {
	if to != model.CurrencyUSD && to != model.CurrencyDOP {
		return model.FinancialAnalysis{}, fmt.Errorf("failed to convert analysis: %w: %s", model.ErrUnsupportedCurrency, to)
	}
	from := a.Currency
	if from == "" {
		from = model.CurrencyUSD
	}
	if from == to {
		return RecalculateFinancialAnalysis(a, nil, nil, a.UpdatedAt), nil
	}
	if a.ExchangeRate <= 0 {
		return model.FinancialAnalysis{}, fmt.Errorf("failed to convert analysis to %s: %w", to, ErrInvalidExchangeRate)
	}

	conv := func(v float64) float64 { return ConvertCurrency(v, from, to, a.ExchangeRate) }

	out := a
	out.Currency = to
	out.LandCost = conv(a.LandCost)
	out.AmenitiesCost = conv(a.AmenitiesCost)
	out.LegalCosts = conv(a.LegalCosts)
	out.TotalMonthlyMaintenance = conv(a.TotalMonthlyMaintenance)
	out.OtherCosts = make([]model.OtherCost, len(a.OtherCosts))
	for i, c := range a.OtherCosts {
		c.Amount = conv(c.Amount)
		out.OtherCosts[i] = c
	}
	return RecalculateFinancialAnalysis(out, nil, nil, a.UpdatedAt), nil
}
