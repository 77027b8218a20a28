package enums

import "fmt"

// Currency represents supported display denominations for checkout totals.
// USD is the base pricing currency; everything else is a reference currency.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyVES Currency = "VES"
	CurrencyEUR Currency = "EUR"
	CurrencyCOP Currency = "COP"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyVES,
	CurrencyEUR,
	CurrencyCOP,
}

var symbolsByCurrency = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyVES: "Bs.",
	CurrencyEUR: "€",
	CurrencyCOP: "COP$",
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsBase reports whether the currency is the USD base denomination.
func (c Currency) IsBase() bool {
	return c == CurrencyUSD
}

// Symbol returns the display symbol, falling back to the code and then "$".
func (c Currency) Symbol() string {
	if symbol, ok := symbolsByCurrency[c]; ok {
		return symbol
	}
	if c != "" {
		return string(c)
	}
	return "$"
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
