package invoice

import "fmt"

// currencySymbols covers the currencies with a conventional prefix symbol.
// Anything else falls back to "CODE 12.34".
var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"NZD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"BRL": "R$",
	"MXN": "$",
	"CHF": "CHF ",
	"SEK": "kr ",
	"NOK": "kr ",
	"DKK": "kr ",
	"SGD": "$",
	"HKD": "$",
	"ZAR": "R",
}

// zeroDecimalCurrencies have no minor unit; cents are whole units for them.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
}

// FormatMoney renders an amount in cents in the given currency. Negative
// amounts keep the sign ahead of the symbol: -$12.34.
func FormatMoney(cents int64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}

	if zeroDecimalCurrencies[currency] {
		return fmt.Sprintf("%s%s%d", sign, symbol, cents)
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}
