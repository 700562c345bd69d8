package domain

import "strings"

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCNY Currency = "CNY"
	CurrencyJPY Currency = "JPY"
	CurrencyKZT Currency = "KZT"
	CurrencyTRY Currency = "TRY"
)

// BaseCurrency is the unit all stored rates are expressed against.
// Its own rate is 1 for every date.
const BaseCurrency = CurrencyRUB

var supportedCurrencies = map[Currency]struct{}{
	CurrencyRUB: {},
	CurrencyUSD: {},
	CurrencyEUR: {},
	CurrencyGBP: {},
	CurrencyCNY: {},
	CurrencyJPY: {},
	CurrencyKZT: {},
	CurrencyTRY: {},
}

func ParseCurrency(raw string) (Currency, bool) {
	code := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := supportedCurrencies[code]
	return code, ok
}

func (c Currency) IsValid() bool {
	_, ok := supportedCurrencies[c]
	return ok
}
