package feed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
)

// ParseValCurs extracts per-unit rates against the base currency from a
// ValCurs XML document. Currencies outside the supported set are
// skipped; a malformed quote skips that currency only.
func ParseValCurs(raw []byte) (map[domain.Currency]decimal.Decimal, error) {
	doc := etree.NewDocument()
	// The document declares windows-1251. The elements read here are
	// plain ASCII, so the bytes pass through undecoded.
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse rate feed document: %w", err)
	}

	root := doc.SelectElement("ValCurs")
	if root == nil {
		return nil, errors.New("rate feed document has no ValCurs element")
	}

	rates := make(map[domain.Currency]decimal.Decimal)
	for _, valute := range root.SelectElements("Valute") {
		code := elementText(valute, "CharCode")
		currency, ok := domain.ParseCurrency(code)
		if !ok {
			continue
		}

		rate, err := unitRate(valute)
		if err != nil {
			logger.Error("rate feed quote skipped", err, logger.Fields{
				"currency": code,
			})
			continue
		}

		rates[currency] = rate
	}

	if len(rates) == 0 {
		return nil, errors.New("rate feed document carried no usable quotes")
	}

	return rates, nil
}

// unitRate prefers the VunitRate element when present; older documents
// only carry Value per Nominal units.
func unitRate(valute *etree.Element) (decimal.Decimal, error) {
	if raw := elementText(valute, "VunitRate"); raw != "" {
		return parseFeedDecimal(raw)
	}

	value, err := parseFeedDecimal(elementText(valute, "Value"))
	if err != nil {
		return decimal.Zero, err
	}

	nominal, err := parseFeedDecimal(elementText(valute, "Nominal"))
	if err != nil {
		return decimal.Zero, err
	}
	if nominal.IsZero() {
		return decimal.Zero, errors.New("quote nominal is zero")
	}

	return value.Div(nominal), nil
}

// parseFeedDecimal accepts the feed's comma decimal separator.
func parseFeedDecimal(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		return decimal.Zero, errors.New("empty decimal value")
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal value %q: %w", raw, err)
	}
	return value, nil
}

func elementText(parent *etree.Element, name string) string {
	child := parent.SelectElement(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
