package feed

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

const sampleValCurs = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="01.09.2026" name="Foreign Currency Market">
    <Valute ID="R01235">
        <NumCode>840</NumCode>
        <CharCode>USD</CharCode>
        <Nominal>1</Nominal>
        <Name>Доллар США</Name>
        <Value>80,1234</Value>
        <VunitRate>80,1234</VunitRate>
    </Valute>
    <Valute ID="R01239">
        <NumCode>978</NumCode>
        <CharCode>EUR</CharCode>
        <Nominal>1</Nominal>
        <Name>Евро</Name>
        <Value>90,5</Value>
    </Valute>
    <Valute ID="R01335">
        <NumCode>398</NumCode>
        <CharCode>KZT</CharCode>
        <Nominal>100</Nominal>
        <Name>Тенге</Name>
        <Value>16,25</Value>
    </Valute>
    <Valute ID="R01100">
        <NumCode>944</NumCode>
        <CharCode>AZN</CharCode>
        <Nominal>1</Nominal>
        <Name>Манат</Name>
        <Value>47,0</Value>
    </Valute>
</ValCurs>`

func TestParseValCursExtractsSupportedCurrencies(t *testing.T) {
	rates, err := ParseValCurs([]byte(sampleValCurs))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !rates[domain.CurrencyUSD].Equal(decimal.RequireFromString("80.1234")) {
		t.Fatalf("expected USD 80.1234, got %s", rates[domain.CurrencyUSD].String())
	}
	if !rates[domain.CurrencyEUR].Equal(decimal.RequireFromString("90.5")) {
		t.Fatalf("expected EUR 90.5, got %s", rates[domain.CurrencyEUR].String())
	}
	// 16.25 per 100 units.
	if !rates[domain.CurrencyKZT].Equal(decimal.RequireFromString("0.1625")) {
		t.Fatalf("expected KZT 0.1625, got %s", rates[domain.CurrencyKZT].String())
	}
}

func TestParseValCursSkipsUnsupportedCurrencies(t *testing.T) {
	rates, err := ParseValCurs([]byte(sampleValCurs))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := rates[domain.Currency("AZN")]; ok {
		t.Fatal("expected unsupported currency to be skipped")
	}
}

func TestParseValCursSkipsMalformedQuote(t *testing.T) {
	doc := `<ValCurs>
        <Valute><CharCode>USD</CharCode><Nominal>1</Nominal><Value>not-a-number</Value></Valute>
        <Valute><CharCode>EUR</CharCode><Nominal>1</Nominal><Value>90,5</Value></Valute>
    </ValCurs>`

	rates, err := ParseValCurs([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := rates[domain.CurrencyUSD]; ok {
		t.Fatal("expected malformed USD quote to be skipped")
	}
	if !rates[domain.CurrencyEUR].Equal(decimal.RequireFromString("90.5")) {
		t.Fatalf("expected EUR 90.5, got %s", rates[domain.CurrencyEUR].String())
	}
}

func TestParseValCursRejectsEmptyDocument(t *testing.T) {
	if _, err := ParseValCurs([]byte(`<ValCurs></ValCurs>`)); err == nil {
		t.Fatal("expected error for document with no usable quotes")
	}
	if _, err := ParseValCurs([]byte(`not xml at all <<<`)); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
