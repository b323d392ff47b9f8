package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist-summary/config"
)

func newTestPriceParser(t *testing.T) *PriceParser {
	return NewPriceParser(newTestRules(t).Prices, newTestLogger())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"450,000", "450000"},
		{"450 000", "450000"},
		{"450 000", "450000"},
		{"1.234.567", "1234567"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"35.990", "35990"},
		{"12,5", "12.5"},
		{"999", "999"},
		{"1'299'000", "1299000"},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if err != nil {
			t.Errorf("ParseAmount(%q) error: %v", tt.raw, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseAmount(%q) = %s; want %s", tt.raw, got, tt.want)
		}
	}
}

func TestPriceParserBasePrice(t *testing.T) {
	p := newTestPriceParser(t)

	info := p.Parse("Ceník Octavia\nBase price: 450,000 Kč\n")
	require.NotNil(t, info.BasePrice)
	assert.True(t, info.BasePrice.Amount.Equal(decimal.NewFromInt(450000)), "got %s", info.BasePrice.Amount)
	assert.Equal(t, "CZK", info.BasePrice.Currency)
	assert.Empty(t, info.Variants)
}

func TestPriceParserVariants(t *testing.T) {
	p := newTestPriceParser(t)

	text := `Skoda Octavia ceník platný od 1. 1. 2023
Cena od 459 900,- Kč
Active 1.0 TSI 81 kW ........ 459 900 Kč   386 694 Kč
Ambition 1.5 TSI 110 kW: 539 900 Kč
Style 2.0 TDI 110 kW – 649 900 Kč
Style 2.0 TDI 110 kW – 649 900 Kč
DPH 21 % 112 000 Kč
Metalická barva 18 500 Kč
Strana 2`

	info := p.Parse(text)
	require.NotNil(t, info.BasePrice)
	assert.True(t, info.BasePrice.Amount.Equal(decimal.NewFromInt(459900)))

	names := make([]string, 0, len(info.Variants))
	for _, v := range info.Variants {
		names = append(names, v.Name)
		assert.Equal(t, "CZK", v.Price.Currency)
	}
	assert.Equal(t, []string{
		"Active 1.0 TSI 81 kW",
		"Ambition 1.5 TSI 110 kW",
		"Style 2.0 TDI 110 kW",
		"Metalická barva",
	}, names)
	assert.True(t, info.Variants[1].Price.Amount.Equal(decimal.NewFromInt(539900)))
}

func TestPriceParserRunOnText(t *testing.T) {
	p := newTestPriceParser(t)

	info := p.Parse("Price list 2024 Base price: € 31.990 Comfort € 34.490 Elegance € 37.990")
	require.NotNil(t, info.BasePrice)
	assert.Equal(t, "EUR", info.BasePrice.Currency)
	assert.True(t, info.BasePrice.Amount.Equal(decimal.NewFromInt(31990)))

	require.Len(t, info.Variants, 2)
	assert.Equal(t, "Comfort", info.Variants[0].Name)
	assert.Equal(t, "Elegance", info.Variants[1].Name)
	assert.True(t, info.Variants[1].Price.Amount.Equal(decimal.NewFromInt(37990)))
}

func TestPriceParserFallbackToFirstAmount(t *testing.T) {
	rules := newTestRules(t).Prices

	text := "Vivaro Combi L2 1.5 BlueHDi 146 900 zł\nVivaro Combi L3 2.0 BlueHDi 162 500 zł"

	info := NewPriceParser(rules, newTestLogger()).Parse(text)
	require.NotNil(t, info.BasePrice)
	assert.Equal(t, "PLN", info.BasePrice.Currency)
	assert.True(t, info.BasePrice.Amount.Equal(decimal.NewFromInt(146900)))
	assert.Len(t, info.Variants, 2)

	rules.FallbackToFirstAmount = false
	info = NewPriceParser(rules, newTestLogger()).Parse(text)
	assert.Nil(t, info.BasePrice)
	assert.Len(t, info.Variants, 2)
}

func TestPriceParserNoPrice(t *testing.T) {
	p := newTestPriceParser(t)

	for _, text := range []string{
		"",
		"Technical data only\nEngine 1.5 TSI 110 kW\nLength 4 689 mm",
		"Small item 50 Kč",
	} {
		info := p.Parse(text)
		assert.Nil(t, info.BasePrice, "text %q", text)
		assert.Empty(t, info.Variants, "text %q", text)
	}
}

func TestPriceParserCustomCurrency(t *testing.T) {
	rules := config.PriceRules{
		MinAmount:  "1000",
		BaseLabels: []string{"Grundpreis"},
		Currencies: []config.Currency{{Code: "chf", Symbols: []string{"CHF", "Fr."}}},
	}
	p := NewPriceParser(rules, newTestLogger())

	info := p.Parse("Grundpreis CHF 42'900\nLuxury Line 48'500 Fr.\nKaffee 4.50 CHF")
	require.NotNil(t, info.BasePrice)
	assert.Equal(t, "CHF", info.BasePrice.Currency)
	assert.True(t, info.BasePrice.Amount.Equal(decimal.NewFromInt(42900)))
	require.Len(t, info.Variants, 1)
	assert.Equal(t, "Luxury Line", info.Variants[0].Name)
}
