package storage

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"pricelist-summary/models"
)

// FormatPrice renders a price for people, e.g. "450 000,00 Kč". Currencies
// go-money does not know fall back to "<amount> <code>".
func FormatPrice(p models.Price) string {
	currency := money.GetCurrency(p.Currency)
	if currency == nil {
		return p.Amount.String() + " " + p.Currency
	}
	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := p.Amount.Mul(multiplier).Round(0).IntPart()
	return money.New(minor, currency.Code).Display()
}
