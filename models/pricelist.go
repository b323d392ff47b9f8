package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Filename rule that produced a record's metadata.
const (
	SourceCanonical = "canonical"
	SourceLegacy    = "legacy"
)

// ModelYear is a single model year (From == To) or a range. The zero value means unknown.
type ModelYear struct {
	From int
	To   int
}

// SingleYear returns a ModelYear covering exactly one year.
func SingleYear(y int) ModelYear {
	return ModelYear{From: y, To: y}
}

// Known reports whether any year is set.
func (y ModelYear) Known() bool {
	return y.From != 0
}

// IsRange reports whether the year spans more than one year.
func (y ModelYear) IsRange() bool {
	return y.Known() && y.To != y.From
}

// String renders "2023", "2023-2024" or "" for unknown.
func (y ModelYear) String() string {
	switch {
	case !y.Known():
		return ""
	case y.IsRange():
		return fmt.Sprintf("%d-%d", y.From, y.To)
	default:
		return fmt.Sprintf("%d", y.From)
	}
}

// Compare orders by From then To. Unknown years sort before any known year.
func (y ModelYear) Compare(o ModelYear) int {
	if y.From != o.From {
		return cmpInt(y.From, o.From)
	}
	return cmpInt(y.To, o.To)
}

// Price is an amount in a single currency.
type Price struct {
	Amount   decimal.Decimal
	Currency string
}

// VariantPrice is a trim or configuration line taken from a price list.
type VariantPrice struct {
	Name  string
	Price Price
}

// FilenameInfo is the metadata carried by a price list's filename.
type FilenameInfo struct {
	Manufacturer string
	Model        string
	Year         ModelYear
	ValidFrom    *Date
	ValidTo      *Date
	Source       string
}

// PriceListRecord is one parsed PDF.
type PriceListRecord struct {
	FilenameInfo

	FileName   string
	Href       string
	BasePrice  *Price
	Variants   []VariantPrice
	PriceFound bool
}

// AllPrices returns the base price followed by every variant price.
func (r *PriceListRecord) AllPrices() []Price {
	prices := make([]Price, 0, len(r.Variants)+1)
	if r.BasePrice != nil {
		prices = append(prices, *r.BasePrice)
	}
	for _, v := range r.Variants {
		prices = append(prices, v.Price)
	}
	return prices
}

// YearGroup holds every price list of one model year, one per validity window.
type YearGroup struct {
	Year    ModelYear
	Records []*PriceListRecord
}

// ModelEntry is a product line of a manufacturer.
type ModelEntry struct {
	Name        string
	Years       []*YearGroup
	PriceRanges []PriceRange
}

// PriceListCount returns the number of records across all years.
func (m *ModelEntry) PriceListCount() int {
	n := 0
	for _, y := range m.Years {
		n += len(y.Records)
	}
	return n
}

// ManufacturerGroup is a manufacturer and its models.
type ManufacturerGroup struct {
	Name   string
	Models []*ModelEntry
}

// PriceRange is the lowest and highest price observed in one currency.
type PriceRange struct {
	Currency string
	Min      decimal.Decimal
	Max      decimal.Decimal
	Count    int
}

// SummaryStatistics is computed once after aggregation.
type SummaryStatistics struct {
	TotalManufacturers int
	TotalModels        int
	TotalPriceLists    int
	PricedPriceLists   int
	TotalVariants      int
	PriceRanges        []PriceRange
	// MinPrice and MaxPrice are taken from the currency with the most observations.
	MinPrice *Price
	MaxPrice *Price
}

// SkippedFile records a PDF left out of the summary.
type SkippedFile struct {
	FileName string
	Kind     string
	Reason   string
}

// Kinds of SkippedFile.
const (
	SkipFilename = "filename"
	SkipPDF      = "pdf"
)

// Summary is the aggregate tree handed to the output writers.
type Summary struct {
	Manufacturers []*ManufacturerGroup
	Stats         SummaryStatistics
	Skipped       []SkippedFile
}

// RunCounts tallies what happened to the scanned files during one run.
type RunCounts struct {
	Found        int
	Duplicates   int
	Processed    int
	Skipped      int
	PriceMissing int
}
