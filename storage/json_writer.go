package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"pricelist-summary/models"
	"pricelist-summary/utils"
)

// The document types below fix the field order and names of the data file
// the viewer reads.

type priceDoc struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Display  string      `json:"display"`
}

type variantDoc struct {
	Name  string   `json:"name"`
	Price priceDoc `json:"price"`
}

type priceListDoc struct {
	FileName     string       `json:"fileName"`
	Href         string       `json:"href"`
	Manufacturer string       `json:"manufacturer"`
	Model        string       `json:"model"`
	Year         string       `json:"year,omitempty"`
	ValidFrom    *models.Date `json:"validFrom,omitempty"`
	ValidTo      *models.Date `json:"validTo,omitempty"`
	Source       string       `json:"source"`
	PriceFound   bool         `json:"priceFound"`
	BasePrice    *priceDoc    `json:"basePrice,omitempty"`
	Variants     []variantDoc `json:"variants"`
}

type yearDoc struct {
	Year       string         `json:"year"`
	YearFrom   int            `json:"yearFrom,omitempty"`
	YearTo     int            `json:"yearTo,omitempty"`
	PriceLists []priceListDoc `json:"priceLists"`
}

type priceRangeDoc struct {
	Currency string   `json:"currency"`
	Min      priceDoc `json:"min"`
	Max      priceDoc `json:"max"`
	Count    int      `json:"count"`
}

type modelDoc struct {
	Name        string          `json:"name"`
	PriceRanges []priceRangeDoc `json:"priceRanges"`
	Years       []yearDoc       `json:"years"`
}

type manufacturerDoc struct {
	Name   string     `json:"name"`
	Models []modelDoc `json:"models"`
}

type statisticsDoc struct {
	TotalManufacturers int             `json:"totalManufacturers"`
	TotalModels        int             `json:"totalModels"`
	TotalPriceLists    int             `json:"totalPriceLists"`
	PricedPriceLists   int             `json:"pricedPriceLists"`
	TotalVariants      int             `json:"totalVariants"`
	MinPrice           *priceDoc       `json:"minPrice,omitempty"`
	MaxPrice           *priceDoc       `json:"maxPrice,omitempty"`
	PriceRanges        []priceRangeDoc `json:"priceRanges"`
}

type skippedDoc struct {
	FileName string `json:"fileName"`
	Kind     string `json:"kind"`
	Reason   string `json:"reason"`
}

type summaryDoc struct {
	Statistics    statisticsDoc     `json:"statistics"`
	Manufacturers []manufacturerDoc `json:"manufacturers"`
	Skipped       []skippedDoc      `json:"skipped"`
}

// JSONWriter writes the data file the viewer page loads.
type JSONWriter struct {
	path  string
	retry *utils.RetryConfig
}

// NewJSONWriter creates a JSONWriter for path.
func NewJSONWriter(path string, retry *utils.RetryConfig) *JSONWriter {
	return &JSONWriter{path: path, retry: retry}
}

// Path implements SummaryWriter.
func (w *JSONWriter) Path() string { return w.path }

// Write implements SummaryWriter. The output carries no timestamps, so the
// same summary always produces the same bytes.
func (w *JSONWriter) Write(summary *models.Summary) error {
	data, err := MarshalSummary(summary)
	if err != nil {
		return &OutputWriteError{Path: w.path, Err: err}
	}
	return writeFile(w.path, data, w.retry)
}

// MarshalSummary encodes the summary as indented JSON.
func MarshalSummary(summary *models.Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toSummaryDoc(summary)); err != nil {
		return nil, fmt.Errorf("json: encode summary: %w", err)
	}
	return buf.Bytes(), nil
}

func toSummaryDoc(s *models.Summary) summaryDoc {
	doc := summaryDoc{
		Statistics: statisticsDoc{
			TotalManufacturers: s.Stats.TotalManufacturers,
			TotalModels:        s.Stats.TotalModels,
			TotalPriceLists:    s.Stats.TotalPriceLists,
			PricedPriceLists:   s.Stats.PricedPriceLists,
			TotalVariants:      s.Stats.TotalVariants,
			MinPrice:           optionalPriceDoc(s.Stats.MinPrice),
			MaxPrice:           optionalPriceDoc(s.Stats.MaxPrice),
			PriceRanges:        toPriceRangeDocs(s.Stats.PriceRanges),
		},
		Manufacturers: make([]manufacturerDoc, 0, len(s.Manufacturers)),
		Skipped:       make([]skippedDoc, 0, len(s.Skipped)),
	}

	for _, g := range s.Manufacturers {
		md := manufacturerDoc{Name: g.Name, Models: make([]modelDoc, 0, len(g.Models))}
		for _, m := range g.Models {
			entry := modelDoc{
				Name:        m.Name,
				PriceRanges: toPriceRangeDocs(m.PriceRanges),
				Years:       make([]yearDoc, 0, len(m.Years)),
			}
			for _, y := range m.Years {
				yd := yearDoc{
					Year:       y.Year.String(),
					YearFrom:   y.Year.From,
					YearTo:     y.Year.To,
					PriceLists: make([]priceListDoc, 0, len(y.Records)),
				}
				for _, r := range y.Records {
					yd.PriceLists = append(yd.PriceLists, toPriceListDoc(r))
				}
				entry.Years = append(entry.Years, yd)
			}
			md.Models = append(md.Models, entry)
		}
		doc.Manufacturers = append(doc.Manufacturers, md)
	}

	for _, sk := range s.Skipped {
		doc.Skipped = append(doc.Skipped, skippedDoc{FileName: sk.FileName, Kind: sk.Kind, Reason: sk.Reason})
	}
	return doc
}

func toPriceListDoc(r *models.PriceListRecord) priceListDoc {
	doc := priceListDoc{
		FileName:     r.FileName,
		Href:         r.Href,
		Manufacturer: r.Manufacturer,
		Model:        r.Model,
		Year:         r.Year.String(),
		ValidFrom:    r.ValidFrom,
		ValidTo:      r.ValidTo,
		Source:       r.Source,
		PriceFound:   r.PriceFound,
		BasePrice:    optionalPriceDoc(r.BasePrice),
		Variants:     make([]variantDoc, 0, len(r.Variants)),
	}
	for _, v := range r.Variants {
		doc.Variants = append(doc.Variants, variantDoc{Name: v.Name, Price: toPriceDoc(v.Price)})
	}
	return doc
}

func toPriceDoc(p models.Price) priceDoc {
	return priceDoc{
		Amount:   json.Number(p.Amount.String()),
		Currency: p.Currency,
		Display:  FormatPrice(p),
	}
}

func optionalPriceDoc(p *models.Price) *priceDoc {
	if p == nil {
		return nil
	}
	d := toPriceDoc(*p)
	return &d
}

func toPriceRangeDocs(ranges []models.PriceRange) []priceRangeDoc {
	out := make([]priceRangeDoc, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, priceRangeDoc{
			Currency: r.Currency,
			Min:      toPriceDoc(models.Price{Amount: r.Min, Currency: r.Currency}),
			Max:      toPriceDoc(models.Price{Amount: r.Max, Currency: r.Currency}),
			Count:    r.Count,
		})
	}
	return out
}
