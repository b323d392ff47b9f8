package storage

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"pricelist-summary/models"
	"pricelist-summary/utils"
)

// csvRow is one price list in the spreadsheet export.
type csvRow struct {
	Manufacturer string `csv:"manufacturer"`
	Model        string `csv:"model"`
	Year         string `csv:"year"`
	ValidFrom    string `csv:"valid_from"`
	ValidTo      string `csv:"valid_to"`
	BasePrice    string `csv:"base_price"`
	Currency     string `csv:"currency"`
	Variants     int    `csv:"variants"`
	FileName     string `csv:"file_name"`
	Href         string `csv:"href"`
}

// CSVWriter exports one row per price list, in summary order.
type CSVWriter struct {
	path  string
	retry *utils.RetryConfig
}

// NewCSVWriter creates a CSVWriter for path.
func NewCSVWriter(path string, retry *utils.RetryConfig) *CSVWriter {
	return &CSVWriter{path: path, retry: retry}
}

// Path implements SummaryWriter.
func (c *CSVWriter) Path() string { return c.path }

// Write implements SummaryWriter.
func (c *CSVWriter) Write(summary *models.Summary) error {
	rows := make([]*csvRow, 0, summary.Stats.TotalPriceLists)
	for _, g := range summary.Manufacturers {
		for _, m := range g.Models {
			for _, y := range m.Years {
				for _, r := range y.Records {
					rows = append(rows, toCSVRow(g.Name, m.Name, r))
				}
			}
		}
	}

	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return &OutputWriteError{Path: c.path, Err: fmt.Errorf("csv: encode rows: %w", err)}
	}
	return writeFile(c.path, data, c.retry)
}

func toCSVRow(manufacturer, model string, r *models.PriceListRecord) *csvRow {
	row := &csvRow{
		Manufacturer: manufacturer,
		Model:        model,
		Year:         r.Year.String(),
		Variants:     len(r.Variants),
		FileName:     r.FileName,
		Href:         r.Href,
	}
	if r.ValidFrom != nil {
		row.ValidFrom = r.ValidFrom.String()
	}
	if r.ValidTo != nil {
		row.ValidTo = r.ValidTo.String()
	}
	if r.BasePrice != nil {
		row.BasePrice = r.BasePrice.Amount.String()
		row.Currency = r.BasePrice.Currency
	}
	return row
}
