package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/wailsapp/mimetype"

	"pricelist-summary/utils"
)

const pdfMIME = "application/pdf"

// Extractor reads price lists and pulls prices out of their text.
type Extractor struct {
	logger *utils.Logger
	prices *PriceParser
}

// NewExtractor creates an Extractor that applies the given price rules.
func NewExtractor(prices *PriceParser, logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger, prices: prices}
}

// Extract reads the PDF at path and returns its prices. Unreadable files
// yield a *PDFReadError. When no base price is found the result is still
// returned together with ErrPriceNotFound.
func (e *Extractor) Extract(path string) (PriceInfo, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return PriceInfo{}, &PDFReadError{FileName: name, Err: err}
	}

	text, err := e.ExtractText(name, data)
	if err != nil {
		return PriceInfo{}, err
	}
	if strings.TrimSpace(text) == "" {
		e.logger.Debug("[extractor] %s has no text layer, it may be scanned", name)
	}

	info := e.prices.Parse(text)
	e.logger.Debug("[extractor] %s: base price found=%v, %d variants",
		name, info.BasePrice != nil, len(info.Variants))

	if info.BasePrice == nil {
		return info, ErrPriceNotFound
	}
	return info, nil
}

// ExtractText returns the plain text of every page of a PDF document.
func (e *Extractor) ExtractText(name string, data []byte) (text string, err error) {
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return "", &PDFReadError{FileName: name, Err: fmt.Errorf("content is %s, not a PDF", mt.String())}
	}

	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &PDFReadError{FileName: name, Err: fmt.Errorf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &PDFReadError{FileName: name, Err: err}
	}

	var sb strings.Builder
	var pageErrs []error
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			pageErrs = append(pageErrs, fmt.Errorf("page %d: %w", i, err))
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 && len(pageErrs) > 0 {
		return "", &PDFReadError{FileName: name, Err: errors.Join(pageErrs...)}
	}
	for _, pe := range pageErrs {
		e.logger.Warn("[extractor] %s: skipped unreadable %v", name, pe)
	}

	return sb.String(), nil
}
