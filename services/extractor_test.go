package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist-summary/internal/testpdf"
)

func newTestExtractor(t *testing.T) *Extractor {
	return NewExtractor(newTestPriceParser(t), newTestLogger())
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtractTextFromPDF(t *testing.T) {
	e := newTestExtractor(t)

	text, err := e.ExtractText("octavia.pdf", testpdf.Build("Skoda Octavia", "Base price: 450,000 Kc"))
	require.NoError(t, err)
	assert.Contains(t, text, "Octavia")
	assert.Contains(t, text, "450,000")
}

func TestExtractPrices(t *testing.T) {
	e := newTestExtractor(t)
	path := writeFile(t, "Skoda-Octavia-2023.pdf", testpdf.Build(
		"Skoda Octavia price list",
		"Base price: 450,000 Kc",
		"Ambition 520 000 Kc",
	))

	info, err := e.Extract(path)
	require.NoError(t, err)
	require.NotNil(t, info.BasePrice)
	assert.True(t, info.BasePrice.Amount.Equal(decimal.NewFromInt(450000)))
	assert.Equal(t, "CZK", info.BasePrice.Currency)

	require.Len(t, info.Variants, 1)
	assert.Equal(t, "Ambition", info.Variants[0].Name)
}

func TestExtractWithoutPrice(t *testing.T) {
	e := newTestExtractor(t)
	path := writeFile(t, "Skoda-Octavia-2023.pdf", testpdf.Build("Technical data", "Length 4689 mm"))

	info, err := e.Extract(path)
	assert.True(t, errors.Is(err, ErrPriceNotFound), "got %v", err)
	assert.Nil(t, info.BasePrice)
}

func TestExtractRejectsUnreadable(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"not a pdf", []byte("just some text pretending to be a price list")},
		{"truncated pdf", []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(writeFile(t, "broken.pdf", tt.data))
			var perr *PDFReadError
			require.True(t, errors.As(err, &perr), "expected PDFReadError, got %v", err)
			assert.Equal(t, "broken.pdf", perr.FileName)
		})
	}
}

func TestExtractMissingFile(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.Extract(filepath.Join(t.TempDir(), "gone.pdf"))
	var perr *PDFReadError
	require.True(t, errors.As(err, &perr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
