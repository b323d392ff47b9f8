package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

//go:embed rules.toml
var defaultRules []byte

// Rules are the heuristics used to read filenames and price-list text.
type Rules struct {
	KnownManufacturers []string      `toml:"known_manufacturers"`
	Prices             PriceRules    `toml:"prices"`
	Filename           FilenameRules `toml:"filename"`
}

// PriceRules drive the PDF text extractor.
type PriceRules struct {
	MinAmount             string     `toml:"min_amount"`
	MaxLabelLength        int        `toml:"max_label_length"`
	FallbackToFirstAmount bool       `toml:"fallback_to_first_amount"`
	BaseLabels            []string   `toml:"base_labels"`
	IgnoreLabels          []string   `toml:"ignore_labels"`
	Currencies            []Currency `toml:"currencies"`
}

// Currency maps the spellings found in documents to an ISO-4217 code.
type Currency struct {
	Code    string   `toml:"code"`
	Symbols []string `toml:"symbols"`
}

// FilenameRules hold the keyword rules for filenames outside the canonical convention.
type FilenameRules struct {
	Legacy []LegacyRule `toml:"legacy"`
}

// LegacyRule assigns a manufacturer when its keywords occur in a filename.
// Keywords are matched against the upper-cased base name.
type LegacyRule struct {
	Manufacturer string      `toml:"manufacturer"`
	Any          []string    `toml:"any"`
	All          []string    `toml:"all"`
	Models       []ModelRule `toml:"models"`
	DefaultModel string      `toml:"default_model"`
}

// ModelRule picks a model name inside a LegacyRule.
type ModelRule struct {
	Name string   `toml:"name"`
	Any  []string `toml:"any"`
	All  []string `toml:"all"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRules)
}

// LoadRules reads rules from path, or the built-in set when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %q: %w", path, err)
	}
	r, err := ParseRules(b)
	if err != nil {
		return nil, fmt.Errorf("rules: %q: %w", path, err)
	}
	return r, nil
}

// ParseRules decodes and validates a TOML rule set.
func ParseRules(b []byte) (*Rules, error) {
	var r Rules
	if err := toml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// MinAmountDecimal returns the smallest amount accepted as a price.
func (p PriceRules) MinAmountDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(p.MinAmount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Validate checks the rule set for mistakes that would silently disable matching.
func (r *Rules) Validate() error {
	var errs []error

	if r.Prices.MinAmount != "" {
		if _, err := decimal.NewFromString(r.Prices.MinAmount); err != nil {
			errs = append(errs, fmt.Errorf("prices.min_amount: %w", err))
		}
	}
	if r.Prices.MaxLabelLength < 0 {
		errs = append(errs, errors.New("prices.max_label_length must not be negative"))
	}
	if len(r.Prices.Currencies) == 0 {
		errs = append(errs, errors.New("prices.currencies: at least one currency is required"))
	}
	for i, c := range r.Prices.Currencies {
		if len(c.Code) != 3 {
			errs = append(errs, fmt.Errorf("prices.currencies[%d]: code %q is not ISO-4217", i, c.Code))
		}
		if len(c.Symbols) == 0 {
			errs = append(errs, fmt.Errorf("prices.currencies[%d]: no symbols", i))
		}
		for _, s := range c.Symbols {
			if strings.TrimSpace(s) == "" {
				errs = append(errs, fmt.Errorf("prices.currencies[%d]: blank symbol", i))
			}
		}
	}

	for i, l := range r.Filename.Legacy {
		if strings.TrimSpace(l.Manufacturer) == "" {
			errs = append(errs, fmt.Errorf("filename.legacy[%d]: manufacturer is required", i))
		}
		if len(l.Any) == 0 && len(l.All) == 0 {
			errs = append(errs, fmt.Errorf("filename.legacy[%d]: needs any or all keywords", i))
		}
		if len(l.Models) == 0 && l.DefaultModel == "" {
			errs = append(errs, fmt.Errorf("filename.legacy[%d]: needs models or default_model", i))
		}
		for j, m := range l.Models {
			if m.Name == "" || (len(m.Any) == 0 && len(m.All) == 0) {
				errs = append(errs, fmt.Errorf("filename.legacy[%d].models[%d]: needs name and keywords", i, j))
			}
		}
	}

	return errors.Join(errs...)
}
