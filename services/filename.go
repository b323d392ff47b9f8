package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"pricelist-summary/config"
	"pricelist-summary/models"
	"pricelist-summary/utils"
)

var (
	// canonicalRegexp matches <Manufacturer>-<Model>-<Year>[_<Year>][-<From>[_<To>]]
	canonicalRegexp = regexp.MustCompile(
		`^([^-]+)-(.+?)-(\d{4})(?:_(\d{4}))?(?:-(\d{4}-\d{2}-\d{2})(?:_(\d{4}-\d{2}-\d{2}))?)?$`)
	// modelYearRegexp captures "MJ2025" style model-year markers
	modelYearRegexp = regexp.MustCompile(`(?i)MJ\s?(\d{4})`)
	// dottedDateRegexp captures D.M.YYYY and DD.MM.YYYY
	dottedDateRegexp = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	// compactDateRegexp captures DDMMYYYY
	compactDateRegexp = regexp.MustCompile(`(\d{2})(\d{2})(\d{4})`)
)

const (
	minModelYear = 1950
	maxModelYear = 2100
)

// FilenameParser extracts manufacturer, model, year and validity window from
// price-list filenames.
type FilenameParser struct {
	logger *utils.Logger
	known  []string
	legacy *legacyMatcher
}

// NewFilenameParser creates a FilenameParser from the filename rules.
func NewFilenameParser(rules *config.Rules, logger *utils.Logger) *FilenameParser {
	return &FilenameParser{
		logger: logger,
		known:  rules.KnownManufacturers,
		legacy: newLegacyMatcher(rules.Filename.Legacy),
	}
}

// Parse reads the metadata encoded in filename. Filenames that follow neither
// the canonical convention nor a legacy rule yield a *FilenameParseError.
func (p *FilenameParser) Parse(filename string) (*models.FilenameInfo, error) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".pdf") {
		return nil, &FilenameParseError{FileName: base, Reason: "not a .pdf file"}
	}
	stem := strings.TrimSpace(utils.StripCopyMarker(strings.TrimSuffix(base, ext)))
	if stem == "" {
		return nil, &FilenameParseError{FileName: base, Reason: "empty name"}
	}

	if m := canonicalRegexp.FindStringSubmatch(stem); m != nil {
		info, err := p.parseCanonical(m)
		if err != nil {
			return nil, &FilenameParseError{FileName: base, Reason: err.Error()}
		}
		return info, nil
	}

	if info, ok := p.parseLegacy(stem); ok {
		p.logger.Debug("[filename] %s matched legacy rule %s / %s", base, info.Manufacturer, info.Model)
		return info, nil
	}

	return nil, &FilenameParseError{
		FileName: base,
		Reason:   "expected <Manufacturer>-<Model>-<Year>[-<ValidFrom>[_<ValidTo>]].pdf",
	}
}

func (p *FilenameParser) parseCanonical(m []string) (*models.FilenameInfo, error) {
	manufacturer := decodeName(m[1])
	model := decodeName(m[2])
	if manufacturer == "" || model == "" {
		return nil, fmt.Errorf("manufacturer and model must not be blank")
	}

	year, err := parseModelYear(m[3], m[4])
	if err != nil {
		return nil, err
	}

	info := &models.FilenameInfo{
		Manufacturer: p.canonicalManufacturer(manufacturer),
		Model:        model,
		Year:         year,
		Source:       models.SourceCanonical,
	}

	if m[5] != "" {
		from, err := models.ParseDate(m[5])
		if err != nil {
			return nil, err
		}
		info.ValidFrom = &from
	}
	if m[6] != "" {
		to, err := models.ParseDate(m[6])
		if err != nil {
			return nil, err
		}
		if to.Compare(*info.ValidFrom) < 0 {
			return nil, fmt.Errorf("validity ends %s before it starts %s", to, info.ValidFrom)
		}
		info.ValidTo = &to
	}

	return info, nil
}

func (p *FilenameParser) parseLegacy(stem string) (*models.FilenameInfo, bool) {
	manufacturer, model, ok := p.legacy.match(stem)
	if !ok {
		return nil, false
	}

	info := &models.FilenameInfo{
		Manufacturer: manufacturer,
		Model:        model,
		Source:       models.SourceLegacy,
	}

	if m := modelYearRegexp.FindStringSubmatch(stem); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil && y >= minModelYear && y <= maxModelYear {
			info.Year = models.SingleYear(y)
		}
	}

	// The dotted form is more specific, so it wins over DDMMYYYY.
	if m := dottedDateRegexp.FindStringSubmatch(stem); m != nil {
		info.ValidFrom = dateFromParts(m[3], m[2], m[1])
	} else if m := compactDateRegexp.FindStringSubmatch(stem); m != nil {
		info.ValidFrom = dateFromParts(m[3], m[2], m[1])
	}

	return info, true
}

// canonicalManufacturer rewrites name to a configured spelling when they only
// differ in case or diacritics.
func (p *FilenameParser) canonicalManufacturer(name string) string {
	for _, k := range p.known {
		if len(k) == 0 {
			continue
		}
		if fuzzy.MatchNormalizedFold(name, k) && fuzzy.MatchNormalizedFold(k, name) {
			return k
		}
	}
	return name
}

// Encode renders info back into the canonical filename convention.
func Encode(info models.FilenameInfo) (string, error) {
	if strings.Contains(info.Manufacturer, "-") {
		return "", fmt.Errorf("manufacturer %q contains '-'", info.Manufacturer)
	}
	if info.Manufacturer == "" || info.Model == "" {
		return "", fmt.Errorf("manufacturer and model are required")
	}
	if !info.Year.Known() {
		return "", fmt.Errorf("model year is required")
	}
	if info.ValidTo != nil && info.ValidFrom == nil {
		return "", fmt.Errorf("validity end without start")
	}

	var b strings.Builder
	b.WriteString(encodeName(info.Manufacturer))
	b.WriteByte('-')
	b.WriteString(encodeName(info.Model))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(info.Year.From))
	if info.Year.IsRange() {
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(info.Year.To))
	}
	if info.ValidFrom != nil {
		b.WriteByte('-')
		b.WriteString(info.ValidFrom.String())
		if info.ValidTo != nil {
			b.WriteByte('_')
			b.WriteString(info.ValidTo.String())
		}
	}
	b.WriteString(".pdf")
	return b.String(), nil
}

func parseModelYear(from, to string) (models.ModelYear, error) {
	start, err := strconv.Atoi(from)
	if err != nil {
		return models.ModelYear{}, fmt.Errorf("model year %q: %w", from, err)
	}
	end := start
	if to != "" {
		if end, err = strconv.Atoi(to); err != nil {
			return models.ModelYear{}, fmt.Errorf("model year %q: %w", to, err)
		}
	}
	if start < minModelYear || end > maxModelYear {
		return models.ModelYear{}, fmt.Errorf("model year %d-%d out of range", start, end)
	}
	if end < start {
		return models.ModelYear{}, fmt.Errorf("model year range %d_%d is reversed", start, end)
	}
	return models.ModelYear{From: start, To: end}, nil
}

func dateFromParts(year, month, day string) *models.Date {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return nil
	}
	date, err := models.NewDate(y, time.Month(m), d)
	if err != nil {
		return nil
	}
	return &date
}

// decodeName turns the filename form of a name ("ProAce_Verso") into display form.
func decodeName(s string) string {
	return utils.NormaliseText(strings.ReplaceAll(s, "_", " "))
}

func encodeName(s string) string {
	return strings.ReplaceAll(utils.NormaliseText(s), " ", "_")
}
