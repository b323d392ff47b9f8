package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"pricelist-summary/config"
	"pricelist-summary/models"
	"pricelist-summary/utils"
)

// amountPattern accepts grouped ("450 000", "1.234.567", "450,000") and plain
// ("450000") amounts with an optional 1–2 digit decimal part.
const amountPattern = `\d{1,3}(?:[ \x{00A0}\x{202F}.,']\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?`

// labelTrim is stripped from both ends of a label, e.g. "Style ........:".
const labelTrim = " \t:;-–—.…·*|="

// PriceInfo is what the text of one price list yields.
type PriceInfo struct {
	BasePrice *models.Price
	Variants  []models.VariantPrice
}

// PriceParser finds base and variant prices in free text using configurable rules.
type PriceParser struct {
	logger *utils.Logger

	pattern        *regexp.Regexp
	symbolCodes    map[string]string
	baseLabels     []string
	ignoreLabels   []string
	minAmount      decimal.Decimal
	maxLabelLength int
	fallback       bool
}

type priceMatch struct {
	label string
	price models.Price
}

// NewPriceParser compiles the price rules.
func NewPriceParser(rules config.PriceRules, logger *utils.Logger) *PriceParser {
	symbolCodes := make(map[string]string)
	var symbols []string
	for _, c := range rules.Currencies {
		for _, s := range c.Symbols {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			symbols = append(symbols, s)
			symbolCodes[utils.FoldKey(s)] = strings.ToUpper(c.Code)
		}
	}
	// Longest first so "Kč" is not cut short by a shorter alternative.
	sort.SliceStable(symbols, func(i, j int) bool { return len(symbols[i]) > len(symbols[j]) })

	quoted := make([]string, len(symbols))
	for i, s := range symbols {
		quoted[i] = regexp.QuoteMeta(s)
	}
	sym := strings.Join(quoted, "|")
	if sym == "" {
		sym = `[^\s\S]` // matches nothing
	}

	pattern := regexp.MustCompile(
		`(?:^|[^\d\p{L}])(?:(?i:(` + sym + `))\s*(` + amountPattern + `)|(` + amountPattern + `)(?:\s*[.,]-)?\s*(?i:(` + sym + `)))`)

	maxLabel := rules.MaxLabelLength
	if maxLabel == 0 {
		maxLabel = 80
	}

	return &PriceParser{
		logger:         logger,
		pattern:        pattern,
		symbolCodes:    symbolCodes,
		baseLabels:     foldAll(rules.BaseLabels),
		ignoreLabels:   foldAll(rules.IgnoreLabels),
		minAmount:      rules.MinAmountDecimal(),
		maxLabelLength: maxLabel,
		fallback:       rules.FallbackToFirstAmount,
	}
}

// Parse scans text line by line. Each price is labelled with the text between
// it and the previous price on the same line, so run-on text extracted from
// PDFs without line breaks still splits into entries. The base price is the
// first price labelled with a base-price label, or the first price in the text
// when the fallback is enabled. Other labelled prices become variants.
func (p *PriceParser) Parse(text string) PriceInfo {
	var info PriceInfo
	var first *priceMatch
	seen := utils.NewStringSet()

	for _, raw := range strings.Split(text, "\n") {
		line := utils.NormaliseText(raw)
		if line == "" {
			continue
		}

		for _, m := range p.matches(line) {
			if first == nil {
				first = &m
			}

			if p.isBaseLabel(m.label) {
				if info.BasePrice == nil {
					price := m.price
					info.BasePrice = &price
				}
				continue
			}

			if !p.isVariantLabel(m.label) {
				continue
			}
			key := utils.FoldKey(m.label) + "|" + m.price.Currency + "|" + m.price.Amount.String()
			if !seen.Add(key) {
				continue
			}
			info.Variants = append(info.Variants, models.VariantPrice{Name: m.label, Price: m.price})
		}
	}

	if info.BasePrice == nil && p.fallback && first != nil {
		price := first.price
		info.BasePrice = &price
		p.logger.Debug("[prices] No labelled base price, using first amount %s %s", price.Amount, price.Currency)
	}

	return info
}

// matches returns the prices on line at or above the minimum amount, each
// labelled with the text since the previous price.
func (p *PriceParser) matches(line string) []priceMatch {
	var out []priceMatch
	prevEnd := 0

	for _, idx := range p.pattern.FindAllStringSubmatchIndex(line, -1) {
		var symbol, amount string
		var start int
		if idx[2] >= 0 {
			symbol, amount, start = line[idx[2]:idx[3]], line[idx[4]:idx[5]], idx[2]
		} else {
			amount, symbol, start = line[idx[6]:idx[7]], line[idx[8]:idx[9]], idx[6]
		}
		label := cleanLabel(line[prevEnd:start])
		prevEnd = idx[1]

		value, err := ParseAmount(amount)
		if err != nil || value.LessThan(p.minAmount) {
			continue
		}
		code, ok := p.symbolCodes[utils.FoldKey(symbol)]
		if !ok {
			continue
		}

		out = append(out, priceMatch{
			label: label,
			price: models.Price{Amount: value, Currency: code},
		})
	}
	return out
}

func (p *PriceParser) isBaseLabel(label string) bool {
	return containsPhrase(label, p.baseLabels)
}

func (p *PriceParser) isVariantLabel(label string) bool {
	if label == "" || len([]rune(label)) > p.maxLabelLength {
		return false
	}
	if strings.IndexFunc(label, unicode.IsLetter) < 0 {
		return false
	}
	return !containsPhrase(label, p.ignoreLabels)
}

// ParseAmount converts a formatted amount into a decimal. The last '.' or ','
// is the decimal separator only when one or two digits follow it; every other
// separator groups thousands.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)

	fraction := ""
	if i := strings.LastIndexAny(raw, ".,"); i >= 0 {
		tail := raw[i+1:]
		if len(tail) >= 1 && len(tail) <= 2 && isDigits(tail) {
			fraction = tail
			raw = raw[:i]
		}
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if fraction != "" {
		b.WriteByte('.')
		b.WriteString(fraction)
	}
	return decimal.NewFromString(b.String())
}

func cleanLabel(s string) string {
	return utils.NormaliseText(strings.Trim(strings.TrimSpace(s), labelTrim))
}

// containsPhrase reports whether any phrase occurs in label as whole words,
// ignoring case, diacritics and punctuation.
func containsPhrase(label string, phrases []string) bool {
	if len(phrases) == 0 {
		return false
	}
	words := " " + wordsOnly(utils.FoldKey(label)) + " "
	for _, ph := range phrases {
		if ph != "" && strings.Contains(words, " "+ph+" ") {
			return true
		}
	}
	return false
}

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := wordsOnly(utils.FoldKey(s)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func wordsOnly(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
