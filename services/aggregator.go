package services

import (
	"sort"

	"pricelist-summary/models"
	"pricelist-summary/utils"
)

// Aggregator folds parsed price lists into the manufacturer → model → year tree.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

type manufacturerBucket struct {
	spellings map[string]int
	models    map[string]*modelBucket
}

type modelBucket struct {
	spellings map[string]int
	years     map[models.ModelYear][]*models.PriceListRecord
}

// Aggregate builds the summary tree. Names are merged ignoring case and
// diacritics, and the output order depends only on the records' contents,
// never on the order they arrive in.
func (a *Aggregator) Aggregate(records []*models.PriceListRecord) *models.Summary {
	buckets := make(map[string]*manufacturerBucket)

	for _, r := range records {
		mKey := utils.FoldKey(r.Manufacturer)
		mb, ok := buckets[mKey]
		if !ok {
			mb = &manufacturerBucket{spellings: make(map[string]int), models: make(map[string]*modelBucket)}
			buckets[mKey] = mb
		}
		mb.spellings[r.Manufacturer]++

		modelKey := utils.FoldKey(r.Model)
		md, ok := mb.models[modelKey]
		if !ok {
			md = &modelBucket{spellings: make(map[string]int), years: make(map[models.ModelYear][]*models.PriceListRecord)}
			mb.models[modelKey] = md
		}
		md.spellings[r.Model]++
		md.years[r.Year] = append(md.years[r.Year], r)
	}

	summary := &models.Summary{}
	for _, mKey := range sortedKeys(buckets) {
		mb := buckets[mKey]
		group := &models.ManufacturerGroup{Name: preferredSpelling(mb.spellings)}
		if len(mb.spellings) > 1 {
			a.logger.Debug("[aggregator] Merged manufacturer spellings %v as %q", mb.spellings, group.Name)
		}

		for _, modelKey := range sortedKeys(mb.models) {
			md := mb.models[modelKey]
			group.Models = append(group.Models, buildModelEntry(md))
		}
		summary.Manufacturers = append(summary.Manufacturers, group)
	}

	summary.Stats = computeStatistics(summary.Manufacturers)

	a.logger.Info("[aggregator] %d price lists → %d manufacturers, %d models",
		summary.Stats.TotalPriceLists, summary.Stats.TotalManufacturers, summary.Stats.TotalModels)
	return summary
}

func buildModelEntry(md *modelBucket) *models.ModelEntry {
	entry := &models.ModelEntry{Name: preferredSpelling(md.spellings)}

	years := make([]models.ModelYear, 0, len(md.years))
	for y := range md.years {
		years = append(years, y)
	}
	// Newest first, unknown years last.
	sort.Slice(years, func(i, j int) bool {
		if years[i].Known() != years[j].Known() {
			return years[i].Known()
		}
		return years[i].Compare(years[j]) > 0
	})

	var prices []models.Price
	for _, y := range years {
		recs := append([]*models.PriceListRecord(nil), md.years[y]...)
		sort.Slice(recs, func(i, j int) bool { return recordLess(recs[i], recs[j]) })
		entry.Years = append(entry.Years, &models.YearGroup{Year: y, Records: recs})
		for _, r := range recs {
			prices = append(prices, r.AllPrices()...)
		}
	}
	entry.PriceRanges = priceRanges(prices)
	return entry
}

// recordLess orders by validity start descending, then validity end
// descending, then file name. Missing dates sort last.
func recordLess(a, b *models.PriceListRecord) bool {
	if c := compareOptionalDate(a.ValidFrom, b.ValidFrom); c != 0 {
		return c > 0
	}
	if c := compareOptionalDate(a.ValidTo, b.ValidTo); c != 0 {
		return c > 0
	}
	return a.FileName < b.FileName
}

// compareOptionalDate treats a missing date as older than any present one.
func compareOptionalDate(a, b *models.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func computeStatistics(groups []*models.ManufacturerGroup) models.SummaryStatistics {
	stats := models.SummaryStatistics{TotalManufacturers: len(groups)}

	var prices []models.Price
	for _, g := range groups {
		stats.TotalModels += len(g.Models)
		for _, m := range g.Models {
			for _, y := range m.Years {
				for _, r := range y.Records {
					stats.TotalPriceLists++
					if r.BasePrice != nil {
						stats.PricedPriceLists++
					}
					stats.TotalVariants += len(r.Variants)
					prices = append(prices, r.AllPrices()...)
				}
			}
		}
	}

	stats.PriceRanges = priceRanges(prices)
	if dominant := dominantRange(stats.PriceRanges); dominant != nil {
		stats.MinPrice = &models.Price{Amount: dominant.Min, Currency: dominant.Currency}
		stats.MaxPrice = &models.Price{Amount: dominant.Max, Currency: dominant.Currency}
	}
	return stats
}

// priceRanges returns one range per currency, sorted by currency code.
func priceRanges(prices []models.Price) []models.PriceRange {
	byCurrency := make(map[string]*models.PriceRange)
	for _, p := range prices {
		r, ok := byCurrency[p.Currency]
		if !ok {
			byCurrency[p.Currency] = &models.PriceRange{Currency: p.Currency, Min: p.Amount, Max: p.Amount, Count: 1}
			continue
		}
		r.Count++
		if p.Amount.LessThan(r.Min) {
			r.Min = p.Amount
		}
		if p.Amount.GreaterThan(r.Max) {
			r.Max = p.Amount
		}
	}

	ranges := make([]models.PriceRange, 0, len(byCurrency))
	for _, code := range sortedKeys(byCurrency) {
		ranges = append(ranges, *byCurrency[code])
	}
	return ranges
}

// dominantRange picks the currency with the most observations; ties go to
// the alphabetically first code.
func dominantRange(ranges []models.PriceRange) *models.PriceRange {
	var best *models.PriceRange
	for i := range ranges {
		if best == nil || ranges[i].Count > best.Count {
			best = &ranges[i]
		}
	}
	return best
}

// preferredSpelling returns the most frequent spelling, ties broken by
// lexical order so the choice is stable.
func preferredSpelling(spellings map[string]int) string {
	best, bestCount := "", 0
	for _, s := range sortedKeys(spellings) {
		if spellings[s] > bestCount {
			best, bestCount = s, spellings[s]
		}
	}
	return best
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
