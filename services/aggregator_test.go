package services

import (
	"bytes"
	"math/rand"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"pricelist-summary/models"
)

func date(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return &d
}

func czk(n int64) *models.Price {
	return &models.Price{Amount: decimal.NewFromInt(n), Currency: "CZK"}
}

func record(manufacturer, model string, year int, file string) *models.PriceListRecord {
	r := &models.PriceListRecord{FileName: file}
	r.Manufacturer = manufacturer
	r.Model = model
	if year != 0 {
		r.Year = models.SingleYear(year)
	}
	return r
}

func sampleRecords(t *testing.T) []*models.PriceListRecord {
	octavia23 := record("Skoda", "Octavia", 2023, "Skoda-Octavia-2023-2023-01-01_2023-12-31.pdf")
	octavia23.ValidFrom = date(t, "2023-01-01")
	octavia23.ValidTo = date(t, "2023-12-31")
	octavia23.BasePrice = czk(450000)
	octavia23.Variants = []models.VariantPrice{{Name: "Style", Price: *czk(610000)}}

	octavia23b := record("Skoda", "Octavia", 2023, "Skoda-Octavia-2023-2023-07-01.pdf")
	octavia23b.ValidFrom = date(t, "2023-07-01")
	octavia23b.BasePrice = czk(465000)

	octavia24 := record("SKODA", "octavia", 2024, "SKODA-octavia-2024.pdf")
	octavia24.BasePrice = czk(489000)

	kodiaq := record("Škoda", "Kodiaq", 2024, "Skoda-Kodiaq-2024.pdf")

	multivan := record("Volkswagen", "Multivan", 0, "Cennik MT7 Multivan.pdf")
	multivan.BasePrice = &models.Price{Amount: decimal.NewFromInt(52990), Currency: "EUR"}

	return []*models.PriceListRecord{octavia23, octavia23b, octavia24, kodiaq, multivan}
}

func TestAggregateTree(t *testing.T) {
	a := NewAggregator(newTestLogger())
	s := a.Aggregate(sampleRecords(t))

	if len(s.Manufacturers) != 2 {
		t.Fatalf("manufacturers: got %d, want 2", len(s.Manufacturers))
	}
	skoda := s.Manufacturers[0]
	if skoda.Name != "Skoda" {
		t.Errorf("manufacturer name: got %q, want %q", skoda.Name, "Skoda")
	}
	if len(skoda.Models) != 2 || skoda.Models[0].Name != "Kodiaq" || skoda.Models[1].Name != "Octavia" {
		t.Fatalf("models: got %+v", skoda.Models)
	}

	octavia := skoda.Models[1]
	if len(octavia.Years) != 2 {
		t.Fatalf("octavia years: got %d, want 2", len(octavia.Years))
	}
	if octavia.Years[0].Year.From != 2024 || octavia.Years[1].Year.From != 2023 {
		t.Errorf("years not descending: %v, %v", octavia.Years[0].Year, octavia.Years[1].Year)
	}

	y2023 := octavia.Years[1].Records
	if len(y2023) != 2 || y2023[0].ValidFrom.String() != "2023-07-01" {
		t.Errorf("2023 records not ordered by validity start descending")
	}

	if len(octavia.PriceRanges) != 1 {
		t.Fatalf("octavia price ranges: got %d, want 1", len(octavia.PriceRanges))
	}
	if !octavia.PriceRanges[0].Min.Equal(decimal.NewFromInt(450000)) ||
		!octavia.PriceRanges[0].Max.Equal(decimal.NewFromInt(610000)) {
		t.Errorf("octavia range: got %s–%s", octavia.PriceRanges[0].Min, octavia.PriceRanges[0].Max)
	}
}

func TestAggregateStatistics(t *testing.T) {
	a := NewAggregator(newTestLogger())
	st := a.Aggregate(sampleRecords(t)).Stats

	if st.TotalManufacturers != 2 {
		t.Errorf("TotalManufacturers: got %d, want 2", st.TotalManufacturers)
	}
	if st.TotalModels != 3 {
		t.Errorf("TotalModels: got %d, want 3", st.TotalModels)
	}
	if st.TotalPriceLists != 5 {
		t.Errorf("TotalPriceLists: got %d, want 5", st.TotalPriceLists)
	}
	if st.PricedPriceLists != 4 {
		t.Errorf("PricedPriceLists: got %d, want 4", st.PricedPriceLists)
	}
	if st.TotalVariants != 1 {
		t.Errorf("TotalVariants: got %d, want 1", st.TotalVariants)
	}
	if len(st.PriceRanges) != 2 || st.PriceRanges[0].Currency != "CZK" || st.PriceRanges[1].Currency != "EUR" {
		t.Fatalf("PriceRanges: got %+v", st.PriceRanges)
	}
	if st.MinPrice == nil || st.MinPrice.Currency != "CZK" || !st.MinPrice.Amount.Equal(decimal.NewFromInt(450000)) {
		t.Errorf("MinPrice: got %+v", st.MinPrice)
	}
	if st.MaxPrice == nil || !st.MaxPrice.Amount.Equal(decimal.NewFromInt(610000)) {
		t.Errorf("MaxPrice: got %+v", st.MaxPrice)
	}
}

func TestAggregateUnknownYearLast(t *testing.T) {
	a := NewAggregator(newTestLogger())
	s := a.Aggregate([]*models.PriceListRecord{
		record("Opel", "Vivaro", 0, "Vivaro.pdf"),
		record("Opel", "Vivaro", 2022, "Opel-Vivaro-2022.pdf"),
	})

	years := s.Manufacturers[0].Models[0].Years
	if len(years) != 2 || years[0].Year.From != 2022 || years[1].Year.Known() {
		t.Errorf("unknown year should sort last, got %v then %v", years[0].Year, years[1].Year)
	}
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	a := NewAggregator(newTestLogger())
	want := a.Aggregate(sampleRecords(t))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		recs := sampleRecords(t)
		rng.Shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })
		got := a.Aggregate(recs)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("shuffle %d produced a different tree", i)
		}
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	a := NewAggregator(newTestLogger())
	recs := sampleRecords(t)

	first := a.Aggregate(recs)
	second := a.Aggregate(recs)
	if !reflect.DeepEqual(first, second) {
		t.Error("aggregating the same records twice produced different trees")
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	a := NewAggregator(newTestLogger())
	s := a.Aggregate(nil)
	if s.Stats.TotalManufacturers != 0 || s.Stats.MinPrice != nil {
		t.Errorf("expected empty statistics, got %+v", s.Stats)
	}
}

func TestPrintReport(t *testing.T) {
	a := NewAggregator(newTestLogger())
	s := a.Aggregate(sampleRecords(t))
	s.Skipped = []models.SkippedFile{{FileName: "notes.pdf", Kind: models.SkipFilename, Reason: "bad name"}}

	var buf bytes.Buffer
	PrintReport(&buf, models.RunCounts{Found: 6, Processed: 5, Skipped: 1, PriceMissing: 1}, s)

	out := buf.String()
	for _, want := range []string{"PRICE LIST SUMMARY", "Skoda", "notes.pdf", "CZK"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("report missing %q", want)
		}
	}
}
