package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pricelist-summary/config"
	"pricelist-summary/models"
	"pricelist-summary/scanner"
	"pricelist-summary/services"
	"pricelist-summary/storage"
	"pricelist-summary/utils"
)

// Report describes one completed run.
type Report struct {
	Counts  models.RunCounts
	Summary *models.Summary
	Outputs []string
}

// Pipeline regenerates the summary outputs from the input folder.
type Pipeline struct {
	cfg     *config.Config
	logger  *utils.Logger
	scanner *scanner.Scanner
	names   *services.FilenameParser
	pdfs    *services.Extractor
	agg     *services.Aggregator
	writers []storage.SummaryWriter
}

// New wires a Pipeline from the run settings and extraction rules.
func New(cfg *config.Config, rules *config.Rules, logger *utils.Logger) *Pipeline {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		Logger:      logger,
	}

	writers := []storage.SummaryWriter{
		storage.NewJSONWriter(filepath.Join(cfg.OutputDir, cfg.DataFileName), retry),
		storage.NewHTMLWriter(filepath.Join(cfg.OutputDir, cfg.ViewerFileName), cfg.DataFileName, retry),
	}
	if cfg.CSVFileName != "" {
		writers = append(writers, storage.NewCSVWriter(filepath.Join(cfg.OutputDir, cfg.CSVFileName), retry))
	}

	return &Pipeline{
		cfg:     cfg,
		logger:  logger,
		scanner: scanner.New(logger),
		names:   services.NewFilenameParser(rules, logger),
		pdfs:    services.NewExtractor(services.NewPriceParser(rules.Prices, logger), logger),
		agg:     services.NewAggregator(logger),
		writers: writers,
	}
}

// Run scans, parses, aggregates and writes. Problems with individual files
// are logged and recorded as skipped; only a missing input folder or an
// output that cannot be written fails the run.
func (p *Pipeline) Run() (*Report, error) {
	scan, err := p.scanner.Scan(p.cfg.InputDir)
	if err != nil {
		return nil, err
	}

	report := &Report{Counts: models.RunCounts{
		Found:      len(scan.Files) + len(scan.Duplicates),
		Duplicates: len(scan.Duplicates),
	}}
	if len(scan.Files) == 0 {
		p.logger.Warn("[pipeline] No PDF price lists in %s, writing an empty summary", p.cfg.InputDir)
	}

	linker, err := newLinker(p.cfg.OutputDir, p.cfg.InputDir)
	if err != nil {
		return nil, err
	}

	var records []*models.PriceListRecord
	var skipped []models.SkippedFile
	for _, f := range scan.Files {
		rec, skip := p.process(f, linker)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		if !rec.PriceFound {
			report.Counts.PriceMissing++
		}
		records = append(records, rec)
	}

	sort.Slice(skipped, func(i, j int) bool { return skipped[i].FileName < skipped[j].FileName })
	report.Counts.Processed = len(records)
	report.Counts.Skipped = len(skipped)

	summary := p.agg.Aggregate(records)
	summary.Skipped = skipped
	report.Summary = summary

	for _, w := range p.writers {
		if err := w.Write(summary); err != nil {
			return report, err
		}
		p.logger.Info("[pipeline] Wrote %s", w.Path())
		report.Outputs = append(report.Outputs, w.Path())
	}
	return report, nil
}

func (p *Pipeline) process(f scanner.File, linker *linker) (*models.PriceListRecord, *models.SkippedFile) {
	info, err := p.names.Parse(f.Name)
	if err != nil {
		p.logger.Warn("[pipeline] Skipping %s: %v", f.Name, err)
		return nil, &models.SkippedFile{FileName: f.Name, Kind: models.SkipFilename, Reason: err.Error()}
	}

	prices, err := p.pdfs.Extract(f.Path)
	var readErr *services.PDFReadError
	switch {
	case errors.As(err, &readErr):
		p.logger.Warn("[pipeline] Skipping %s: %v", f.Name, readErr.Err)
		return nil, &models.SkippedFile{FileName: f.Name, Kind: models.SkipPDF, Reason: readErr.Err.Error()}
	case errors.Is(err, services.ErrPriceNotFound):
		p.logger.Warn("[pipeline] %s: %v", f.Name, err)
	case err != nil:
		p.logger.Warn("[pipeline] Skipping %s: %v", f.Name, err)
		return nil, &models.SkippedFile{FileName: f.Name, Kind: models.SkipPDF, Reason: err.Error()}
	}

	return &models.PriceListRecord{
		FilenameInfo: *info,
		FileName:     f.Name,
		Href:         linker.href(f.Name),
		BasePrice:    prices.BasePrice,
		Variants:     prices.Variants,
		PriceFound:   prices.BasePrice != nil,
	}, nil
}

// linker builds the links from the viewer page to the source PDFs.
type linker struct {
	prefix string
}

func newLinker(outputDir, inputDir string) (*linker, error) {
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output folder: %w", err)
	}
	absIn, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve input folder: %w", err)
	}

	rel, err := filepath.Rel(absOut, absIn)
	if err != nil {
		// No relative path exists, e.g. across Windows volumes.
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(absIn) + "/"}
		return &linker{prefix: u.String()}, nil
	}
	if rel == "." {
		return &linker{}, nil
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return &linker{prefix: strings.Join(segments, "/") + "/"}, nil
}

func (l *linker) href(name string) string {
	return l.prefix + url.PathEscape(name)
}
