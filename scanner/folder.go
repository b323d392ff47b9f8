package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pricelist-summary/utils"
)

// File is one PDF picked up from the input folder.
type File struct {
	Name string
	Path string
}

// Result is the outcome of scanning the input folder.
type Result struct {
	Files      []File
	Duplicates []string
}

// Scanner enumerates the price-list PDFs in a folder.
type Scanner struct {
	logger *utils.Logger
}

// New creates a Scanner.
func New(logger *utils.Logger) *Scanner {
	return &Scanner{logger: logger}
}

type candidate struct {
	name   string
	stem   string
	marked bool
}

// Scan lists the *.pdf files (extension matched case-insensitively) directly
// inside dir. Files come back in a stable order, and browser download copies
// such as "X (1).pdf" are dropped when "X.pdf" or an earlier copy is present.
func (s *Scanner) Scan(dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input folder %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input folder %s: not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input folder %s: %w", dir, err)
	}

	var candidates []candidate
	for _, e := range entries {
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		if !e.Type().IsRegular() {
			// Symlinks are followed; directories named *.pdf are not.
			fi, err := os.Stat(filepath.Join(dir, name))
			if err != nil || !fi.Mode().IsRegular() {
				s.logger.Debug("[scanner] Ignoring non-regular entry %s", name)
				continue
			}
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		candidates = append(candidates, candidate{
			name:   name,
			stem:   utils.StripCopyMarker(stem),
			marked: utils.HasCopyMarker(stem),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.stem != b.stem {
			return a.stem < b.stem
		}
		if a.marked != b.marked {
			return !a.marked
		}
		return a.name < b.name
	})

	result := &Result{}
	seen := utils.NewStringSet()
	for _, c := range candidates {
		if !seen.Add(c.stem) && c.marked {
			s.logger.Debug("[scanner] Skipping duplicate copy %s", c.name)
			result.Duplicates = append(result.Duplicates, c.name)
			continue
		}
		result.Files = append(result.Files, File{Name: c.name, Path: filepath.Join(dir, c.name)})
	}

	s.logger.Info("[scanner] Found %d PDF(s) in %s", len(result.Files), dir)
	s.logger.Debug("[scanner] %d distinct price-list names", seen.Size())
	if len(result.Duplicates) > 0 {
		s.logger.Info("[scanner] Ignored %d duplicate download copies", len(result.Duplicates))
	}
	return result, nil
}
