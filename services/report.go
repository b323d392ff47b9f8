package services

import (
	"fmt"
	"io"
	"strings"

	"pricelist-summary/models"
)

// PrintReport writes the end-of-run summary for the maintainer.
func PrintReport(w io.Writer, counts models.RunCounts, s *models.Summary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  PRICE LIST SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Files\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  PDFs found             : \033[1m%d\033[0m\n", counts.Found)
	if counts.Duplicates > 0 {
		fmt.Fprintf(w, "  Duplicate copies       : \033[1m%d\033[0m\n", counts.Duplicates)
	}
	fmt.Fprintf(w, "  Processed              : \033[1m%d\033[0m\n", counts.Processed)
	fmt.Fprintf(w, "  Skipped                : \033[1m%d\033[0m\n", counts.Skipped)
	fmt.Fprintf(w, "  Without base price     : \033[1m%d\033[0m\n", counts.PriceMissing)
	fmt.Fprintln(w)

	st := s.Stats
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Manufacturers          : \033[1m%d\033[0m\n", st.TotalManufacturers)
	fmt.Fprintf(w, "  Models                 : \033[1m%d\033[0m\n", st.TotalModels)
	fmt.Fprintf(w, "  Price lists            : \033[1m%d\033[0m\n", st.TotalPriceLists)
	fmt.Fprintf(w, "  Variants               : \033[1m%d\033[0m\n", st.TotalVariants)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Ranges\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(st.PriceRanges) == 0 {
		fmt.Fprintf(w, "  No price data available\n")
	}
	for _, r := range st.PriceRanges {
		fmt.Fprintf(w, "  %-4s \033[1;32m%s\033[0m – \033[1;32m%s\033[0m (%d prices)\n",
			r.Currency, r.Min.String(), r.Max.String(), r.Count)
	}
	fmt.Fprintln(w)

	if len(s.Manufacturers) > 0 {
		fmt.Fprintf(w, "\033[1;33m  Price Lists by Manufacturer\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for _, g := range s.Manufacturers {
			n := 0
			for _, m := range g.Models {
				n += m.PriceListCount()
			}
			bar := strings.Repeat("█", n)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(g.Name, 28), bar, n)
		}
		fmt.Fprintln(w)
	}

	if len(s.Skipped) > 0 {
		fmt.Fprintf(w, "\033[1;33m  Skipped Files\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for _, sk := range s.Skipped {
			fmt.Fprintf(w, "  [%s] %s\n", sk.Kind, truncate(sk.FileName, 60))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
