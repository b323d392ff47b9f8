package services

import (
	"errors"
	"fmt"
)

// ErrPriceNotFound is returned alongside a usable result when a price list
// yields no base price. The record is kept and marked price-absent.
var ErrPriceNotFound = errors.New("no base price found")

// FilenameParseError reports a filename outside every known naming rule.
type FilenameParseError struct {
	FileName string
	Reason   string
}

func (e *FilenameParseError) Error() string {
	return fmt.Sprintf("filename %q: %s", e.FileName, e.Reason)
}

// PDFReadError reports a file that could not be opened or decoded as a PDF.
type PDFReadError struct {
	FileName string
	Err      error
}

func (e *PDFReadError) Error() string {
	return fmt.Sprintf("pdf %q: %v", e.FileName, e.Err)
}

func (e *PDFReadError) Unwrap() error {
	return e.Err
}
