package storage

import "pricelist-summary/models"

// SummaryWriter is the interface every output format must satisfy.
type SummaryWriter interface {
	// Path is the file the writer produces.
	Path() string
	Write(summary *models.Summary) error
}
