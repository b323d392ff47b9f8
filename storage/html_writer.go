package storage

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"pricelist-summary/models"
	"pricelist-summary/utils"
)

//go:embed assets/viewer.html.tmpl
var viewerSource string

var viewerTemplate = template.Must(template.New("viewer").Parse(viewerSource))

// HTMLWriter writes the viewer page. The page is static and loads the data
// file in the browser, so it only depends on the data file's name.
type HTMLWriter struct {
	path     string
	dataFile string
	title    string
	retry    *utils.RetryConfig
}

// NewHTMLWriter creates an HTMLWriter for path that loads dataFile, a URL
// relative to the page.
func NewHTMLWriter(path, dataFile string, retry *utils.RetryConfig) *HTMLWriter {
	return &HTMLWriter{path: path, dataFile: dataFile, title: "Price lists", retry: retry}
}

// Path implements SummaryWriter.
func (w *HTMLWriter) Path() string { return w.path }

// Write implements SummaryWriter.
func (w *HTMLWriter) Write(_ *models.Summary) error {
	var buf bytes.Buffer
	err := viewerTemplate.Execute(&buf, struct {
		Title    string
		DataFile string
	}{Title: w.title, DataFile: w.dataFile})
	if err != nil {
		return &OutputWriteError{Path: w.path, Err: fmt.Errorf("html: render viewer: %w", err)}
	}
	return writeFile(w.path, buf.Bytes(), w.retry)
}
