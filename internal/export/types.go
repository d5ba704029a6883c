// Package export renders a resume's current snapshot through a visual
// template and produces HTML or PDF output.
package export

import "errors"

// Format is the export output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Template names one of the visual resume templates.
type Template string

const (
	TemplateClassic Template = "classic"
	TemplateModern  Template = "modern"
	TemplateCompact Template = "compact"
)

var (
	ErrUnknownTemplate      = errors.New("unknown export template")
	ErrUnknownFormat        = errors.New("unknown export format")
	ErrPDFDependencyMissing = errors.New("pdf rendering dependency missing")
)

// Request contains parameters for an export operation.
type Request struct {
	DocumentID string
	Template   Template
	Format     Format
}

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}
