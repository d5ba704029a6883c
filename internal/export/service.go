package export

import (
	"context"
	"fmt"

	"cvstudio/api/internal/layout"
	"cvstudio/api/internal/store"
)

// Loader fetches the document to export.
type Loader func(ctx context.Context, id string) (store.Document, error)

// Service provides resume export functionality.
type Service struct {
	load Loader
}

func NewService(load Loader) *Service {
	return &Service{load: load}
}

// a4Geometry approximates an A4 page at 96 dpi, matching the editor's
// on-screen page frame.
var a4Geometry = layout.Geometry{
	PageHeight:      1123,
	VerticalPadding: 40,
	HeaderHeight:    140,
	HeaderMargin:    24,
	BlockGap:        24,
}

// Export renders the document's current snapshot in the requested format.
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	if req.Template == "" {
		req.Template = TemplateClassic
	}
	if req.Format == "" {
		req.Format = FormatPDF
	}
	if _, ok := templateStyles[req.Template]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, req.Template)
	}

	doc, err := s.load(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	html, err := RenderHTML(doc.Current, req.Template)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	name := doc.Current.Name
	if name == "" {
		name = "resume"
	}

	switch req.Format {
	case FormatHTML:
		return &Result{
			Data:     []byte(html),
			Filename: sanitizeFilename(name) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPDF:
		return exportPDF(html, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, req.Format)
	}
}

// paginate splits the snapshot's sections into pages, estimating block
// heights from content volume. The estimate only has to be stable: the
// exported pages must match between runs, not match the browser pixel for
// pixel.
func paginate(resume store.Resume) ([]layout.Page, map[string]store.Section) {
	byID := make(map[string]store.Section, len(resume.Sections))
	var left, right []layout.Block
	for _, sec := range resume.Sections {
		byID[sec.ID] = sec
		block := layout.Block{ID: sec.ID, Height: estimateHeight(sec)}
		if sec.Column == store.ColumnRight {
			right = append(right, block)
		} else {
			left = append(left, block)
		}
	}
	return layout.Paginate(left, right, a4Geometry), byID
}

func estimateHeight(sec store.Section) float64 {
	const titleHeight = 56
	c := sec.Content
	h := float64(titleHeight)
	h += 72 * float64(len(c.Education)+len(c.Projects)+len(c.Volunteering))
	h += 48 * float64(len(c.Achievements))
	h += 36 * float64(len(c.MyTime))
	h += 28 * float64(len(c.Languages)+len(c.Skills)+len(c.IndustryExpertise))
	return h
}

// sanitizeFilename creates a safe filename from a snapshot name.
func sanitizeFilename(name string) string {
	result := ""
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result += string(r)
		case r == ' ':
			result += "-"
		case r == '-', r == '_':
			result += string(r)
		default:
			// Skip other characters
		}
	}
	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "resume"
	}
	return result
}
