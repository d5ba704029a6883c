// Package search indexes resume documents and answers text queries. It
// prefers Meilisearch when configured and healthy, falling back to a scan
// of the document store.
package search

import (
	"strings"

	"cvstudio/api/internal/store"
)

type Query struct {
	Text  string
	Limit int
}

type Result struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Headline string `json:"headline"`
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// DocumentRecord is the indexed projection of a document.
type DocumentRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FullName  string `json:"fullName"`
	Headline  string `json:"headline"`
	Body      string `json:"body"`
	UpdatedAt int64  `json:"updatedAt"`
}

// RecordFrom flattens a document's current snapshot into its indexable form.
func RecordFrom(doc store.Document) DocumentRecord {
	rec := DocumentRecord{
		ID:        doc.ID,
		Name:      doc.Current.Name,
		UpdatedAt: doc.UpdatedAt.Unix(),
	}
	if h := doc.Current.Resume.Header; h != nil {
		rec.FullName = h.FullName
		rec.Headline = h.Title
	}
	rec.Body = bodyText(doc.Current.Resume)
	return rec
}

func bodyText(r store.Resume) string {
	var parts []string
	if r.Header != nil {
		parts = append(parts, r.Header.Summary, r.Header.Location)
	}
	for _, sec := range r.Sections {
		parts = append(parts, sec.Title)
		c := sec.Content
		for _, it := range c.Education {
			parts = append(parts, it.Degree, it.Institution, it.Description)
		}
		for _, it := range c.Projects {
			parts = append(parts, it.Name, it.Description)
		}
		for _, it := range c.Languages {
			parts = append(parts, it.Name)
		}
		for _, it := range c.Skills {
			parts = append(parts, it.Name)
		}
		for _, it := range c.Achievements {
			parts = append(parts, it.Title, it.Description)
		}
		for _, it := range c.Volunteering {
			parts = append(parts, it.Organization, it.Role, it.Description)
		}
		for _, it := range c.MyTime {
			parts = append(parts, it.Label)
		}
		for _, it := range c.IndustryExpertise {
			parts = append(parts, it.Name)
		}
	}
	fields := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, "\n")
}
