package search

import (
	"context"
	"testing"
	"time"

	"cvstudio/api/internal/store"
)

func docWithText(name, fullName, skill string, updated time.Time) store.Document {
	return store.Document{
		ID:        store.NewID(),
		UpdatedAt: updated,
		Current: store.Snapshot{
			ID:        store.NewID(),
			Timestamp: updated,
			Name:      name,
			Resume: store.Resume{
				Header: &store.Header{FullName: fullName, Title: "Engineer"},
				Sections: []store.Section{
					{
						ID:     store.NewID(),
						Type:   store.SectionSkills,
						Column: store.ColumnLeft,
						Title:  "Skills",
						Content: store.SectionContent{
							Skills: []store.SkillItem{{Name: skill}},
						},
					},
				},
			},
		},
	}
}

type staticLister struct {
	docs []store.Document
}

func (l *staticLister) List(context.Context) ([]store.Document, error) {
	return l.docs, nil
}

func TestStoreScanMatchesSectionText(t *testing.T) {
	now := time.Now()
	lister := &staticLister{docs: []store.Document{
		docWithText("Backend CV", "Avery Quinn", "Kubernetes", now),
		docWithText("Design CV", "Morgan Reyes", "Figma", now.Add(-time.Hour)),
	}}
	scan := NewStoreScan(lister)

	results, total, err := scan.Search(context.Background(), Query{Text: "kubernetes"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("expected 1 match, got total=%d len=%d", total, len(results))
	}
	if results[0].Name != "Backend CV" {
		t.Fatalf("unexpected match: %+v", results[0])
	}
}

func TestStoreScanMatchesHeaderAndOrdersByRecency(t *testing.T) {
	now := time.Now()
	lister := &staticLister{docs: []store.Document{
		docWithText("Old", "Sam Avery", "Go", now.Add(-2*time.Hour)),
		docWithText("New", "Avery Quinn", "Go", now),
	}}
	scan := NewStoreScan(lister)

	results, total, err := scan.Search(context.Background(), Query{Text: "avery"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 matches, got %d", total)
	}
	if results[0].Name != "New" {
		t.Fatalf("expected most recently updated first, got %q", results[0].Name)
	}
}

func TestStoreScanEmptyQueryReturnsNothing(t *testing.T) {
	scan := NewStoreScan(&staticLister{docs: []store.Document{docWithText("CV", "A", "Go", time.Now())}})
	results, total, err := scan.Search(context.Background(), Query{Text: "   "})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 0 || len(results) != 0 {
		t.Fatalf("expected no results for blank query, got %d", total)
	}
}

func TestServiceFallsBackWithoutMeili(t *testing.T) {
	lister := &staticLister{docs: []store.Document{docWithText("CV", "Avery Quinn", "Go", time.Now())}}
	svc := NewService(nil, NewStoreScan(lister))

	resp := svc.Search(context.Background(), Query{Text: "quinn"})
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected fallback hit, got %+v", resp)
	}
}
