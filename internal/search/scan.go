package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cvstudio/api/internal/store"
)

// Lister is the slice of the document store the scan fallback needs.
type Lister interface {
	List(ctx context.Context) ([]store.Document, error)
}

// StoreScan is the fallback searcher: it loads every document and does a
// case-insensitive substring match over the indexable text. Fine for the
// document counts a single editing client produces.
type StoreScan struct {
	lister Lister
}

func NewStoreScan(lister Lister) *StoreScan {
	return &StoreScan{lister: lister}
}

func (s *StoreScan) Search(ctx context.Context, q Query) ([]Result, int, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return nil, 0, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	docs, err := s.lister.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("scan documents: %w", err)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})

	var matches []Result
	for _, doc := range docs {
		rec := RecordFrom(doc)
		haystack := strings.ToLower(strings.Join([]string{rec.Name, rec.FullName, rec.Headline, rec.Body}, "\n"))
		if !strings.Contains(haystack, text) {
			continue
		}
		matches = append(matches, Result{
			ID:       rec.ID,
			Name:     rec.Name,
			FullName: rec.FullName,
			Headline: rec.Headline,
		})
	}

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, total, nil
}
