package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to a
// store scan.
type Service struct {
	meili *Meili
	scan  *StoreScan
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, scan *StoreScan) *Service {
	return &Service{meili: meili, scan: scan}
}

// MeiliStatus reports whether Meilisearch is configured and whether its
// health loop currently considers it reachable.
func (s *Service) MeiliStatus() (configured, healthy bool) {
	if s.meili == nil {
		return false, false
	}
	return true, s.meili.Healthy()
}

// Search tries Meilisearch if healthy, otherwise scans the store.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to store scan: %v", err)
	}

	results, total, err := s.scan.Search(ctx, q)
	if err != nil {
		log.Printf("search: store scan error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexDocument indexes a document (fire-and-forget to Meilisearch).
func (s *Service) IndexDocument(rec DocumentRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexDocument(rec); err != nil {
			log.Printf("search: index document %s: %v", rec.ID, err)
		}
	}()
}

// DeleteDocument removes a document from the search index (fire-and-forget).
func (s *Service) DeleteDocument(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteDocument(id); err != nil {
			log.Printf("search: delete document %s: %v", id, err)
		}
	}()
}

func nonNil(results []Result) []Result {
	if results == nil {
		return []Result{}
	}
	return results
}
