package search

import (
	"context"
	"log"
)

// Fallback is the Postgres full-text path used when Meilisearch is down.
type Fallback interface {
	SearchSites(ctx context.Context, text string, limit int) ([]Result, error)
}

// Service is the facade that tries Meilisearch first and falls back to
// Postgres full-text search.
type Service struct {
	meili    *Meili
	fallback Fallback
}

// NewService creates a search service. meili may be nil when Meilisearch is
// not configured.
func NewService(meili *Meili, fallback Fallback) *Service {
	return &Service{meili: meili, fallback: fallback}
}

// Search tries Meilisearch if healthy, otherwise the Postgres fallback.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to postgres: %v", err)
	}

	results, err := s.fallback.SearchSites(ctx, q.Text, q.Limit)
	if err != nil {
		log.Printf("search: postgres fallback error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: len(results), Query: q.Text}
}

// IndexSite pushes a microsite into the index, fire-and-forget. Called by
// the app layer after a confirmed save; the save pipeline itself never
// knows about indexing.
func (s *Service) IndexSite(rec SiteRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexSite(rec); err != nil {
			log.Printf("search: index site %s: %v", rec.ID, err)
		}
	}()
}

// RemoveSite drops a microsite from the index, fire-and-forget.
func (s *Service) RemoveSite(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteSite(id); err != nil {
			log.Printf("search: remove site %s: %v", id, err)
		}
	}()
}

func nonNil(results []Result) []Result {
	if results == nil {
		return []Result{}
	}
	return results
}
