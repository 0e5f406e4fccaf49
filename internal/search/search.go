// Package search powers the dashboard's microsite lookup: Meilisearch when
// it is available, Postgres full-text as the fallback.
package search

// SiteRecord is the data indexed per microsite.
type SiteRecord struct {
	ID           string `json:"id"`
	BusinessName string `json:"businessName"`
	SEOTitle     string `json:"seoTitle"`
	Description  string `json:"description"`
}

// Query describes a dashboard search request.
type Query struct {
	Text  string
	Limit int
}

// Result is a single hit returned to the dashboard.
type Result struct {
	ID           string `json:"id"`
	BusinessName string `json:"businessName"`
	SEOTitle     string `json:"seoTitle"`
	Snippet      string `json:"snippet,omitempty"`
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a microsite search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push microsites into a search index.
type Indexer interface {
	IndexSite(rec SiteRecord) error
	DeleteSite(id string) error
}
