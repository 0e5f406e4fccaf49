package store

import "time"

// Microsite is the stored row for one published-or-draft site. Config is the
// saved copy of the configuration document; the draft copy lives with the
// editor session, never here.
type Microsite struct {
	ID           string
	BusinessName string
	EditKeyHash  string
	Config       []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MicrositeSummary is the dashboard listing row.
type MicrositeSummary struct {
	ID           string
	BusinessName string
	SEOTitle     string
	UpdatedAt    time.Time
}
