// Package snapshot keeps the last successfully fetched competitor export so a
// restart can serve it before the first refresh completes.
package snapshot

import (
	"context"
	"time"
)

// Snapshot is the raw export text of a successful load
type Snapshot struct {
	CompetitorsCSV string    `json:"competitorsCsv"`
	LastUpdated    string    `json:"lastUpdated"`
	FetchedAt      time.Time `json:"fetchedAt"`
}

// Store persists the last-known-good snapshot. Load returns nil, nil when
// nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
