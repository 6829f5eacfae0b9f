// Package report persists dead-link findings per build and inspects rendered
// output for published stub links.
package report

import (
	"context"
	"time"
)

// DeadLink is one recorded unresolved wikilink.
type DeadLink struct {
	ID        int64
	BuildID   string
	Token     string
	Note      string
	CreatedAt time.Time
}

// Store defines the interface for persisting dead-link records.
type Store interface {
	// RecordDeadLink stores one unresolved token. Repeats of the same token
	// within one build are deduplicated; the first referencing note wins.
	RecordDeadLink(ctx context.Context, buildID, token, note string) error

	// DeadLinks retrieves all records for a build, insertion-ordered.
	DeadLinks(ctx context.Context, buildID string) ([]DeadLink, error)

	// CountDeadLinks returns the number of distinct dead tokens in a build.
	CountDeadLinks(ctx context.Context, buildID string) (int, error)

	// Close closes the store and releases resources.
	Close() error
}
