// Package events publishes dead-link findings to NATS for downstream
// processing (e.g. opening issues against the notes repository).
package events

import "time"

// DeadLinkEvent represents an unresolved wikilink discovered during a build.
type DeadLinkEvent struct {
	Token     string    `json:"token"`    // The raw wikilink token
	Note      string    `json:"note"`     // Identity path of the referencing note
	Href      string    `json:"href"`     // Stub href the link was published with
	BuildID   string    `json:"build_id"` // Build identifier
	Timestamp time.Time `json:"timestamp"`
}
