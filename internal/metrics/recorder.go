package metrics

import "time"

// Recorder defines observability hooks for link resolution and build metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	IncResolved(strategy string)
	IncCacheHit()
	IncDeadLink()
	IncImageLookup(found bool)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncResolved(string)                 {}
func (NoopRecorder) IncCacheHit()                       {}
func (NoopRecorder) IncDeadLink()                       {}
func (NoopRecorder) IncImageLookup(bool)                {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
