package wikilink

import (
	"strings"

	"git.home.luguber.info/inful/notebuilder/internal/assets"
	"git.home.luguber.info/inful/notebuilder/internal/metrics"
	"git.home.luguber.info/inful/notebuilder/internal/util/sets"
)

// Options configures an Engine.
type Options struct {
	// StubURL is the href given to unresolved links. Defaults to DefaultStubURL.
	StubURL string

	// ImageExtensions lists filename extensions treated as images, with or
	// without a leading dot, matched case-insensitively.
	ImageExtensions []string

	// Resolvers are the registered render-strategy names consulted during
	// custom-resolver dispatch. Only membership is checked here; strategies
	// are invoked by the renderer, never by the engine.
	Resolvers []string
}

// Engine composes extraction and interpretation over shared cache and
// dead-link state. The cache and dead-link set are owned by the caller and may
// be shared across engines and goroutines; the engine only adds entries.
type Engine struct {
	index     Index
	images    *assets.Locator
	cache     *Cache
	dead      *DeadLinks
	stubURL   string
	imageExts sets.Set[string]
	resolvers sets.Set[string]
	rec       metrics.Recorder
}

// NewEngine creates an engine over the given note index, image locator, and
// shared cache/dead-link state.
func NewEngine(index Index, images *assets.Locator, cache *Cache, dead *DeadLinks, opts Options) *Engine {
	stub := opts.StubURL
	if stub == "" {
		stub = DefaultStubURL
	}

	exts := sets.New[string]()
	for _, ext := range opts.ImageExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts.Add(ext)
	}

	return &Engine{
		index:     index,
		images:    images,
		cache:     cache,
		dead:      dead,
		stubURL:   stub,
		imageExts: exts,
		resolvers: sets.New(opts.Resolvers...),
		rec:       metrics.NoopRecorder{},
	}
}

// WithRecorder replaces the metrics recorder and returns the engine.
func (e *Engine) WithRecorder(rec metrics.Recorder) *Engine {
	if rec != nil {
		e.rec = rec
	}
	return e
}

// StubURL returns the configured stub href for unresolved links.
func (e *Engine) StubURL() string { return e.stubURL }

// DeadLinks returns the shared dead-link set.
func (e *Engine) DeadLinks() *DeadLinks { return e.dead }

// Resolve extracts every wikilink occurrence in text and interprets each, in
// document order. The returned records are positionally aligned with
// ExtractOccurrences so the caller can substitute renderings in place.
func (e *Engine) Resolve(text, referencingPath string) ([]*Meta, error) {
	occs := ExtractOccurrences(text)
	if len(occs) == 0 {
		return nil, nil
	}

	metas := make([]*Meta, 0, len(occs))
	for _, occ := range occs {
		m, err := e.Interpret(occ.Raw, referencingPath)
		if err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, nil
}
