// Package service orchestrates a NoteBuilder build: scan the content tree,
// resolve every note's wikilinks, render output, and report dead links.
package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/notebuilder/internal/assets"
	"git.home.luguber.info/inful/notebuilder/internal/config"
	"git.home.luguber.info/inful/notebuilder/internal/events"
	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/notebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/notebuilder/internal/logfields"
	"git.home.luguber.info/inful/notebuilder/internal/markdown"
	"git.home.luguber.info/inful/notebuilder/internal/metrics"
	"git.home.luguber.info/inful/notebuilder/internal/noteindex"
	"git.home.luguber.info/inful/notebuilder/internal/render"
	"git.home.luguber.info/inful/notebuilder/internal/report"
	"git.home.luguber.info/inful/notebuilder/internal/wikilink"
)

// NoteFailure records a note whose interpretation failed fatally. The build
// continues with the remaining notes; failures surface in the result.
type NoteFailure struct {
	Note string
	Err  error
}

// Result summarizes one build.
type Result struct {
	BuildID   string
	Notes     int
	Links     int
	DeadLinks []string
	Failures  []NoteFailure
	Duration  time.Duration
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg       *config.Config
	registry  *render.Registry
	store     report.Store
	publisher *events.Publisher
	rec       metrics.Recorder

	// RenderOutput controls whether rendered HTML is written to the output
	// directory; link-only runs leave it false.
	RenderOutput bool
}

// NewBuilder creates a builder with the built-in render registry and no
// metrics, store, or publisher.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		registry: render.NewRegistry(),
		rec:      metrics.NoopRecorder{},
	}
}

// WithRegistry replaces the render registry (hosts register custom resolvers
// on it before the build).
func (b *Builder) WithRegistry(r *render.Registry) *Builder {
	if r != nil {
		b.registry = r
	}
	return b
}

// WithStore attaches a dead-link report store.
func (b *Builder) WithStore(s report.Store) *Builder {
	b.store = s
	return b
}

// WithPublisher attaches a dead-link event publisher.
func (b *Builder) WithPublisher(p *events.Publisher) *Builder {
	b.publisher = p
	return b
}

// WithRecorder attaches a metrics recorder.
func (b *Builder) WithRecorder(rec metrics.Recorder) *Builder {
	if rec != nil {
		b.rec = rec
	}
	return b
}

// Run executes one build. Fatal interpretation errors abort the affected note
// only; dead links degrade to stub output and are reported, never fatal.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	slog.Info("Starting build", logfields.BuildID(buildID), logfields.Path(b.cfg.Content.Root))

	if err := b.checkResolvers(); err != nil {
		return nil, err
	}

	idx, err := noteindex.Scan(b.cfg.Content.Root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryIndex, "failed to scan content root").
			WithContext("root", b.cfg.Content.Root).
			Build()
	}

	root, err := filepath.Abs(b.cfg.Content.Root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve content root").Build()
	}

	if b.RenderOutput && b.cfg.Output.Clean {
		if err := os.RemoveAll(b.cfg.Output.Directory); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("dir", b.cfg.Output.Directory).
				Build()
		}
	}

	cache := wikilink.NewCache()
	dead := wikilink.NewDeadLinks()
	engine := wikilink.NewEngine(idx, assets.NewLocator(root), cache, dead, wikilink.Options{
		StubURL:         b.cfg.Links.StubURL,
		ImageExtensions: b.cfg.Links.ImageExtensions,
		Resolvers:       b.registry.Names(),
	}).WithRecorder(b.rec)

	var mu sync.Mutex
	result := &Result{BuildID: buildID}
	deadNotes := make(map[string]string) // token -> first referencing note

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Links.Workers)

	for _, note := range idx.Notes() {
		note := note
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			links, deadTokens, err := b.processNote(engine, note)
			mu.Lock()
			defer mu.Unlock()
			result.Notes++
			result.Links += links
			if err != nil {
				slog.Error("Note failed", logfields.Note(note.Identity()), logfields.Error(err))
				result.Failures = append(result.Failures, NoteFailure{Note: note.Identity(), Err: err})
			}
			for _, token := range deadTokens {
				if _, ok := deadNotes[token]; !ok {
					deadNotes[token] = note.Identity()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.DeadLinks = dead.Tokens()
	result.Duration = time.Since(start)

	b.reportDeadLinks(ctx, engine, result, deadNotes)

	outcome := "success"
	switch {
	case len(result.Failures) > 0:
		outcome = "failed"
	case len(result.DeadLinks) > 0:
		outcome = "warning"
	}
	b.rec.ObserveBuildDuration(result.Duration)
	b.rec.IncBuildOutcome(outcome)

	slog.Info("Build finished",
		logfields.BuildID(buildID),
		slog.Int("notes", result.Notes),
		slog.Int("links", result.Links),
		slog.Int("dead_links", len(result.DeadLinks)),
		slog.Int("failures", len(result.Failures)),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

// checkResolvers verifies every configured custom resolver has a registered
// render strategy before any interpretation starts.
func (b *Builder) checkResolvers() error {
	for _, name := range b.cfg.Links.Resolvers {
		if !b.registry.Has(name) {
			return errors.ConfigError("configured resolver has no registered render strategy").
				WithContext("name", name).
				Build()
		}
	}
	return nil
}

// processNote resolves and (optionally) renders one note. Returns the number
// of wikilink occurrences interpreted and the tokens among them that resolved
// dead, so the caller can attribute each dead token to a note that actually
// references it.
func (b *Builder) processNote(engine *wikilink.Engine, note *noteindex.Note) (int, []string, error) {
	raw, err := os.ReadFile(note.InputPath())
	if err != nil {
		return 0, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read note").
			WithContext("path", note.InputPath()).
			Build()
	}
	body := frontmatter.Body(raw)
	text := string(body)

	// Code and pre regions are excluded by the caller, not the extractor.
	regions := markdown.CodeRegions(body)
	occs := wikilink.ExtractOccurrences(text)

	var kept []wikilink.Occurrence
	for _, occ := range occs {
		if markdown.InRegion(regions, occ.Start) {
			continue
		}
		kept = append(kept, occ)
	}

	metas := make([]*wikilink.Meta, len(kept))
	var deadTokens []string
	for i, occ := range kept {
		m, err := engine.Interpret(occ.Raw, note.Identity())
		if err != nil {
			return i, deadTokens, errors.WrapError(err, errors.CategoryLink, "wikilink interpretation failed").
				WithContext("note", note.Identity()).
				WithContext("token", occ.Raw).
				Build()
		}
		metas[i] = m
		if engine.DeadLinks().Has(m.Link) {
			deadTokens = append(deadTokens, m.Link)
		}
	}

	if !b.RenderOutput {
		return len(kept), deadTokens, nil
	}
	return len(kept), deadTokens, b.renderNote(note, text, kept, metas)
}

// renderNote splices rendered wikilink fragments into the body and writes the
// compiled page under the output directory.
func (b *Builder) renderNote(note *noteindex.Note, text string, occs []wikilink.Occurrence, metas []*wikilink.Meta) error {
	var out strings.Builder
	last := 0
	for i, occ := range occs {
		fragment, err := b.registry.Render(metas[i])
		if err != nil {
			return err
		}
		out.WriteString(text[last:occ.Start])
		out.WriteString(fragment)
		last = occ.End
	}
	out.WriteString(text[last:])

	page, err := markdown.RenderHTML([]byte(out.String()))
	if err != nil {
		return errors.WrapError(err, errors.CategoryBuild, "failed to render note").
			WithContext("note", note.Identity()).
			Build()
	}

	dir := filepath.Join(b.cfg.Output.Directory, filepath.FromSlash(strings.TrimPrefix(note.Identity(), "/")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("dir", dir).
			Build()
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), page, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write rendered page").
			WithContext("note", note.Identity()).
			Build()
	}
	return nil
}

// reportDeadLinks persists and publishes the build's dead-link findings.
// Store and publisher failures degrade to warnings.
func (b *Builder) reportDeadLinks(ctx context.Context, engine *wikilink.Engine, result *Result, deadNotes map[string]string) {
	if len(result.DeadLinks) == 0 {
		return
	}

	for _, token := range result.DeadLinks {
		notePath := deadNotes[token]

		if b.store != nil {
			if err := b.store.RecordDeadLink(ctx, result.BuildID, token, notePath); err != nil {
				slog.Warn("Failed to record dead link", logfields.Token(token), logfields.Error(err))
			}
		}

		if b.publisher != nil {
			ev := events.DeadLinkEvent{
				Token:     token,
				Note:      notePath,
				Href:      engine.StubURL(),
				BuildID:   result.BuildID,
				Timestamp: time.Now().UTC(),
			}
			if err := b.publisher.Publish(ev); err != nil {
				slog.Warn("Failed to publish dead-link event", logfields.Token(token), logfields.Error(err))
			}
		}
	}

	if b.publisher != nil {
		if err := b.publisher.Flush(); err != nil {
			slog.Warn("Failed to flush dead-link events", logfields.Error(err))
		}
	}
}
