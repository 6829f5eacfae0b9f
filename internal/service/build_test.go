package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notebuilder/internal/config"
	"git.home.luguber.info/inful/notebuilder/internal/render"
	"git.home.luguber.info/inful/notebuilder/internal/report"
	"git.home.luguber.info/inful/notebuilder/internal/wikilink"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Content.Root = t.TempDir()
	cfg.Output.Directory = t.TempDir()
	cfg.Links.StubURL = "/stubs/"
	cfg.Links.ImageExtensions = []string{"jpg", "png"}
	cfg.Links.Workers = 2
	return cfg
}

func writeTestNote(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

func TestBuilder_Run(t *testing.T) {
	cfg := testConfig(t)
	writeTestNote(t, cfg.Content.Root, "a.md",
		"---\ntitle: Note A\n---\nSee [[Note B]] and [[Missing]].\n")
	writeTestNote(t, cfg.Content.Root, "b.md",
		"---\ntitle: Note B\n---\nNo links here.\n")

	builder := NewBuilder(cfg)
	builder.RenderOutput = true

	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.BuildID)
	require.Equal(t, 2, result.Notes)
	require.Equal(t, 2, result.Links)
	require.Equal(t, []string{"[[Missing]]"}, result.DeadLinks)
	require.Empty(t, result.Failures)

	page, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "a", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), `<a href="/b/">Note B</a>`)
	require.Contains(t, string(page), `<a class="dead-link" href="/stubs/">Missing</a>`)
}

func TestBuilder_Run_LinkOnlyWritesNoOutput(t *testing.T) {
	cfg := testConfig(t)
	writeTestNote(t, cfg.Content.Root, "a.md", "See [[Missing]].\n")

	builder := NewBuilder(cfg)
	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"[[Missing]]"}, result.DeadLinks)

	entries, err := os.ReadDir(cfg.Output.Directory)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestBuilder_Run_CodeRegionsAreExcluded(t *testing.T) {
	cfg := testConfig(t)
	writeTestNote(t, cfg.Content.Root, "a.md",
		"Inline `[[ignored]]` and fenced:\n\n```\n[[also ignored]]\n```\n\nReal: [[Missing]]\n")

	builder := NewBuilder(cfg)
	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Links)
	require.Equal(t, []string{"[[Missing]]"}, result.DeadLinks)
}

func TestBuilder_Run_FatalLinkErrorFailsTheNoteOnly(t *testing.T) {
	cfg := testConfig(t)
	writeTestNote(t, cfg.Content.Root, "bad.md", "Broken [[fail:1234]] link.\n")
	writeTestNote(t, cfg.Content.Root, "good.md", "---\ntitle: Good\n---\nFine.\n")

	builder := NewBuilder(cfg)
	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Notes)
	require.Len(t, result.Failures, 1)
	require.Equal(t, "/bad", result.Failures[0].Note)
	require.Error(t, result.Failures[0].Err)
}

func TestBuilder_Run_RecordsDeadLinksInStore(t *testing.T) {
	cfg := testConfig(t)
	writeTestNote(t, cfg.Content.Root, "a.md", "See [[Missing]] and ![[ghost.png]].\n")

	store, err := report.NewSQLiteStore(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	defer store.Close()

	builder := NewBuilder(cfg).WithStore(store)
	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.DeadLinks, 2)

	n, err := store.CountDeadLinks(context.Background(), result.BuildID)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestBuilder_Run_DeadLinksAttributedToReferencingNote(t *testing.T) {
	cfg := testConfig(t)
	cfg.Links.Workers = 4

	// Each note carries its own dead token; a report row must name a note
	// that actually contains the token, not whichever worker finished last.
	want := map[string]string{}
	for _, name := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
		writeTestNote(t, cfg.Content.Root, name+".md",
			"Only [[missing-"+name+"]] here, plus filler prose.\n")
		want["[[missing-"+name+"]]"] = "/" + name
	}

	store, err := report.NewSQLiteStore(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	defer store.Close()

	builder := NewBuilder(cfg).WithStore(store)
	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.DeadLinks, len(want))

	rows, err := store.DeadLinks(context.Background(), result.BuildID)
	require.NoError(t, err)
	require.Len(t, rows, len(want))
	for _, row := range rows {
		require.Equal(t, want[row.Token], row.Note, row.Token)
	}
}

func TestBuilder_Run_CustomResolver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Links.Resolvers = []string{"issue"}
	writeTestNote(t, cfg.Content.Root, "a.md", "Tracked in [[issue:42]].\n")

	registry := render.NewRegistry()
	require.NoError(t, registry.Register("issue", func(meta *wikilink.Meta) (string, error) {
		return `<a href="https://tracker.example/` + meta.Name + `">#` + meta.Name + `</a>`, nil
	}))

	builder := NewBuilder(cfg).WithRegistry(registry)
	builder.RenderOutput = true

	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Empty(t, result.DeadLinks)

	page, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "a", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), `<a href="https://tracker.example/42">#42</a>`)
}

func TestBuilder_Run_UnregisteredConfiguredResolver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Links.Resolvers = []string{"issue"}
	writeTestNote(t, cfg.Content.Root, "a.md", "body\n")

	_, err := NewBuilder(cfg).Run(context.Background())
	require.Error(t, err)
}

func TestBuilder_Run_EmbedsRenderTargetBody(t *testing.T) {
	cfg := testConfig(t)
	writeTestNote(t, cfg.Content.Root, "a.md", "Intro.\n\n![[Note B]]\n")
	writeTestNote(t, cfg.Content.Root, "b.md", "---\ntitle: Note B\n---\n# Embedded Heading\n")

	builder := NewBuilder(cfg)
	builder.RenderOutput = true

	result, err := builder.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Failures)

	page, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "a", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "<h1>Embedded Heading</h1>")
}
