package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "notebuilder.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "content:\n  root: ./notes\n"))
	require.NoError(t, err)

	require.Equal(t, "./notes", cfg.Content.Root)
	require.Equal(t, "./site", cfg.Output.Directory)
	require.Equal(t, "/stubs/", cfg.Links.StubURL)
	require.Equal(t, DefaultImageExtensions, cfg.Links.ImageExtensions)
	require.Equal(t, 4, cfg.Links.Workers)
	require.Equal(t, "./notebuilder.db", cfg.Report.Database)
	require.Equal(t, "notebuilder.deadlinks", cfg.Events.Subject)
	require.False(t, cfg.Events.Enabled)
	require.Equal(t, ":9100", cfg.Metrics.Listen)
}

func TestLoad_ExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
content:
  root: /srv/notes
links:
  stub_url: /missing/
  image_extensions: [svg]
  resolvers: [issue, wiki]
  workers: 2
`))
	require.NoError(t, err)
	require.Equal(t, "/srv/notes", cfg.Content.Root)
	require.Equal(t, "/missing/", cfg.Links.StubURL)
	require.Equal(t, []string{"svg"}, cfg.Links.ImageExtensions)
	require.Equal(t, []string{"issue", "wiki"}, cfg.Links.Resolvers)
	require.Equal(t, 2, cfg.Links.Workers)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("NOTEBUILDER_TEST_ROOT", "/env/notes")
	cfg, err := Load(writeConfig(t, "content:\n  root: ${NOTEBUILDER_TEST_ROOT}\n"))
	require.NoError(t, err)
	require.Equal(t, "/env/notes", cfg.Content.Root)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate_RelativeStubURL(t *testing.T) {
	_, err := Load(writeConfig(t, "content:\n  root: ./notes\nlinks:\n  stub_url: stubs\n"))
	require.Error(t, err)
}

func TestValidate_AbsoluteURLStubIsAccepted(t *testing.T) {
	cfg, err := Load(writeConfig(t, "content:\n  root: ./notes\nlinks:\n  stub_url: https://example.org/stubs/\n"))
	require.NoError(t, err)
	require.Equal(t, "https://example.org/stubs/", cfg.Links.StubURL)
}

func TestValidate_DuplicateResolverNames(t *testing.T) {
	_, err := Load(writeConfig(t, "content:\n  root: ./notes\nlinks:\n  resolvers: [issue, issue]\n"))
	require.Error(t, err)
}

func TestValidate_EventsRequireSubject(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Events.Enabled = true
	cfg.Events.Subject = "   "
	require.Error(t, cfg.Validate())
}

func TestInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notebuilder.yaml")
	require.NoError(t, Init(p, false))

	// Refuses to overwrite without force.
	require.Error(t, Init(p, false))
	require.NoError(t, Init(p, true))

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "./notes", cfg.Content.Root)
}
