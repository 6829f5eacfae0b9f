package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountStubLinks(t *testing.T) {
	page := `<html><body>
		<a href="/stubs/">dead one</a>
		<a href="/stubs/#fragment">dead with anchor</a>
		<a href="/blog/a-post/">fine</a>
		<a href="/stubs/nested">not the stub itself</a>
	</body></html>`

	n, err := CountStubLinks(strings.NewReader(page), "/stubs/")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestCountStubLinks_NoStubURL(t *testing.T) {
	n, err := CountStubLinks(strings.NewReader(`<a href="/stubs/">x</a>`), "")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestScanRenderedSite(t *testing.T) {
	dir := t.TempDir()
	pages := map[string]string{
		"index.html":        `<a href="/stubs/">one</a>`,
		"blog/post.html":    `<a href="/stubs/">two</a> <a href="/ok/">fine</a>`,
		"blog/other.htm":    `<a href="/stubs/#x">three</a>`,
		"assets/styles.css": `a { color: red; }`,
	}
	for rel, content := range pages {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}

	total, err := ScanRenderedSite(dir, "/stubs/")
	require.NoError(t, err)
	require.Equal(t, 3, total)
}

func TestScanRenderedSite_Empty(t *testing.T) {
	total, err := ScanRenderedSite(t.TempDir(), "/stubs/")
	require.NoError(t, err)
	require.Zero(t, total)
}
