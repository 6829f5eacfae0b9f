package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderHTML_Basic(t *testing.T) {
	out, err := RenderHTML([]byte("# Hello\n\nsome *text*\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<h1>Hello</h1>")
	require.Contains(t, string(out), "<em>text</em>")
}

func TestRenderHTML_RawHTMLPassesThrough(t *testing.T) {
	out, err := RenderHTML([]byte(`before <a href="/a/">A</a> after`))
	require.NoError(t, err)
	require.Contains(t, string(out), `<a href="/a/">A</a>`)
}

func TestCodeRegions_FencedBlock(t *testing.T) {
	body := []byte("before\n\n```\n[[inside fence]]\n```\n\nafter [[outside]]\n")
	regions := CodeRegions(body)
	require.NotEmpty(t, regions)

	inside := strings.Index(string(body), "[[inside fence]]")
	outside := strings.Index(string(body), "[[outside]]")
	require.True(t, InRegion(regions, inside))
	require.False(t, InRegion(regions, outside))
}

func TestCodeRegions_InlineCodeSpan(t *testing.T) {
	body := []byte("use `[[not a link]]` but [[real]]\n")
	regions := CodeRegions(body)
	require.NotEmpty(t, regions)

	span := strings.Index(string(body), "[[not a link]]")
	real := strings.Index(string(body), "[[real]]")
	require.True(t, InRegion(regions, span))
	require.False(t, InRegion(regions, real))
}

func TestCodeRegions_IndentedBlock(t *testing.T) {
	body := []byte("para\n\n    [[indented code]]\n\npara\n")
	regions := CodeRegions(body)
	require.NotEmpty(t, regions)

	idx := strings.Index(string(body), "[[indented code]]")
	require.True(t, InRegion(regions, idx))
}

func TestCodeRegions_NoCode(t *testing.T) {
	require.Empty(t, CodeRegions([]byte("just [[a link]] in prose\n")))
}

func TestInRegion_Bounds(t *testing.T) {
	regions := []Region{{Start: 5, Stop: 10}}
	require.False(t, InRegion(regions, 4))
	require.True(t, InRegion(regions, 5))
	require.True(t, InRegion(regions, 9))
	require.False(t, InRegion(regions, 10))
}
