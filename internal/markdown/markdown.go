// Package markdown provides the goldmark-based helpers the build pipeline
// needs around wikilink resolution: HTML rendering and code-region detection.
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// RenderHTML renders a Markdown body (frontmatter already removed) to HTML.
// Raw HTML passes through unescaped because wikilink renderings are spliced
// into the body as HTML fragments before this call.
func RenderHTML(body []byte) ([]byte, error) {
	md := goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Region is a half-open byte range [Start, Stop) within a source body.
type Region struct {
	Start int
	Stop  int
}

// CodeRegions parses body and returns the byte ranges covered by fenced code
// blocks, indented code blocks, and inline code spans, sorted by start offset.
// Wikilink extraction must not look inside these ranges; callers filter
// occurrences against them before interpreting.
func CodeRegions(body []byte) []Region {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var regions []Region
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				first := lines.At(0)
				last := lines.At(lines.Len() - 1)
				regions = append(regions, Region{Start: first.Start, Stop: last.Stop})
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			// The span node carries no segment itself; take the union of its
			// text children.
			start, stop := -1, -1
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				t, ok := c.(*gmast.Text)
				if !ok {
					continue
				}
				if start < 0 || t.Segment.Start < start {
					start = t.Segment.Start
				}
				if t.Segment.Stop > stop {
					stop = t.Segment.Stop
				}
			}
			if start >= 0 {
				regions = append(regions, Region{Start: start, Stop: stop})
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	sort.Slice(regions, func(i, j int) bool { return regions[i].Start < regions[j].Start })
	return regions
}

// InRegion reports whether offset falls inside any of the regions.
func InRegion(regions []Region, offset int) bool {
	for _, r := range regions {
		if offset >= r.Start && offset < r.Stop {
			return true
		}
		if r.Start > offset {
			break
		}
	}
	return false
}
