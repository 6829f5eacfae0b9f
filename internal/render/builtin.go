package render

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/notebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/notebuilder/internal/markdown"
	"git.home.luguber.info/inful/notebuilder/internal/wikilink"
)

// DefaultLink renders a plain wikilink as an anchor. Unresolved links carry
// the stub href and a dead-link class so themes can style them as stubs.
func DefaultLink(meta *wikilink.Meta) (string, error) {
	href := meta.Href
	if meta.Anchor != "" {
		href += "#" + meta.Anchor
	}
	if !meta.Exists {
		return fmt.Sprintf(`<a class="dead-link" href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(displayText(meta))), nil
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(displayText(meta))), nil
}

// DefaultEmbed renders an embedded note by compiling the target's Markdown
// body to HTML in place.
func DefaultEmbed(meta *wikilink.Meta) (string, error) {
	if !meta.Exists || meta.Path == "" {
		// Interpretation routes unresolved embeds to the 404 strategy, so an
		// embed without a target here is a wiring bug.
		return "", errors.InternalError("embed target missing").WithContext("token", meta.Link).Build()
	}

	raw, err := os.ReadFile(filepath.Clean(meta.Path))
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read embed target").
			WithContext("path", meta.Path).
			Build()
	}

	out, err := markdown.RenderHTML(frontmatter.Body(raw))
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryBuild, "failed to render embed target").
			WithContext("path", meta.Path).
			Build()
	}
	return string(out), nil
}

// ImageEmbed renders a resolved image asset.
func ImageEmbed(meta *wikilink.Meta) (string, error) {
	return fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(meta.Href), html.EscapeString(meta.Title)), nil
}

// NotFoundEmbed renders any unresolved embed, image or note, as a stub link.
func NotFoundEmbed(meta *wikilink.Meta) (string, error) {
	return fmt.Sprintf(`<a class="dead-link" href="%s">%s</a>`, html.EscapeString(meta.Href), html.EscapeString(displayText(meta))), nil
}

// displayText picks the explicit title when the author set one, the
// dereferenced name otherwise.
func displayText(meta *wikilink.Meta) string {
	if meta.Title != "" {
		return meta.Title
	}
	return meta.Name
}
