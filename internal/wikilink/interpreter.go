package wikilink

import (
	"path"
	"strings"
)

// Interpret turns one raw token into its metadata record, consulting the cache
// first. The steps run in a fixed order: embed detection, title split, anchor
// split, path detection, custom-resolver dispatch, image detection, note
// lookup, cache write. referencingPath is the slash path identity of the note
// containing the token ("" when unknown); relative-path tokens fail with
// MissingContextError without it.
func (e *Engine) Interpret(token, referencingPath string) (*Meta, error) {
	if m, ok := e.cache.Get(token); ok {
		e.rec.IncCacheHit()
		return m, nil
	}

	m := &Meta{Link: token, Resolver: ResolverDefault}

	// Embed detection.
	body := token
	if strings.HasPrefix(body, "!") {
		m.IsEmbed = true
		m.Resolver = ResolverDefaultEmbed
		body = body[1:]
	}
	body = strings.TrimPrefix(body, "[[")
	body = strings.TrimSuffix(body, "]]")

	// Title split on the first |.
	name := body
	if idx := strings.Index(body, "|"); idx >= 0 {
		name = body[:idx]
		m.Title = strings.TrimSpace(body[idx+1:])
	}
	name = stripMarkdownExt(strings.TrimSpace(name))

	// Anchor split on the first #. A preceding / escapes the # into a
	// literal; the escape itself is removed and no anchor is extracted.
	if idx := strings.Index(name, "#"); idx >= 0 {
		if idx > 0 && name[idx-1] == '/' {
			name = name[:idx-1] + name[idx:]
		} else {
			m.Anchor = name[idx+1:]
			name = name[:idx]
		}
	}

	// Path detection. Relative references are rewritten to absolute-from-root
	// identities; that needs to know where the referencing note lives.
	if strings.HasPrefix(name, "/") {
		m.IsPath = true
	} else if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		m.IsPath = true
		if referencingPath == "" {
			return nil, &MissingContextError{Token: token}
		}
		name = resolveRelative(name, referencingPath)
	}

	// Custom resolver dispatch on the first :. A preceding / escapes the
	// colon into a literal. An unregistered prefix falls back to a direct
	// note lookup of the whole name before becoming an authoring error.
	if idx := strings.Index(name, ":"); idx >= 0 {
		if idx > 0 && name[idx-1] == '/' {
			name = name[:idx-1] + name[idx:]
		} else {
			prefix := name[:idx]
			if e.resolvers.Has(prefix) {
				m.Resolver = prefix
				name = strings.TrimSpace(name[idx+1:])
			} else {
				m.Name = name
				if match := e.index.FindByLink(m); match.Found {
					e.applyMatch(m, match)
					return e.finish(m), nil
				}
				return nil, &UnresolvedResolverError{Prefix: prefix, Token: token, ReferencingPath: referencingPath}
			}
		}
	}
	m.Name = name

	// Image detection, for embeds and plain links alike.
	if ext := strings.ToLower(path.Ext(name)); ext != "" && e.imageExts.Has(ext) {
		m.IsImage = true
		m.Resolver = ResolverImageEmbed
		if loc, ok := e.images.Locate(name, referencingPath); ok {
			m.Exists = true
			m.Href = loc.Href
			m.Path = loc.FullPath
			if m.Title == "" {
				base := path.Base(name)
				m.Title = strings.TrimSuffix(base, path.Ext(base))
			}
			e.rec.IncImageLookup(true)
		} else {
			e.rec.IncImageLookup(false)
			e.markDead(m)
			m.Resolver = ResolverNotFound
		}
		// Images never fall through to the note lookup.
		return e.finish(m), nil
	}

	// Note lookup. Links already claimed by a custom resolver are not
	// subjected to the dead-link fallback.
	if match := e.index.FindByLink(m); match.Found {
		e.applyMatch(m, match)
	} else if m.Resolver == ResolverDefault || m.Resolver == ResolverDefaultEmbed {
		e.markDead(m)
		if m.IsEmbed {
			m.Resolver = ResolverNotFound
		}
	}
	return e.finish(m), nil
}

// applyMatch populates a record from a note index match. A match found by
// alias always displays the alias text itself, overriding an explicit |title;
// a match by primary identity fills the title from the note only when the
// author gave none.
func (e *Engine) applyMatch(m *Meta, match Match) {
	m.Note = match.Note
	m.Exists = true
	m.Href = match.Note.URL()
	m.Path = match.Note.InputPath()
	if match.FoundByAlias {
		m.Title = m.Name
	} else if m.Title == "" {
		m.Title = match.Note.Title()
	}
}

// markDead records the token as unresolved and points it at the stub URL.
func (e *Engine) markDead(m *Meta) {
	e.dead.Add(m.Link)
	e.rec.IncDeadLink()
	m.Href = e.stubURL
}

// finish writes the completed record to the shared cache. Add keeps the first
// stored record when two interpretations race, so the returned instance is the
// canonical one for this token.
func (e *Engine) finish(m *Meta) *Meta {
	stored := e.cache.Add(m.Link, m)
	e.rec.IncResolved(stored.Resolver)
	return stored
}

// stripMarkdownExt removes a trailing .md/.markdown extension, case-insensitively.
func stripMarkdownExt(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".md"):
		return name[:len(name)-len(".md")]
	case strings.HasSuffix(lower, ".markdown"):
		return name[:len(name)-len(".markdown")]
	}
	return name
}

// resolveRelative rewrites a ./ or ../ reference as an absolute-from-root
// identity: one path segment of the referencing note's location is removed per
// leading ../ plus one for the note's own filename, then the remaining
// non-dot segments of the reference are appended.
func resolveRelative(name, referencingPath string) string {
	segments := strings.Split(name, "/")
	steps := 0
	for _, seg := range segments {
		if seg == ".." {
			steps++
		}
	}

	dir := strings.Split(strings.Trim(referencingPath, "/"), "/")
	drop := steps + 1
	if drop > len(dir) {
		drop = len(dir)
	}
	dir = dir[:len(dir)-drop]

	for _, seg := range segments {
		if seg == "." || seg == ".." || seg == "" {
			continue
		}
		dir = append(dir, seg)
	}
	return "/" + strings.Join(dir, "/")
}
