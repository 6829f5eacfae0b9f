// Package noteindex builds the known-note lookup table the wikilink engine
// consults: a scan of a Markdown content tree keyed by path identity, file
// name, title, and frontmatter aliases.
package noteindex

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/notebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/notebuilder/internal/logfields"
	"git.home.luguber.info/inful/notebuilder/internal/wikilink"
)

// Index is an in-memory note lookup. Lookup keys are NFC-normalized so
// non-ASCII names match regardless of source encoding.
type Index struct {
	notes      []*Note
	byIdentity map[string]*Note
	byName     map[string]*Note
	byTitle    map[string]*Note
	byAlias    map[string]*Note
}

// New creates an empty index.
func New() *Index {
	return &Index{
		byIdentity: make(map[string]*Note),
		byName:     make(map[string]*Note),
		byTitle:    make(map[string]*Note),
		byAlias:    make(map[string]*Note),
	}
}

// Scan walks a content root and indexes every Markdown note found. Files it
// cannot read are skipped with a warning rather than failing the scan.
func Scan(root string) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	idx := New()
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Warn("Skipping unreadable path during note scan", logfields.Path(p), logfields.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}

		note, err := loadNote(abs, p)
		if err != nil {
			slog.Warn("Skipping unreadable note", logfields.Path(p), logfields.Error(err))
			return nil
		}
		idx.Add(note)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Note index built", logfields.Path(abs), logfields.Count(len(idx.notes)))
	return idx, nil
}

// Add registers a note. The first note claiming a key wins; later claims are
// logged and ignored so scan order stays deterministic.
func (x *Index) Add(n *Note) {
	x.notes = append(x.notes, n)

	x.claim(x.byIdentity, n.identity, n, "identity")
	x.claim(x.byName, path.Base(n.identity), n, "name")
	if n.title != "" {
		x.claim(x.byTitle, n.title, n, "title")
	}
	for _, alias := range n.aliases {
		x.claim(x.byAlias, alias, n, "alias")
	}
}

func (x *Index) claim(m map[string]*Note, rawKey string, n *Note, kind string) {
	k := key(rawKey)
	if k == "" {
		return
	}
	if prev, ok := m[k]; ok {
		if prev != n {
			slog.Warn("Duplicate note key ignored", logfields.Name(rawKey), slog.String("kind", kind), logfields.Path(n.inputPath))
		}
		return
	}
	m[k] = n
}

// Notes returns the indexed notes in scan order.
func (x *Index) Notes() []*Note {
	return append([]*Note(nil), x.notes...)
}

// Len returns the number of indexed notes.
func (x *Index) Len() int { return len(x.notes) }

// FindByLink implements wikilink.Index. Path-style names match only by
// identity; bare names fall through file name, then title, then aliases.
func (x *Index) FindByLink(meta *wikilink.Meta) wikilink.Match {
	k := key(meta.Name)
	if k == "" {
		return wikilink.Match{}
	}

	if meta.IsPath {
		if n, ok := x.byIdentity[k]; ok {
			return wikilink.Match{Note: n, Found: true}
		}
		return wikilink.Match{}
	}

	if n, ok := x.byName[k]; ok {
		return wikilink.Match{Note: n, Found: true}
	}
	if n, ok := x.byTitle[k]; ok {
		return wikilink.Match{Note: n, Found: true}
	}
	if n, ok := x.byAlias[k]; ok {
		return wikilink.Match{Note: n, Found: true, FoundByAlias: true}
	}
	return wikilink.Match{}
}

// loadNote reads one Markdown file and derives its index entry.
func loadNote(root, p string) (*Note, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(root, p)
	if err != nil {
		return nil, err
	}
	identity := "/" + strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))

	title := path.Base(identity)
	url := identity + "/"
	var aliases []string

	fm, _, had, err := frontmatter.Split(raw)
	if err == nil && had {
		fields, err := frontmatter.ParseYAML(fm)
		if err != nil {
			return nil, err
		}
		if t, ok := fields["title"].(string); ok && strings.TrimSpace(t) != "" {
			title = strings.TrimSpace(t)
		}
		if pl, ok := fields["permalink"].(string); ok && strings.TrimSpace(pl) != "" {
			url = strings.TrimSpace(pl)
		}
		aliases = stringList(fields["aliases"])
	}

	return &Note{
		title:     title,
		url:       url,
		inputPath: p,
		identity:  identity,
		aliases:   aliases,
	}, nil
}

func stringList(v any) []string {
	switch vv := v.(type) {
	case string:
		if s := strings.TrimSpace(vv); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range vv {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func key(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
