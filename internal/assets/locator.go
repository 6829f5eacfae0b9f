// Package assets locates image files referenced by wikilinks in a content
// tree, using absolute, relative, and bare-name search rules.
package assets

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Location describes a resolved image asset: Href is the site-relative URL
// (slash-normalized, leading /), FullPath the absolute filesystem path.
type Location struct {
	Href     string
	FullPath string
}

// Locator searches one content root for image assets.
type Locator struct {
	root string
}

// NewLocator creates a locator over the given content root directory.
func NewLocator(root string) *Locator {
	return &Locator{root: root}
}

// Locate finds imageName in the content tree. referencingPath is the slash
// path identity of the referencing note relative to the content root (empty
// when unknown); it is required for ./ and ../ forms.
//
// Bare filenames are searched in order: the referencing note's own directory,
// the content root, then a breadth-first descent of the root's subdirectories.
// The first match wins; unreadable directories are skipped, never an error.
func (l *Locator) Locate(imageName, referencingPath string) (Location, bool) {
	switch {
	case strings.HasPrefix(imageName, "/"):
		full := filepath.Join(l.root, filepath.FromSlash(imageName))
		if fileExists(full) {
			return Location{Href: imageName, FullPath: full}, true
		}
		return Location{}, false

	case strings.HasPrefix(imageName, "./"), strings.HasPrefix(imageName, "../"):
		if referencingPath == "" {
			return Location{}, false
		}
		joined := path.Join(path.Dir("/"+strings.TrimPrefix(referencingPath, "/")), imageName)
		full := filepath.Join(l.root, filepath.FromSlash(joined))
		if fileExists(full) {
			return Location{Href: joined, FullPath: full}, true
		}
		return Location{}, false

	default:
		return l.searchByName(imageName, referencingPath)
	}
}

// searchByName implements the bare-filename search order.
func (l *Locator) searchByName(imageName, referencingPath string) (Location, bool) {
	if referencingPath != "" {
		ownDir := path.Dir("/" + strings.TrimPrefix(referencingPath, "/"))
		if loc, ok := l.checkDir(filepath.Join(l.root, filepath.FromSlash(ownDir)), imageName); ok {
			return loc, true
		}
	}

	if loc, ok := l.checkDir(l.root, imageName); ok {
		return loc, true
	}

	// Breadth-first queue walk of the subtree; directory read failures fold
	// into "no match here". Returns on the first filename match rather than
	// continuing exhaustively.
	queue := l.subdirs(l.root)
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				queue = append(queue, filepath.Join(dir, entry.Name()))
				continue
			}
			if entry.Name() == imageName {
				return l.location(filepath.Join(dir, entry.Name())), true
			}
		}
	}
	return Location{}, false
}

// checkDir looks for imageName directly inside dir.
func (l *Locator) checkDir(dir, imageName string) (Location, bool) {
	full := filepath.Join(dir, filepath.FromSlash(imageName))
	if fileExists(full) {
		return l.location(full), true
	}
	return Location{}, false
}

// subdirs lists the immediate subdirectories of dir, tolerating read errors.
func (l *Locator) subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out
}

// location builds a Location from an absolute path inside the root.
func (l *Locator) location(full string) Location {
	rel, err := filepath.Rel(l.root, full)
	if err != nil {
		return Location{Href: "/" + filepath.ToSlash(filepath.Base(full)), FullPath: full}
	}
	return Location{Href: "/" + filepath.ToSlash(rel), FullPath: full}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
