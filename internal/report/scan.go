package report

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
)

// CountStubLinks parses rendered HTML and counts anchors whose href points at
// the configured stub URL, i.e. links that were published as dead.
func CountStubLinks(r io.Reader, stubURL string) (int, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" && isStubHref(href, stubURL) {
				count++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return count, nil
}

// ScanRenderedSite walks a rendered output directory and totals stub links
// across every HTML file.
func ScanRenderedSite(dir, stubURL string) (int, error) {
	total := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		if ext := strings.ToLower(filepath.Ext(p)); ext != ".html" && ext != ".htm" {
			return nil
		}

		file, err := os.Open(filepath.Clean(p))
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to open rendered page").
				WithContext("path", p).
				Build()
		}
		n, err := CountStubLinks(file, stubURL)
		_ = file.Close() // Ignore close errors on read-only operation
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func isStubHref(href, stubURL string) bool {
	if stubURL == "" {
		return false
	}
	if href == stubURL {
		return true
	}
	// Stub hrefs may carry an anchor fragment.
	return strings.HasPrefix(href, stubURL+"#") || strings.HasPrefix(href, strings.TrimSuffix(stubURL, "/")+"#")
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
