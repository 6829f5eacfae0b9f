// Package wikilink interprets compact wikilink syntax ([[name]], [[name|title]],
// ![[name]]) embedded in note bodies and resolves each occurrence into a
// normalized metadata record describing what it points to and how it should be
// rendered downstream.
package wikilink

// Resolver strategy names understood by the render registry. Unresolved embeds
// of every kind, documents and images alike, share the single ResolverNotFound
// strategy; there is no separate not-found-image variant.
const (
	ResolverDefault      = "default"
	ResolverDefaultEmbed = "default-embed"
	ResolverImageEmbed   = "image-embed"
	ResolverNotFound     = "404-embed"
)

// DefaultStubURL is the href given to unresolved links when the engine is not
// configured with one.
const DefaultStubURL = "/stubs/"

// Note is the read-only view of a resolved document owned by the note index.
// The engine never mutates notes it receives.
type Note interface {
	Title() string
	URL() string
	InputPath() string
}

// Match is the note index answer for one interpreted link.
type Match struct {
	Note         Note
	Found        bool
	FoundByAlias bool
}

// Index answers "does a note matching this interpreted link exist" queries.
type Index interface {
	FindByLink(meta *Meta) Match
}

// Meta is the interpreted record for one raw wikilink token. Once a record has
// been written to the shared cache it is never mutated or recomputed for the
// lifetime of that cache.
type Meta struct {
	// Link is the original raw token, kept as a back-reference for cache
	// keying and error messages.
	Link string

	// Name is the dereferenced identifier after interpretation: markdown
	// extensions stripped, anchor/resolver prefixes and escape sequences
	// consumed.
	Name string

	// Title is the display text. Empty means "unset"; lookup fills it from
	// the resolved note's own title, or from the base filename for images.
	Title string

	// Anchor is the in-document fragment identifier, if any.
	Anchor string

	// Resolver names the render strategy to apply downstream. Always set by
	// the time a record is returned.
	Resolver string

	// Href and Path are populated on successful resolution: target URL and
	// absolute source path. For unresolved links Href is the stub URL.
	Href string
	Path string

	// Note is the resolved document back-reference, nil for images and
	// unresolved links.
	Note Note

	IsEmbed bool
	IsPath  bool
	IsImage bool
	Exists  bool
}
