package noteindex

// Note is one indexed document. It satisfies the wikilink.Note view; the
// linking engine reads it but never mutates it.
type Note struct {
	title     string
	url       string
	inputPath string
	identity  string
	aliases   []string
}

// NewNote constructs a note for hosts that build indexes without scanning a
// content tree. identity is the slash path identity (e.g. /blog/a-blog-post),
// inputPath the absolute source file path.
func NewNote(title, url, inputPath, identity string, aliases ...string) *Note {
	return &Note{
		title:     title,
		url:       url,
		inputPath: inputPath,
		identity:  identity,
		aliases:   aliases,
	}
}

// Title returns the note's display title.
func (n *Note) Title() string { return n.title }

// URL returns the note's published URL.
func (n *Note) URL() string { return n.url }

// InputPath returns the absolute path of the note's source file.
func (n *Note) InputPath() string { return n.inputPath }

// Identity returns the slash path identity relative to the content root,
// without extension (e.g. /blog/a-blog-post).
func (n *Note) Identity() string { return n.identity }

// Aliases returns a copy of the note's alias names.
func (n *Note) Aliases() []string { return append([]string(nil), n.aliases...) }
