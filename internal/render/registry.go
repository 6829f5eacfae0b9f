// Package render maps resolver strategy names to the HTML fragments emitted
// for interpreted wikilinks. The engine only checks name membership during
// dispatch; invocation happens here, at render time.
package render

import (
	"sort"

	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/notebuilder/internal/wikilink"
)

// Func renders one interpreted wikilink into an HTML fragment.
type Func func(meta *wikilink.Meta) (string, error)

// Registry holds the configured render strategies.
type Registry struct {
	fns map[string]Func
}

// NewRegistry creates a registry pre-populated with the built-in strategies:
// default, default-embed, image-embed, and 404-embed.
func NewRegistry() *Registry {
	r := &Registry{fns: make(map[string]Func)}
	r.fns[wikilink.ResolverDefault] = DefaultLink
	r.fns[wikilink.ResolverDefaultEmbed] = DefaultEmbed
	r.fns[wikilink.ResolverImageEmbed] = ImageEmbed
	r.fns[wikilink.ResolverNotFound] = NotFoundEmbed
	return r
}

// Register adds a custom strategy. Names are validated at configuration time;
// registering over an existing name is an error.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return errors.ValidationError("resolver name must not be empty").Build()
	}
	if fn == nil {
		return errors.ValidationError("resolver function must not be nil").WithContext("name", name).Build()
	}
	if _, exists := r.fns[name]; exists {
		return errors.ValidationError("resolver already registered").WithContext("name", name).Build()
	}
	r.fns[name] = fn
	return nil
}

// Has reports whether a strategy name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.fns[name]
	return ok
}

// Names returns every registered strategy name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.fns))
	for name := range r.fns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Render invokes the strategy named by the record. A missing strategy is an
// internal error: configuration validation guarantees every interpreted
// record carries a registered name.
func (r *Registry) Render(meta *wikilink.Meta) (string, error) {
	fn, ok := r.fns[meta.Resolver]
	if !ok {
		return "", errors.InternalError("no render strategy for resolver").
			WithContext("resolver", meta.Resolver).
			WithContext("token", meta.Link).
			Build()
	}
	return fn(meta)
}
