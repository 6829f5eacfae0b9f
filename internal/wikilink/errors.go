package wikilink

import "fmt"

// MissingContextError reports a relative-path token interpreted without a
// referencing path. Fatal to the calling interpretation, not to the process.
type MissingContextError struct {
	Token string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("relative wikilink %s cannot be resolved without a referencing path", e.Token)
}

// UnresolvedResolverError reports a custom resolver prefix that is not
// registered, where no note matched the raw name as a fallback either.
type UnresolvedResolverError struct {
	Prefix          string
	Token           string
	ReferencingPath string
}

func (e *UnresolvedResolverError) Error() string {
	return fmt.Sprintf("no resolver registered for %q in %s (referenced from %s)", e.Prefix, e.Token, e.ReferencingPath)
}
