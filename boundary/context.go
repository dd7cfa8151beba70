package boundary

import (
	"errors"

	"github.com/cespare/xxhash/v2"

	"github.com/delaneyj/bulwark/scope"
)

// Context describes where a captured error came from.
type Context struct {
	// Component is the name of the failing component, when known.
	Component string

	// Stack holds the names of the components enclosing the failure at the
	// moment it happened, outermost first.
	Stack []string
}

// Digest folds the context into a stable identifier. Captures from the same
// site digest to the same value, which is what registries key their dedupe
// windows on.
func (c Context) Digest() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(c.Component)
	for _, name := range c.Stack {
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(name)
	}
	return d.Sum64()
}

// contextFromError recovers site information from errors that carry it.
func contextFromError(err error) Context {
	var site *scope.SiteError
	if errors.As(err, &site) {
		return Context{Component: site.Component, Stack: site.Stack}
	}
	return Context{}
}
