// Package scope provides a minimal render-pass context tree for component
// hosts. Scopes are pushed and popped around component invocations with
// call-stack discipline, so at any moment the tree knows the stack of
// components currently rendering and can resolve context bindings by walking
// toward the root. Nothing is retained between passes.
package scope

import (
	"errors"
	"fmt"
	"strings"
)

// Tree is one render context. It is single threaded, contexts reads bubble up
// from the current scope toward the root, and the nearest binding wins.
type Tree struct {
	current *node
}

type node struct {
	parent *node
	name   string
	values map[int64]any
}

func NewTree() *Tree {
	// The root scope has no name, it only exists so bindings can be made
	// outside any component.
	return &Tree{current: &node{}}
}

// In pushes a scope named after the component, runs fn, and pops the scope
// again. The previous scope is restored even if fn panics, so a recover
// further up never observes a stale stack.
func (t *Tree) In(name string, fn func()) {
	prev := t.current
	t.current = &node{parent: prev, name: name}
	defer func() { t.current = prev }()

	fn()
}

// Run is the error-aware variant of In for component functions. A failure is
// wrapped once in a SiteError recording where in the tree it happened. If the
// error already carries a site, the innermost one is kept.
func Run[V any](t *Tree, name string, fn func() (V, error)) (V, error) {
	var (
		v   V
		err error
	)
	t.In(name, func() {
		v, err = fn()
		if err != nil {
			var site *SiteError
			if !errors.As(err, &site) {
				err = &SiteError{Component: name, Stack: t.Stack(), Err: err}
			}
		}
	})
	return v, err
}

// Stack returns the names of the scopes currently entered, outermost first.
func (t *Tree) Stack() []string {
	depth := 0
	for n := t.current; n != nil; n = n.parent {
		if n.name != "" {
			depth++
		}
	}
	stack := make([]string, depth)
	for n := t.current; n != nil; n = n.parent {
		if n.name != "" {
			depth--
			stack[depth] = n.name
		}
	}
	return stack
}

// SiteError records the component that failed and the stack of components
// enclosing it at the moment of failure.
type SiteError struct {
	Component string
	Stack     []string
	Err       error
}

func (e *SiteError) Error() string {
	if len(e.Stack) > 1 {
		return fmt.Sprintf("component %s (%s): %v", e.Component, strings.Join(e.Stack, " > "), e.Err)
	}
	return fmt.Sprintf("component %s: %v", e.Component, e.Err)
}

func (e *SiteError) Unwrap() error { return e.Err }
