package redscreen_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/bulwark/boundary"
	"github.com/delaneyj/bulwark/redscreen"
	"github.com/delaneyj/bulwark/scope"
)

// should show the title and the error message
func TestViewContents(t *testing.T) {
	v := redscreen.View(errors.New("database unreachable"))

	assert.Contains(t, v, "Something went wrong")
	assert.Contains(t, v, "database unreachable")
	assert.Contains(t, v, "reset the boundary to try again")
}

// should include the component stack when the error carries its site
func TestViewShowsSite(t *testing.T) {
	tree := scope.NewTree()
	_, err := scope.Run(tree, "app", func() (string, error) {
		return scope.Run(tree, "feed", func() (string, error) {
			return "", errors.New("render blew up")
		})
	})
	require.Error(t, err)

	v := redscreen.View(err)
	assert.Contains(t, v, "in app > feed")
}

// should show the stack held by an explicitly attached capture context
func TestViewCtxShowsAttachedStack(t *testing.T) {
	b := boundary.New(boundary.Options[string]{
		Name:     "page",
		Fallback: boundary.Static("fallback"),
	})
	b.CaptureError(errors.New("cart exploded"), boundary.Context{
		Component: "cart",
		Stack:     []string{"app", "page", "cart"},
	})

	v := redscreen.ViewCtx(b.Err(), b.CapturedContext())
	assert.Contains(t, v, "cart exploded")
	assert.Contains(t, v, "in app > page > cart")
}

// should prefer the context stack over one carried by the error
func TestViewCtxStackPrecedence(t *testing.T) {
	tree := scope.NewTree()
	_, err := scope.Run(tree, "feed", func() (string, error) {
		return "", errors.New("render blew up")
	})
	require.Error(t, err)

	v := redscreen.ViewCtx(err, boundary.Context{
		Component: "cart",
		Stack:     []string{"app", "cart"},
	})
	assert.Contains(t, v, "in app > cart")
	assert.NotContains(t, v, "in feed")

	// a zero context falls back to the site the error carries
	v = redscreen.ViewCtx(err, boundary.Context{})
	assert.Contains(t, v, "in feed")
}

// should survive a nil error
func TestViewNilError(t *testing.T) {
	assert.Contains(t, redscreen.View(nil), "unknown error")
}

// should plug into a boundary as its fallback
func TestFallbackWithBoundary(t *testing.T) {
	b := boundary.New(boundary.Options[string]{
		Name:           "app",
		FallbackRender: redscreen.Fallback(),
	})

	v, err := b.Render(func() (string, error) { return "", errors.New("kaput") })
	require.NoError(t, err)

	assert.Contains(t, v, "Something went wrong")
	assert.Contains(t, v, "kaput")
}
