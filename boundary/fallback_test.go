package boundary_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/bulwark/boundary"
)

// should prefer the static fallback, then the render function, then the component
func TestFallbackPrecedence(t *testing.T) {
	renderFn := func(boundary.FallbackProps[string]) string { return "render" }
	componentFn := func(boundary.FallbackProps[string]) (string, error) { return "component", nil }

	all := boundary.New(boundary.Options[string]{
		Fallback:          boundary.Static("static"),
		FallbackRender:    renderFn,
		FallbackComponent: componentFn,
	})
	all.CaptureError(errBoom, boundary.Context{})
	v, err := all.Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, "static", v)

	noStatic := boundary.New(boundary.Options[string]{
		FallbackRender:    renderFn,
		FallbackComponent: componentFn,
	})
	noStatic.CaptureError(errBoom, boundary.Context{})
	v, err = noStatic.Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, "render", v)

	componentOnly := boundary.New(boundary.Options[string]{
		FallbackComponent: componentFn,
	})
	componentOnly.CaptureError(errBoom, boundary.Context{})
	v, err = componentOnly.Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, "component", v)
}

// should fail loudly when armed with no fallback configured
func TestArmedWithoutFallbackFailsLoudly(t *testing.T) {
	b := boundary.New(boundary.Options[string]{Name: "bare"})

	b.CaptureError(errBoom, boundary.Context{})
	v, err := b.Render(func() (string, error) { return "children", nil })

	assert.ErrorIs(t, err, boundary.ErrNoFallback)
	assert.Empty(t, v)

	// the defect escapes, the boundary stays armed on its original capture
	assert.Equal(t, boundary.PhaseArmedFirstPass, b.Phase())
	assert.Equal(t, errBoom, b.Err())
}

// should let an enclosing boundary absorb an inner boundary's defect
func TestOuterBoundaryAbsorbsInnerDefect(t *testing.T) {
	inner := boundary.New(boundary.Options[string]{Name: "inner"})
	outer := boundary.New(boundary.Options[string]{
		Name:           "outer",
		FallbackRender: func(p boundary.FallbackProps[string]) string { return "outer saw: " + p.Err.Error() },
	})

	v, err := outer.Render(func() (string, error) {
		return inner.Render(func() (string, error) { return "", errBoom })
	})
	require.NoError(t, err)

	assert.Contains(t, v, "no fallback configured")
	assert.ErrorIs(t, outer.Err(), boundary.ErrNoFallback)
	assert.Equal(t, errBoom, inner.Err())
}

// should propagate a failing component fallback upward without self capture
func TestComponentFallbackFailureEscapes(t *testing.T) {
	errFallback := errors.New("fallback broke too")
	b := boundary.New(boundary.Options[string]{
		FallbackComponent: func(boundary.FallbackProps[string]) (string, error) {
			return "", errFallback
		},
	})

	b.CaptureError(errBoom, boundary.Context{})
	_, err := b.Render(nil)

	assert.ErrorIs(t, err, errFallback)
	assert.Equal(t, errBoom, b.Err())
}

// should hand fallbacks a pre-bound reset that forwards to OnReset
func TestFallbackPropsReset(t *testing.T) {
	var gotArgs []any
	var reset func(args ...any) bool
	b := boundary.New(boundary.Options[string]{
		OnReset: func(args ...any) { gotArgs = args },
		FallbackRender: func(p boundary.FallbackProps[string]) string {
			reset = p.Reset
			return "fallback"
		},
	})

	b.CaptureError(errBoom, boundary.Context{})
	_, err := b.Render(nil)
	require.NoError(t, err)
	require.NotNil(t, reset)

	assert.True(t, reset("from-fallback"))
	assert.Equal(t, []any{"from-fallback"}, gotArgs)
	assert.Equal(t, boundary.PhaseClear, b.Phase())

	v, err := b.Render(func() (string, error) { return "children again", nil })
	assert.NoError(t, err)
	assert.Equal(t, "children again", v)
}

// should pass the captured error to render and component fallbacks
func TestFallbackPropsCarryError(t *testing.T) {
	var renderSaw, componentSaw error

	r := boundary.New(boundary.Options[string]{
		FallbackRender: func(p boundary.FallbackProps[string]) string {
			renderSaw = p.Err
			return ""
		},
	})
	r.CaptureError(errBoom, boundary.Context{})
	r.Render(nil)

	c := boundary.New(boundary.Options[string]{
		FallbackComponent: func(p boundary.FallbackProps[string]) (string, error) {
			componentSaw = p.Err
			return "", nil
		},
	})
	c.CaptureError(errBoom, boundary.Context{})
	c.Render(nil)

	assert.Equal(t, errBoom, renderSaw)
	assert.Equal(t, errBoom, componentSaw)
}
