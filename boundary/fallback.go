package boundary

import "errors"

// ErrNoFallback is returned by Render when a boundary is armed but no
// fallback variant was configured. It escapes the boundary instead of being
// captured by it. An enclosing boundary may absorb it like any other child
// error.
var ErrNoFallback = errors.New("armed boundary has no fallback configured")

// FallbackProps is the input to the render and component fallback variants.
type FallbackProps[V any] struct {
	// Err is the captured error being displayed.
	Err error

	// Reset clears the owning boundary, forwarding its arguments to the
	// boundary's OnReset callback.
	Reset func(args ...any) bool
}

// Static is a convenience for Options.Fallback.
func Static[V any](v V) *V { return &v }

// fallbackSpec is the variant chosen at New. Exactly one per boundary, no
// probing at render time.
type fallbackSpec[V any] interface {
	render(props FallbackProps[V]) (V, error)
}

type staticFallback[V any] struct{ value V }

func (f staticFallback[V]) render(FallbackProps[V]) (V, error) { return f.value, nil }

type renderFallback[V any] struct{ fn func(FallbackProps[V]) V }

func (f renderFallback[V]) render(p FallbackProps[V]) (V, error) { return f.fn(p), nil }

type componentFallback[V any] struct{ c Component[FallbackProps[V], V] }

func (f componentFallback[V]) render(p FallbackProps[V]) (V, error) { return f.c(p) }

func resolveFallback[V any](opts Options[V]) fallbackSpec[V] {
	switch {
	case opts.Fallback != nil:
		return staticFallback[V]{value: *opts.Fallback}
	case opts.FallbackRender != nil:
		return renderFallback[V]{fn: opts.FallbackRender}
	case opts.FallbackComponent != nil:
		return componentFallback[V]{c: opts.FallbackComponent}
	}
	return nil
}
