package boundary

import (
	"fmt"
	"runtime/debug"

	"github.com/delaneyj/bulwark/scope"
)

// Render produces the boundary's output for one pass. While clear the
// children run behind a recover guard, a returned error or a panic becomes a
// capture and the fallback for that same pass is returned, with OnError
// having fired in between. While armed the children are not invoked at all.
//
// The returned error is non nil only when the boundary itself cannot produce
// output: no fallback variant is configured (ErrNoFallback) or the component
// fallback failed. Such errors escape upward so an enclosing boundary can
// absorb them, this boundary stays armed on its original capture.
func (b *Boundary[V]) Render(children RenderFunc[V]) (V, error) {
	if b.phase == PhaseClear {
		v, err := b.renderChildren(children)
		if err == nil {
			return v, nil
		}
		b.CaptureError(err, contextFromError(err))
	}
	return b.renderFallback()
}

func (b *Boundary[V]) renderChildren(children RenderFunc[V]) (V, error) {
	if b.tree == nil {
		return guard(children)
	}
	var (
		v   V
		err error
	)
	b.tree.In(b.name, func() {
		scope.Set(b.tree, handleKey, b.Handle())
		v, err = guard(children)
	})
	return v, err
}

func (b *Boundary[V]) renderFallback() (V, error) {
	if b.fallback == nil {
		var zero V
		return zero, fmt.Errorf("boundary %s: %w", b.name, ErrNoFallback)
	}
	return b.fallback.render(FallbackProps[V]{Err: b.err, Reset: b.Reset})
}

// guard runs fn and converts a panic into an error so both failure shapes
// travel the same return path.
func guard[V any](fn RenderFunc[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return fn()
}

// PanicError is a recovered render panic carried as an error. When the panic
// value was itself an error, Unwrap exposes it to errors.Is and errors.As.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("render panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
