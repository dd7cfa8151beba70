// Package boundary contains failures inside trees of rendering components.
//
// A Boundary wraps a subtree. While the boundary is clear the subtree renders
// normally. When rendering the subtree fails, either by returning an error or
// by panicking, the boundary absorbs the failure, records it, and produces a
// configured fallback output instead of letting the failure unwind the whole
// tree. A later reset, explicit or triggered by a change of caller declared
// reset keys, clears the capture so the original subtree renders again.
//
// Errors travel as values. A render function returns (V, error), a failing
// subtree hands its error to the nearest enclosing boundary through the
// ordinary return path, and panics are bridged onto that path by a recover
// guard at the boundary edge. Host lifecycle hooks are plain methods, the
// host calls Update after each configuration pass and Render whenever it
// needs output.
package boundary

import (
	"fmt"
	"log/slog"

	"github.com/delaneyj/bulwark/scope"
)

// RenderFunc produces one subtree output.
type RenderFunc[V any] func() (V, error)

// Component is a renderable unit, props in, view out.
type Component[P, V any] func(props P) (V, error)

// Phase is the containment state of a boundary. The armed state is split in
// two so the pass that first shows the fallback is distinguishable from every
// later pass. Reset keys are only compared from PhaseArmedSettled.
type Phase int

const (
	PhaseClear Phase = iota
	PhaseArmedFirstPass
	PhaseArmedSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseClear:
		return "clear"
	case PhaseArmedFirstPass:
		return "armed-first-pass"
	case PhaseArmedSettled:
		return "armed-settled"
	default:
		return "unknown"
	}
}

// Options configures a boundary. The struct is read once by New and never
// again, later mutations of it have no effect on the boundary.
//
// At most one fallback variant is used. When several are set the precedence
// is Fallback, then FallbackRender, then FallbackComponent.
type Options[V any] struct {
	// Name identifies the boundary in logs, observers and component stacks.
	Name string

	// Fallback is a static alternate output used as is while armed.
	Fallback *V

	// FallbackRender computes the alternate output from the captured error.
	FallbackRender func(FallbackProps[V]) V

	// FallbackComponent is a component rendered in place of the children
	// while armed. Its own failures escape upward, they are never captured
	// by the boundary whose fallback it is.
	FallbackComponent Component[FallbackProps[V], V]

	// OnError is invoked exactly once per capture, before the fallback for
	// that pass is computed.
	OnError func(err error, ctx Context)

	// OnReset is invoked on explicit reset, before the capture is cleared,
	// with the arguments given to Reset.
	OnReset func(args ...any)

	// OnResetKeysChange is invoked when a reset key comparison fires, before
	// the capture is cleared.
	OnResetKeysChange func(prev, next []any)

	// ResetKeys seeds the previous key sequence compared against the first
	// Update call.
	ResetKeys []any

	// OnCallbackPanic overrides the default policy for panics escaping the
	// callbacks above. The default logs a warning and continues.
	OnCallbackPanic func(callback string, recovered any)

	Logger   *slog.Logger
	Observer Observer

	// Tree, when set, makes Render run the children inside a named scope and
	// bind the boundary's Handle there for Nearest lookups.
	Tree *scope.Tree
}

// Boundary is one containment point. All methods except those documented
// otherwise must be called from the host's single update thread, the machine
// itself takes no locks.
type Boundary[V any] struct {
	name     string
	phase    Phase
	err      error
	ctx      Context
	prevKeys []any

	fallback          fallbackSpec[V]
	onError           func(error, Context)
	onReset           func(args ...any)
	onResetKeysChange func(prev, next []any)
	onCallbackPanic   func(string, any)

	logger   *slog.Logger
	observer Observer
	tree     *scope.Tree
}

func New[V any](opts Options[V]) *Boundary[V] {
	b := &Boundary[V]{
		name:              opts.Name,
		phase:             PhaseClear,
		prevKeys:          append([]any(nil), opts.ResetKeys...),
		fallback:          resolveFallback(opts),
		onError:           opts.OnError,
		onReset:           opts.OnReset,
		onResetKeysChange: opts.OnResetKeysChange,
		onCallbackPanic:   opts.OnCallbackPanic,
		logger:            opts.Logger,
		observer:          opts.Observer,
		tree:              opts.Tree,
	}
	if b.name == "" {
		b.name = "boundary"
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.observer == nil {
		b.observer = NoopObserver{}
	}
	return b
}

// CaptureError records err as the active capture. A boundary that was clear
// arms, the next Update pass is then the settling pass and skips key
// comparison. A boundary that was already armed keeps its phase and only
// replaces the recorded error. OnError fires exactly once per call, after the
// state is recorded.
func (b *Boundary[V]) CaptureError(err error, ctx Context) {
	if err == nil {
		return
	}
	b.err = err
	b.ctx = ctx
	if b.phase == PhaseClear {
		b.phase = PhaseArmedFirstPass
	}
	b.logger.Debug("captured error",
		"boundary", b.name,
		"err", err,
		"component", ctx.Component,
		"digest", ctx.Digest())

	if b.onError != nil {
		b.safeCallback("OnError", func() { b.onError(err, ctx) })
	}
	b.safeCallback("Observer.OnCapture", func() { b.observer.OnCapture(b.name, err, ctx) })
}

// Update is one configuration pass. The given keys become the stored previous
// sequence on every pass, including the settling pass right after a capture
// where no comparison happens. From the second armed pass on, a key sequence
// that fails same value identity against the previous one triggers an
// automatic reset: OnResetKeysChange fires first, while the capture is still
// observable, then the boundary clears. Reports whether an automatic reset
// fired.
func (b *Boundary[V]) Update(keys ...any) bool {
	prev := b.prevKeys
	b.prevKeys = append([]any(nil), keys...)

	switch b.phase {
	case PhaseClear:
		return false
	case PhaseArmedFirstPass:
		b.phase = PhaseArmedSettled
		b.logger.Debug("settled after capture", "boundary", b.name)
		return false
	}

	if !keysChanged(prev, keys) {
		return false
	}
	if b.onResetKeysChange != nil {
		b.safeCallback("OnResetKeysChange", func() { b.onResetKeysChange(prev, keys) })
	}
	b.clear(ResetKeysChanged)
	return true
}

// Reset clears the capture explicitly. OnReset receives args verbatim and
// runs before the capture is cleared, so it still observes the armed
// boundary. Resetting a clear boundary is a no-op and fires nothing.
// Reports whether a capture was cleared.
func (b *Boundary[V]) Reset(args ...any) bool {
	if b.phase == PhaseClear {
		return false
	}
	if b.onReset != nil {
		b.safeCallback("OnReset", func() { b.onReset(args...) })
	}
	b.clear(ResetExplicit)
	return true
}

func (b *Boundary[V]) clear(trigger ResetTrigger) {
	b.err = nil
	b.ctx = Context{}
	b.phase = PhaseClear
	b.logger.Debug("reset", "boundary", b.name, "trigger", trigger)
	b.safeCallback("Observer.OnReset", func() { b.observer.OnReset(b.name, trigger) })
}

// Phase returns the current containment phase.
func (b *Boundary[V]) Phase() Phase { return b.phase }

// Err returns the captured error, nil while clear.
func (b *Boundary[V]) Err() error { return b.err }

// CapturedContext returns the context recorded with the capture.
func (b *Boundary[V]) CapturedContext() Context { return b.ctx }

func (b *Boundary[V]) Name() string { return b.name }

func (b *Boundary[V]) armed() bool { return b.phase != PhaseClear }

// safeCallback keeps user code from unwinding into the machine.
func (b *Boundary[V]) safeCallback(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.onCallbackPanic != nil {
				b.onCallbackPanic(name, r)
				return
			}
			b.logger.Warn("callback panicked",
				"boundary", b.name,
				"callback", name,
				"recovered", fmt.Sprintf("%v", r))
		}
	}()
	fn()
}
