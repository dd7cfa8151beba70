package boundary

import "github.com/delaneyj/bulwark/scope"

// handleKey is the reserved scope key a rendering boundary binds its Handle
// under. Nearest resolves through scope bubbling, so with nested boundaries
// the innermost enclosing one wins.
var handleKey = scope.NewKey[Handle]("bulwark.boundary.handle")

// Handle is an erased reference to a boundary. Components grab the nearest
// handle while they render and may use it afterwards from event style code to
// inject a capture or reset the boundary, the same single update thread rule
// as the boundary itself applies. The zero Handle is inert.
type Handle struct {
	name    string
	capture func(err error)
	reset   func(args ...any) bool
	armed   func() bool
}

// Handle returns an erased reference to this boundary.
func (b *Boundary[V]) Handle() Handle {
	return Handle{
		name:    b.name,
		capture: func(err error) { b.CaptureError(err, contextFromError(err)) },
		reset:   b.Reset,
		armed:   b.armed,
	}
}

// Nearest returns the handle of the innermost boundary currently rendering
// around the caller.
func Nearest(t *scope.Tree) (Handle, bool) {
	if t == nil {
		return Handle{}, false
	}
	return scope.Get(t, handleKey)
}

func (h Handle) Name() string { return h.name }

// CaptureError injects err into the boundary as if its children had failed.
func (h Handle) CaptureError(err error) {
	if h.capture != nil {
		h.capture(err)
	}
}

// Reset clears the boundary's capture, forwarding args to its OnReset.
func (h Handle) Reset(args ...any) bool {
	if h.reset == nil {
		return false
	}
	return h.reset(args...)
}

// Armed reports whether the boundary currently holds a capture.
func (h Handle) Armed() bool {
	return h.armed != nil && h.armed()
}
