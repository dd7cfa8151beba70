package boundary

// ResetTrigger says what cleared a capture.
type ResetTrigger int

const (
	ResetExplicit ResetTrigger = iota
	ResetKeysChanged
)

func (t ResetTrigger) String() string {
	switch t {
	case ResetExplicit:
		return "explicit"
	case ResetKeysChanged:
		return "keys-changed"
	default:
		return "unknown"
	}
}

// Observer receives boundary lifecycle notifications. Unlike the Options
// callbacks, which are application logic tied to one boundary, an Observer is
// infrastructure and typically shared across many boundaries. OnReset fires
// after the capture is cleared.
type Observer interface {
	OnCapture(name string, err error, ctx Context)
	OnReset(name string, trigger ResetTrigger)
}

// NoopObserver is the default Observer. Embed it to implement only part of
// the interface.
type NoopObserver struct{}

func (NoopObserver) OnCapture(string, error, Context) {}
func (NoopObserver) OnReset(string, ResetTrigger)     {}

// MultiObserver fans notifications out in order.
type MultiObserver []Observer

func (m MultiObserver) OnCapture(name string, err error, ctx Context) {
	for _, o := range m {
		o.OnCapture(name, err, ctx)
	}
}

func (m MultiObserver) OnReset(name string, trigger ResetTrigger) {
	for _, o := range m {
		o.OnReset(name, trigger)
	}
}
