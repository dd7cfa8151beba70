package boundary

// Wrap builds one boundary and returns a component that renders it around
// inner, forwarding props unchanged. The boundary lives as long as the
// returned component, so captures and resets behave exactly as if the caller
// had composed the boundary by hand.
func Wrap[P, V any](inner Component[P, V], opts Options[V]) Component[P, V] {
	b := New(opts)
	return func(props P) (V, error) {
		return b.Render(func() (V, error) { return inner(props) })
	}
}
