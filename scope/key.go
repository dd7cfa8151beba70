package scope

import "github.com/cespare/xxhash/v2"

// Key is a typed context key. The id is derived from the name the same way
// for every process, so independently compiled packages agree on reserved
// keys without coordination.
type Key[T any] struct {
	id   int64
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{id: symbolID(name), name: name}
}

func (k Key[T]) Name() string { return k.name }

func symbolID(name string) int64 {
	return int64(xxhash.Sum64String(name) & 0x7fffffffffffffff)
}

// Set binds a value on the current scope. The binding is visible to the
// current scope and everything rendered under it, and disappears when the
// scope pops.
func Set[T any](t *Tree, k Key[T], v T) {
	if t.current.values == nil {
		t.current.values = map[int64]any{}
	}
	t.current.values[k.id] = v
}

// Get resolves a key by walking from the current scope toward the root and
// returning the nearest binding.
func Get[T any](t *Tree, k Key[T]) (T, bool) {
	for n := t.current; n != nil; n = n.parent {
		if x, ok := n.values[k.id]; ok {
			v, ok := x.(T)
			if !ok {
				panic("invalid type")
			}
			return v, true
		}
	}
	var zero T
	return zero, false
}
