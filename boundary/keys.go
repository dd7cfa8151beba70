package boundary

import "reflect"

// keysChanged reports whether two reset key sequences differ, meaning their
// lengths differ or some positional pair fails same value identity. A nil
// sequence is the same as an empty one.
func keysChanged(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range next {
		if !sameValue(prev[i], next[i]) {
			return true
		}
	}
	return false
}

// sameValue is identity, not structural equality. Two keys match when Go ==
// would report them equal, so distinct pointers to equal structs are
// different keys. Keys whose dynamic type is not comparable never match and
// never panic, they simply always read as changed.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if !va.Comparable() {
		return false
	}
	return va.Equal(vb)
}
