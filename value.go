package codec

// Value is the source of a field's value: either a constant or a computation
// evaluated afresh on every Get. The computed form lets a field derive its value
// from sibling fields at the moment of serialization, such as a length field
// that depends on a payload filled in later.
//
// Computations must not mutate the field tree; the order in which they are
// re-invoked is not guaranteed.
type Value[T any] struct {
	constant T
	computed func() T
}

// Constant returns a Value that always yields v.
func Constant[T any](v T) Value[T] {
	return Value[T]{constant: v}
}

// Computed returns a Value that calls fn on every Get.
func Computed[T any](fn func() T) Value[T] {
	return Value[T]{computed: fn}
}

// Get returns the constant or invokes the computation. Nothing is cached.
func (v Value[T]) Get() T {
	if v.computed != nil {
		return v.computed()
	}
	return v.constant
}

// IsComputed reports whether v is backed by a computation.
func (v Value[T]) IsComputed() bool { return v.computed != nil }
