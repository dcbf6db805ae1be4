package vector

// View is a non-owning, borrowed handle onto a contiguous run of T. It is
// produced by Matrix row access and must never outlive the backing storage
// it was sliced from.
type View[T Float] struct {
	data []T
}

// NewView wraps data as a View without copying.
func NewView[T Float](data []T) View[T] {
	return View[T]{data: data}
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int {
	return len(v.data)
}

// At returns the i-th element.
func (v View[T]) At(i int) T {
	return v.data[i]
}

// Raw exposes the underlying slice. Mutating it mutates the backing
// storage; callers that need an independent copy should use Vector.
func (v View[T]) Raw() []T {
	return v.data
}

// Vector returns a Vector wrapping the same backing array as v (still
// non-owning).
func (v View[T]) Vector() Vector[T] {
	return Vector[T](v.data)
}

// IsSameSize reports whether v and other have equal length.
func (v View[T]) IsSameSize(other View[T]) bool {
	return len(v.data) == len(other.data)
}
