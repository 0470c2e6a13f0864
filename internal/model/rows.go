package model

// Rows is a read result that keeps "nothing exists" distinct from an
// empty result set. Presenters rely on the distinction to choose
// between a rendered table and a "nothing here" message, so queries
// return Rows rather than a possibly-nil slice.
type Rows[T any] struct {
	items   []T
	present bool
}

// SomeRows wraps a non-empty result set.
func SomeRows[T any](items []T) Rows[T] {
	return Rows[T]{items: items, present: true}
}

// NoRows is the explicit "no data" value.
func NoRows[T any]() Rows[T] {
	return Rows[T]{}
}

// HasData reports whether the query matched anything.
func (r Rows[T]) HasData() bool {
	return r.present
}

// Items returns the matched rows. Nil when HasData is false.
func (r Rows[T]) Items() []T {
	return r.items
}
