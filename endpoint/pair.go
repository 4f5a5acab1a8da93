package endpoint

import "github.com/goliatone/go-rmw/core"

// Pair holds exactly one or two values. The zero Pair is empty and only
// describes an unset field.
type Pair[T any] struct {
	first  T
	second T
	n      int
}

func One[T any](v T) Pair[T] {
	return Pair[T]{first: v, n: 1}
}

func Two[T any](a, b T) Pair[T] {
	return Pair[T]{first: a, second: b, n: 2}
}

// PairFromSlice adapts a count-plus-buffer input. Only lengths 1 and 2 are
// accepted.
func PairFromSlice[T any](values []T) (Pair[T], error) {
	switch len(values) {
	case 1:
		return One(values[0]), nil
	case 2:
		return Two(values[0], values[1]), nil
	default:
		return Pair[T]{}, core.InvalidArgument("endpoint: expected one or two values", map[string]any{"count": len(values)})
	}
}

func (p Pair[T]) Len() int {
	return p.n
}

func (p Pair[T]) First() T {
	return p.first
}

// Second returns the second value and whether it is present.
func (p Pair[T]) Second() (T, bool) {
	return p.second, p.n == 2
}

func (p Pair[T]) Slice() []T {
	switch p.n {
	case 1:
		return []T{p.first}
	case 2:
		return []T{p.first, p.second}
	default:
		return nil
	}
}
