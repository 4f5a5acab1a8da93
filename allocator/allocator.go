package allocator

import (
	"reflect"

	"github.com/goliatone/go-rmw/core"
)

// Heap hands out garbage collected blocks. Deallocate is a no-op.
type Heap struct{}

func Default() core.Allocator {
	return Heap{}
}

func (Heap) Allocate(size int) []byte {
	if size < 0 {
		return nil
	}
	return make([]byte, size, max(size, 1))
}

func (Heap) Deallocate([]byte) {}

func (h Heap) Reallocate(block []byte, size int) []byte {
	next := h.Allocate(size)
	if next == nil {
		return nil
	}
	copy(next, block)
	return next
}

func (Heap) Valid() bool {
	return true
}

// Invalid is an allocator whose capability checks fail. Every operation that
// receives it must reject it before touching state.
type Invalid struct{}

func (Invalid) Allocate(int) []byte { return nil }

func (Invalid) Deallocate([]byte) {}

func (Invalid) Reallocate([]byte, int) []byte { return nil }

func (Invalid) Valid() bool { return false }

// IsValid reports whether a is usable, treating nil interfaces and typed nil
// pointers as invalid.
func IsValid(a core.Allocator) bool {
	if a == nil {
		return false
	}
	value := reflect.ValueOf(a)
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Slice:
		if value.IsNil() {
			return false
		}
	}
	return a.Valid()
}

// Strdup copies s into a block owned by a. It returns nil when the allocator
// fails. An empty string still yields a non-nil block.
func Strdup(a core.Allocator, s string) []byte {
	block := a.Allocate(len(s))
	if block == nil {
		return nil
	}
	copy(block, s)
	return block[:len(s)]
}
