package endpoint

import (
	"unsafe"

	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
)

var infoSize = int(unsafe.Sizeof(Info{}))

// Array owns a contiguous run of records. size == 0 if and only if records
// is nil.
//
// The allocator block sized for the records is held for accounting only:
// the records themselves live in a Go slice. Strings and GIDs inside each
// record are backed by allocator blocks.
type Array struct {
	size    int
	block   []byte
	records []Info
}

func ZeroArray() Array {
	return Array{}
}

// CheckZero fails with InvalidState when the array holds records.
func (a *Array) CheckZero() error {
	if a == nil {
		return core.InvalidArgument("endpoint: array is nil")
	}
	if a.size != 0 || a.records != nil || a.block != nil {
		return core.InvalidState("endpoint: array is not zero initialized", map[string]any{"size": a.size})
	}
	return nil
}

// InitWithSize allocates size zero records. A size of zero leaves the array
// in the zero state. On failure the array is unchanged. A non-zero array
// fails with InvalidState, the same condition CheckZero reports.
func (a *Array) InitWithSize(size int, alloc core.Allocator) error {
	if a == nil {
		return core.InvalidArgument("endpoint: array is nil")
	}
	if !allocator.IsValid(alloc) {
		return core.InvalidArgument("endpoint: allocator is invalid")
	}
	if size < 0 {
		return core.InvalidArgument("endpoint: array size must not be negative", map[string]any{"size": size})
	}
	if a.records != nil || a.block != nil {
		return core.InvalidState("endpoint: array must be zero initialized", map[string]any{"size": a.size})
	}
	if size == 0 {
		return nil
	}
	block := alloc.Allocate(size * infoSize)
	if block == nil {
		return core.AllocationFailure("endpoint: failed to allocate array records", map[string]any{"size": size})
	}
	a.block = block
	a.records = make([]Info, size)
	a.size = size
	return nil
}

// Finalize finalizes every record, collecting every error. The buffer is only
// released, and the array reset to zero, when all records finalized cleanly;
// otherwise the array keeps its records so the call can be retried.
func (a *Array) Finalize(alloc core.Allocator) error {
	if a == nil {
		return core.InvalidArgument("endpoint: array is nil")
	}
	if !allocator.IsValid(alloc) {
		return core.InvalidArgument("endpoint: allocator is invalid")
	}
	var errs []error
	for index := range a.records {
		if err := a.records[index].Finalize(alloc); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return core.JoinErrors("endpoint: failed to finalize array records", errs...)
	}
	release(alloc, a.block)
	*a = ZeroArray()
	return nil
}

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return a.size
}

// At returns the record at index for in-place population.
func (a *Array) At(index int) (*Info, error) {
	if a == nil {
		return nil, core.InvalidArgument("endpoint: array is nil")
	}
	if index < 0 || index >= a.size {
		return nil, core.InvalidArgument("endpoint: array index out of range", map[string]any{
			"index": index,
			"size":  a.size,
		})
	}
	return &a.records[index], nil
}

func (a *Array) Descriptors() []Descriptor {
	if a == nil || a.size == 0 {
		return nil
	}
	out := make([]Descriptor, 0, a.size)
	for index := range a.records {
		out = append(out, a.records[index].Descriptor())
	}
	return out
}

// NewArrayFromDescriptors builds an owning array with one record per
// descriptor. Any failure finalizes every record built so far and returns the
// zero Array.
func NewArrayFromDescriptors(descriptors []Descriptor, alloc core.Allocator) (Array, error) {
	arr := ZeroArray()
	if err := arr.InitWithSize(len(descriptors), alloc); err != nil {
		return ZeroArray(), err
	}
	for index, descriptor := range descriptors {
		info, err := descriptor.Build(alloc)
		if err != nil {
			if finiErr := arr.Finalize(alloc); finiErr != nil {
				return ZeroArray(), core.JoinErrors("endpoint: array rollback failed", err, finiErr)
			}
			return ZeroArray(), err
		}
		arr.records[index] = info
	}
	return arr, nil
}
