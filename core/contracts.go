package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// Allocator is the memory capability handed to every operation that owns
// storage. A block returned by Allocate must be released through Deallocate on
// the same allocator.
type Allocator interface {
	Allocate(size int) []byte
	Deallocate(block []byte)
	Reallocate(block []byte, size int) []byte
	Valid() bool
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
