// Package endpoint holds the allocator-backed records that describe the
// client and server endpoints of a discovered service.
//
// An Info starts in the zero state, is populated through setters (or a
// Builder) that copy every input into blocks owned by the record, and is
// returned to the zero state by Finalize using the same allocator. An Array
// owns a contiguous run of records and composes the same lifecycle.
package endpoint
