// Package allocator provides the allocator capabilities consumed by the
// endpoint and security packages: a heap allocator for production use and a
// tracking allocator that counts live blocks and can be armed to fail.
package allocator
