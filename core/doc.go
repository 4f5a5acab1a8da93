// Package core contains the contracts shared by the credential resolver and the
// endpoint record lifecycle: the allocator capability, error kinds,
// configuration and the logging/metrics observer. Packages with behavior depend
// on core; core depends on none of them.
package core
