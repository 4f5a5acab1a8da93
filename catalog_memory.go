package rmw

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
)

// MemoryCatalogStore is the default catalog when no persistent store is
// configured.
type MemoryCatalogStore struct {
	mu       sync.RWMutex
	services map[string][]endpoint.Descriptor
}

func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{services: map[string][]endpoint.Descriptor{}}
}

func (s *MemoryCatalogStore) Replace(_ context.Context, serviceName string, descriptors []endpoint.Descriptor) error {
	if s == nil {
		return core.InvalidState("rmw: memory catalog store is nil")
	}
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return core.InvalidArgument("rmw: service name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(descriptors) == 0 {
		delete(s.services, serviceName)
		return nil
	}
	s.services[serviceName] = append([]endpoint.Descriptor(nil), descriptors...)
	return nil
}

func (s *MemoryCatalogStore) List(_ context.Context, serviceName string) ([]endpoint.Descriptor, error) {
	if s == nil {
		return nil, core.InvalidState("rmw: memory catalog store is nil")
	}
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return nil, core.InvalidArgument("rmw: service name is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]endpoint.Descriptor{}, s.services[serviceName]...), nil
}

var _ endpoint.CatalogStore = (*MemoryCatalogStore)(nil)
