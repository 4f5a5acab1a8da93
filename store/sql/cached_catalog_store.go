package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
)

const serviceEndpointsCacheKeyPrefix = "go-rmw::service_endpoints::v1"

type CachedCatalogStore struct {
	base  endpoint.CatalogStore
	cache repositorycache.CacheService
}

func NewCachedCatalogStore(
	base endpoint.CatalogStore,
	cacheService repositorycache.CacheService,
) (*CachedCatalogStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base catalog store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: catalog cache service is required")
	}
	return &CachedCatalogStore{base: base, cache: cacheService}, nil
}

// ServiceEndpointsCacheKey returns go-rmw::service_endpoints::v1::<service>
// with the service name URL-path escaped.
func ServiceEndpointsCacheKey(serviceName string) (string, error) {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return "", core.InvalidArgument("sqlstore: service name is required")
	}
	return serviceEndpointsCacheKeyPrefix + "::" + url.PathEscape(serviceName), nil
}

func (s *CachedCatalogStore) List(ctx context.Context, serviceName string) ([]endpoint.Descriptor, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached catalog store is not configured")
	}
	cacheKey, err := ServiceEndpointsCacheKey(serviceName)
	if err != nil {
		return nil, err
	}
	descriptors, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) ([]endpoint.Descriptor, error) {
		return s.base.List(ctx, strings.TrimSpace(serviceName))
	})
	if err != nil {
		return nil, err
	}
	return cloneDescriptors(descriptors), nil
}

func (s *CachedCatalogStore) Replace(ctx context.Context, serviceName string, descriptors []endpoint.Descriptor) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached catalog store is not configured")
	}
	cacheKey, err := ServiceEndpointsCacheKey(serviceName)
	if err != nil {
		return err
	}
	if err := s.base.Replace(ctx, strings.TrimSpace(serviceName), descriptors); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func cloneDescriptors(in []endpoint.Descriptor) []endpoint.Descriptor {
	if in == nil {
		return nil
	}
	out := make([]endpoint.Descriptor, len(in))
	copy(out, in)
	return out
}
