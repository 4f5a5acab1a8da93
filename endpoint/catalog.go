package endpoint

import "context"

// CatalogStore persists the endpoint descriptors last observed for a
// service. Replace swaps the whole set atomically; List returns it in the
// order it was recorded.
type CatalogStore interface {
	Replace(ctx context.Context, serviceName string, descriptors []Descriptor) error
	List(ctx context.Context, serviceName string) ([]Descriptor, error)
}
