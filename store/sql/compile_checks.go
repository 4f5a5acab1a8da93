package sqlstore

import "github.com/goliatone/go-rmw/endpoint"

var (
	_ endpoint.CatalogStore = (*CatalogStore)(nil)
	_ endpoint.CatalogStore = (*CachedCatalogStore)(nil)
)
