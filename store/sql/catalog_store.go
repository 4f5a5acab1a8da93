package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CatalogStore keeps the endpoint descriptors of each service in the
// rmw_service_endpoints table, one row per endpoint ordered by position.
type CatalogStore struct {
	db   *bun.DB
	repo repository.Repository[*serviceEndpointRecord]
}

func NewCatalogStore(db *bun.DB) (*CatalogStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*serviceEndpointRecord](db, serviceEndpointHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid service endpoint repository wiring: %w", err)
		}
	}
	return &CatalogStore{db: db, repo: repo}, nil
}

// Replace swaps every stored endpoint of serviceName for descriptors inside
// one transaction. An empty slice clears the service.
func (s *CatalogStore) Replace(ctx context.Context, serviceName string, descriptors []endpoint.Descriptor) error {
	if s == nil || s.db == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: catalog store is not configured")
	}
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return core.InvalidArgument("sqlstore: service name is required")
	}
	for idx, d := range descriptors {
		if err := d.Validate(); err != nil {
			return core.InvalidArgument("sqlstore: endpoint descriptor is invalid", map[string]any{
				"position": idx,
				"cause":    err.Error(),
			})
		}
	}

	now := time.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*serviceEndpointRecord)(nil)).
			Where("service_name = ?", serviceName).
			Exec(ctx); err != nil {
			return err
		}
		for idx, d := range descriptors {
			record := newServiceEndpointRecord(serviceName, idx, d, now)
			record.ID = uuid.NewString()
			if _, err := s.repo.CreateTx(ctx, tx, record); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *CatalogStore) List(ctx context.Context, serviceName string) ([]endpoint.Descriptor, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: catalog store is not configured")
	}
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return nil, core.InvalidArgument("sqlstore: service name is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("service_name", "=", serviceName),
		repository.OrderBy("position ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]endpoint.Descriptor, 0, len(records))
	for _, record := range records {
		d, convErr := record.toDomain()
		if convErr != nil {
			return nil, fmt.Errorf("sqlstore: decode endpoint %s: %w", record.ID, convErr)
		}
		out = append(out, d)
	}
	return out, nil
}
