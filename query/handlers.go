package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
)

type SecurityFilesResolver interface {
	SecurityFiles(ctx context.Context, req core.SecurityFilesRequest) (core.SecurityBundle, error)
}

type ServiceEndpointsReader interface {
	ServiceEndpointDescriptors(ctx context.Context, serviceName string) ([]endpoint.Descriptor, error)
}

type ResolveSecurityFilesQuery struct {
	resolver SecurityFilesResolver
}

func NewResolveSecurityFilesQuery(resolver SecurityFilesResolver) *ResolveSecurityFilesQuery {
	return &ResolveSecurityFilesQuery{resolver: resolver}
}

func (q *ResolveSecurityFilesQuery) Query(ctx context.Context, msg ResolveSecurityFilesMessage) (core.SecurityBundle, error) {
	if q == nil || q.resolver == nil {
		return core.SecurityBundle{}, queryDependencyError("query: security files resolver is required")
	}
	if err := msg.Validate(); err != nil {
		return core.SecurityBundle{}, err
	}
	return q.resolver.SecurityFiles(ctx, core.SecurityFilesRequest{
		RootDirectory: strings.TrimSpace(msg.RootDirectory),
		Enclave:       strings.TrimSpace(msg.Enclave),
	})
}

type ListServiceEndpointsQuery struct {
	reader ServiceEndpointsReader
}

func NewListServiceEndpointsQuery(reader ServiceEndpointsReader) *ListServiceEndpointsQuery {
	return &ListServiceEndpointsQuery{reader: reader}
}

func (q *ListServiceEndpointsQuery) Query(ctx context.Context, msg ListServiceEndpointsMessage) ([]endpoint.Descriptor, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: service endpoints reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.ServiceEndpointDescriptors(ctx, strings.TrimSpace(msg.ServiceName))
}
