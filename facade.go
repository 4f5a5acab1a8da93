package rmw

import (
	"fmt"

	rmwcommand "github.com/goliatone/go-rmw/command"
	rmwquery "github.com/goliatone/go-rmw/query"
)

type CommandQueryService interface {
	rmwcommand.EndpointRecorder
	rmwquery.SecurityFilesResolver
	rmwquery.ServiceEndpointsReader
}

type Commands struct {
	RecordServiceEndpoints *rmwcommand.RecordServiceEndpointsCommand
}

type Queries struct {
	ResolveSecurityFiles *rmwquery.ResolveSecurityFilesQuery
	ListServiceEndpoints *rmwquery.ListServiceEndpointsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("rmw: command/query service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			RecordServiceEndpoints: rmwcommand.NewRecordServiceEndpointsCommand(service),
		},
		queries: Queries{
			ResolveSecurityFiles: rmwquery.NewResolveSecurityFilesQuery(service),
			ListServiceEndpoints: rmwquery.NewListServiceEndpointsQuery(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*Service)(nil)
