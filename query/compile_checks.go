package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
)

var (
	_ gocmd.Querier[ResolveSecurityFilesMessage, core.SecurityBundle]   = (*ResolveSecurityFilesQuery)(nil)
	_ gocmd.Querier[ListServiceEndpointsMessage, []endpoint.Descriptor] = (*ListServiceEndpointsQuery)(nil)
)
