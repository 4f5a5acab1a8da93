package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-rmw/endpoint"
)

type EndpointRecorder interface {
	RecordServiceEndpoints(ctx context.Context, serviceName string, descriptors []endpoint.Descriptor) (int, error)
}

type RecordServiceEndpointsCommand struct {
	service EndpointRecorder
}

func NewRecordServiceEndpointsCommand(service EndpointRecorder) *RecordServiceEndpointsCommand {
	return &RecordServiceEndpointsCommand{service: service}
}

// Execute stores the number of recorded endpoints in the result collector
// carried by ctx, when there is one.
func (c *RecordServiceEndpointsCommand) Execute(ctx context.Context, msg RecordServiceEndpointsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: endpoint recorder is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	count, err := c.service.RecordServiceEndpoints(ctx, msg.ServiceName, msg.Endpoints)
	if err != nil {
		return err
	}
	storeResult(ctx, count)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
