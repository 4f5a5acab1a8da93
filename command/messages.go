package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-rmw/endpoint"
)

const (
	TypeRecordServiceEndpoints = "rmw.command.service_endpoints.record"
)

type RecordServiceEndpointsMessage struct {
	ServiceName string
	Endpoints   []endpoint.Descriptor
}

func (RecordServiceEndpointsMessage) Type() string { return TypeRecordServiceEndpoints }

func (m RecordServiceEndpointsMessage) Validate() error {
	if strings.TrimSpace(m.ServiceName) == "" {
		return commandValidationError("service_name", "service name is required")
	}
	for idx, d := range m.Endpoints {
		if err := d.Validate(); err != nil {
			return commandWrapValidation(err, fmt.Sprintf("command: endpoint %d is invalid", idx))
		}
	}
	return nil
}
