package query

import "strings"

const (
	TypeResolveSecurityFiles = "rmw.query.security_files.resolve"
	TypeListServiceEndpoints = "rmw.query.service_endpoints.list"
)

// ResolveSecurityFilesMessage resolves the configured bundle. RootDirectory
// and Enclave override the configuration when set.
type ResolveSecurityFilesMessage struct {
	RootDirectory string
	Enclave       string
}

func (ResolveSecurityFilesMessage) Type() string { return TypeResolveSecurityFiles }

func (m ResolveSecurityFilesMessage) Validate() error {
	if enclave := strings.TrimSpace(m.Enclave); enclave != "" && !strings.HasPrefix(enclave, "/") {
		return queryValidationError("enclave", "enclave must be an absolute name")
	}
	return nil
}

type ListServiceEndpointsMessage struct {
	ServiceName string
}

func (ListServiceEndpointsMessage) Type() string { return TypeListServiceEndpoints }

func (m ListServiceEndpointsMessage) Validate() error {
	if strings.TrimSpace(m.ServiceName) == "" {
		return queryValidationError("service_name", "service name is required")
	}
	return nil
}
