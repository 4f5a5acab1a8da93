package query

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
)

type stubSecurityFilesResolver struct {
	lastRequest core.SecurityFilesRequest
	bundle      core.SecurityBundle
	err         error
}

func (s *stubSecurityFilesResolver) SecurityFiles(_ context.Context, req core.SecurityFilesRequest) (core.SecurityBundle, error) {
	s.lastRequest = req
	return s.bundle, s.err
}

type stubServiceEndpointsReader struct {
	descriptors map[string][]endpoint.Descriptor
}

func (s stubServiceEndpointsReader) ServiceEndpointDescriptors(_ context.Context, serviceName string) ([]endpoint.Descriptor, error) {
	return s.descriptors[serviceName], nil
}

func TestResolveSecurityFilesQuery_DelegatesWithOverrides(t *testing.T) {
	resolver := &stubSecurityFilesResolver{bundle: core.SecurityBundle{
		Enabled: true,
		Files:   map[string]string{"GOVERNANCE": "file:///keys/governance.p7s"},
	}}
	q := NewResolveSecurityFilesQuery(resolver)

	bundle, err := q.Query(context.Background(), ResolveSecurityFilesMessage{
		RootDirectory: " /keys ",
		Enclave:       "/talker",
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resolver.lastRequest.RootDirectory != "/keys" || resolver.lastRequest.Enclave != "/talker" {
		t.Fatalf("unexpected request: %#v", resolver.lastRequest)
	}
	if bundle.Files["GOVERNANCE"] != "file:///keys/governance.p7s" {
		t.Fatalf("unexpected bundle: %#v", bundle)
	}
}

func TestResolveSecurityFilesMessage_RejectsRelativeEnclave(t *testing.T) {
	err := (ResolveSecurityFilesMessage{Enclave: "talker"}).Validate()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.ErrorInvalidArgument {
		t.Fatalf("expected %q text code, got %q", core.ErrorInvalidArgument, rich.TextCode)
	}
}

func TestListServiceEndpointsQuery_Delegates(t *testing.T) {
	reader := stubServiceEndpointsReader{descriptors: map[string][]endpoint.Descriptor{
		"/svc": {{NodeName: "adder", EndpointKind: endpoint.KindServer}},
	}}
	q := NewListServiceEndpointsQuery(reader)
	out, err := q.Query(context.Background(), ListServiceEndpointsMessage{ServiceName: " /svc "})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].NodeName != "adder" {
		t.Fatalf("unexpected descriptors: %#v", out)
	}
}

func TestListServiceEndpointsMessage_ValidateReturnsRichError(t *testing.T) {
	err := (ListServiceEndpointsMessage{}).Validate()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
}

func TestQueries_NilDependenciesReturnRichErrors(t *testing.T) {
	var resolve *ResolveSecurityFilesQuery
	if _, err := resolve.Query(context.Background(), ResolveSecurityFilesMessage{}); err == nil {
		t.Fatalf("expected dependency error for nil resolver query")
	}
	list := NewListServiceEndpointsQuery(nil)
	_, err := list.Query(context.Background(), ListServiceEndpointsMessage{ServiceName: "/svc"})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal dependency error, got %v", err)
	}
}
