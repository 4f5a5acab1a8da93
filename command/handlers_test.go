package command

import (
	"context"
	"errors"
	"testing"

	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
)

type stubEndpointRecorder struct {
	recordFn func(ctx context.Context, serviceName string, descriptors []endpoint.Descriptor) (int, error)
}

func (s stubEndpointRecorder) RecordServiceEndpoints(ctx context.Context, serviceName string, descriptors []endpoint.Descriptor) (int, error) {
	if s.recordFn == nil {
		return 0, nil
	}
	return s.recordFn(ctx, serviceName, descriptors)
}

func validDescriptor() endpoint.Descriptor {
	return endpoint.Descriptor{
		NodeName:      "adder",
		NodeNamespace: "/",
		ServiceType:   "example_interfaces/srv/AddTwoInts",
		EndpointKind:  endpoint.KindServer,
		GIDs:          endpoint.One(endpoint.NewGID()),
		QoSProfiles:   endpoint.One(endpoint.ServicesDefaultQoSProfile()),
	}
}

func TestRecordServiceEndpointsCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	called := false
	svc := stubEndpointRecorder{
		recordFn: func(_ context.Context, serviceName string, descriptors []endpoint.Descriptor) (int, error) {
			called = true
			if serviceName != "/add_two_ints" {
				t.Fatalf("expected service /add_two_ints, got %q", serviceName)
			}
			return len(descriptors), nil
		},
	}

	cmd := NewRecordServiceEndpointsCommand(svc)
	collector := gocmd.NewResult[int]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, RecordServiceEndpointsMessage{
		ServiceName: "/add_two_ints",
		Endpoints:   []endpoint.Descriptor{validDescriptor(), validDescriptor()},
	})
	if err != nil {
		t.Fatalf("execute record: %v", err)
	}
	if !called {
		t.Fatalf("expected recorder invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result != 2 {
		t.Fatalf("expected 2 recorded endpoints, got %d", result)
	}
}

func TestRecordServiceEndpointsCommand_PropagatesServiceError(t *testing.T) {
	boom := errors.New("store down")
	cmd := NewRecordServiceEndpointsCommand(stubEndpointRecorder{
		recordFn: func(context.Context, string, []endpoint.Descriptor) (int, error) {
			return 0, boom
		},
	})
	err := cmd.Execute(context.Background(), RecordServiceEndpointsMessage{ServiceName: "/svc"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestRecordServiceEndpointsMessage_ValidateReturnsRichError(t *testing.T) {
	err := (RecordServiceEndpointsMessage{}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorInvalidArgument {
		t.Fatalf("expected %q text code, got %q", core.ErrorInvalidArgument, rich.TextCode)
	}
}

func TestRecordServiceEndpointsMessage_RejectsInvalidDescriptor(t *testing.T) {
	msg := RecordServiceEndpointsMessage{
		ServiceName: "/svc",
		Endpoints:   []endpoint.Descriptor{{NodeName: "broken"}},
	}
	called := false
	cmd := NewRecordServiceEndpointsCommand(stubEndpointRecorder{
		recordFn: func(context.Context, string, []endpoint.Descriptor) (int, error) {
			called = true
			return 0, nil
		},
	})
	if err := cmd.Execute(context.Background(), msg); err == nil {
		t.Fatalf("expected invalid descriptor to be rejected")
	}
	if called {
		t.Fatalf("expected recorder not to be called for an invalid message")
	}
}

func TestRecordServiceEndpointsCommand_NilServiceReturnsRichError(t *testing.T) {
	var cmd *RecordServiceEndpointsCommand
	err := cmd.Execute(context.Background(), RecordServiceEndpointsMessage{})
	if err == nil {
		t.Fatalf("expected command dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}
