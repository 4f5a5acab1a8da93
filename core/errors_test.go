package core

import (
	stderrors "errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestKindConstructors_AssignStableCodes(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		kind     ErrorKind
		textCode string
		code     int
		category goerrors.Category
	}{
		{"invalid_argument", InvalidArgument("bad"), KindInvalidArgument, ErrorInvalidArgument, http.StatusBadRequest, goerrors.CategoryBadInput},
		{"allocation", AllocationFailure("oom"), KindAllocationFailure, ErrorBadAlloc, http.StatusInsufficientStorage, goerrors.CategoryInternal},
		{"resolution", ResolutionFailed("missing", nil), KindResolutionFailed, ErrorResolutionFailed, http.StatusNotFound, goerrors.CategoryNotFound},
		{"state", InvalidState("dirty"), KindInvalidState, ErrorInvalidState, http.StatusConflict, goerrors.CategoryConflict},
		{"unspecified", Unspecified("boom", nil), KindUnspecified, ErrorUnspecified, http.StatusInternalServerError, goerrors.CategoryInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, got)
			}
			var rich *goerrors.Error
			if !goerrors.As(tc.err, &rich) {
				t.Fatalf("expected go-errors envelope, got %T", tc.err)
			}
			if rich.TextCode != tc.textCode {
				t.Fatalf("expected text code %q, got %q", tc.textCode, rich.TextCode)
			}
			if rich.Code != tc.code {
				t.Fatalf("expected code %d, got %d", tc.code, rich.Code)
			}
			if rich.Category != tc.category {
				t.Fatalf("expected category %q, got %q", tc.category, rich.Category)
			}
		})
	}
}

func TestKindOf_ForeignAndNilErrors(t *testing.T) {
	if got := KindOf(nil); got != KindNone {
		t.Fatalf("expected none for nil, got %q", got)
	}
	if got := KindOf(stderrors.New("plain")); got != KindUnspecified {
		t.Fatalf("expected unspecified for foreign error, got %q", got)
	}
	if IsKind(nil, KindNone) {
		t.Fatalf("expected nil error to never match a kind")
	}
}

func TestResolutionFailed_KeepsCauseAndMetadata(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := ResolutionFailed("attribute unresolved", cause, map[string]any{"attribute": "GOVERNANCE"})
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through wrapping")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope")
	}
	if rich.Metadata["attribute"] != "GOVERNANCE" {
		t.Fatalf("expected attribute metadata, got %#v", rich.Metadata)
	}
}

func TestMapError_AssignsTextCodeToForeignErrors(t *testing.T) {
	mapped := MapError(stderrors.New("plain failure"))
	if mapped == nil {
		t.Fatalf("expected mapped error")
	}
	if mapped.TextCode == "" {
		t.Fatalf("expected text code on mapped error")
	}
	if MapError(nil) != nil {
		t.Fatalf("expected nil mapping for nil error")
	}
	kept := MapError(InvalidState("dirty"))
	if kept.TextCode != ErrorInvalidState {
		t.Fatalf("expected existing text code to survive, got %q", kept.TextCode)
	}
}

func TestJoinErrors(t *testing.T) {
	if JoinErrors("none") != nil {
		t.Fatalf("expected nil for no errors")
	}
	single := InvalidArgument("one")
	if got := JoinErrors("single", nil, single); got != single {
		t.Fatalf("expected single error to be returned unchanged")
	}
	same := JoinErrors("same", InvalidArgument("a"), InvalidArgument("b"))
	if !IsKind(same, KindInvalidArgument) {
		t.Fatalf("expected shared kind to be kept, got %q", KindOf(same))
	}
	mixed := JoinErrors("mixed", InvalidArgument("a"), InvalidState("b"))
	if !IsKind(mixed, KindUnspecified) {
		t.Fatalf("expected mixed kinds to be unspecified, got %q", KindOf(mixed))
	}
}

func TestInvalidConfig_ClassifiesForeignErrors(t *testing.T) {
	if InvalidConfig(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	err := InvalidConfig(stderrors.New("core: service_name is required"))
	if !IsKind(err, KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.TextCode != ErrorInvalidArgument {
		t.Fatalf("expected %s envelope, got %#v", ErrorInvalidArgument, err)
	}

	kinded := AllocationFailure("out of memory")
	if got := InvalidConfig(kinded); got != kinded {
		t.Fatalf("expected kinded error to pass through, got %v", got)
	}
}
