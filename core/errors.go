package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorInvalidArgument   = "RMW_INVALID_ARGUMENT"
	ErrorBadAlloc          = "RMW_BAD_ALLOC"
	ErrorResolutionFailed  = "RMW_RESOLUTION_FAILED"
	ErrorInvalidState      = "RMW_INVALID_STATE"
	ErrorUnspecified       = "RMW_ERROR"
	errorUnexpectedMessage = "An unexpected error occurred"
)

// ErrorKind discriminates the failure classes returned by every operation in
// this module.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindInvalidArgument   ErrorKind = "invalid_argument"
	KindAllocationFailure ErrorKind = "allocation_failure"
	KindResolutionFailed  ErrorKind = "resolution_failed"
	KindInvalidState      ErrorKind = "invalid_state"
	KindUnspecified       ErrorKind = "unspecified"
)

func InvalidArgument(message string, metadata ...map[string]any) error {
	return newKindError(KindInvalidArgument, message, nil, metadata...)
}

func AllocationFailure(message string, metadata ...map[string]any) error {
	return newKindError(KindAllocationFailure, message, nil, metadata...)
}

func ResolutionFailed(message string, cause error, metadata ...map[string]any) error {
	return newKindError(KindResolutionFailed, message, cause, metadata...)
}

func InvalidState(message string, metadata ...map[string]any) error {
	return newKindError(KindInvalidState, message, nil, metadata...)
}

func Unspecified(message string, cause error, metadata ...map[string]any) error {
	return newKindError(KindUnspecified, message, cause, metadata...)
}

// InvalidConfig classifies a configuration load or validation failure as
// InvalidArgument. Errors that already carry a kind are returned unchanged.
func InvalidConfig(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnspecified {
		return err
	}
	return newKindError(KindInvalidArgument, "core: invalid configuration", err)
}

func newKindError(kind ErrorKind, message string, cause error, metadata ...map[string]any) error {
	category := kindCategory(kind)
	var err *goerrors.Error
	if cause != nil {
		err = goerrors.Wrap(cause, category, message)
	} else {
		err = goerrors.New(message, category)
	}
	err = err.WithCode(kindHTTPStatus(kind)).WithTextCode(kindTextCode(kind))
	if merged := mergeMetadata(metadata); len(merged) > 0 {
		err.WithMetadata(merged)
	}
	return err
}

// KindOf reports the error kind carried by err, looking through wrapping.
// Errors that did not originate in this module report KindUnspecified.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return KindUnspecified
	}
	switch richErr.TextCode {
	case ErrorInvalidArgument:
		return KindInvalidArgument
	case ErrorBadAlloc:
		return KindAllocationFailure
	case ErrorResolutionFailed:
		return KindResolutionFailed
	case ErrorInvalidState:
		return KindInvalidState
	default:
		return KindUnspecified
	}
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// MapError converts any error into the module's envelope, keeping envelopes
// that already carry a text code.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}
	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Code == 0 {
		err.Code = kindHTTPStatus(KindOf(err))
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = errorUnexpectedMessage
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorInvalidArgument
	case goerrors.CategoryNotFound:
		return ErrorResolutionFailed
	case goerrors.CategoryConflict:
		return ErrorInvalidState
	default:
		return ErrorUnspecified
	}
}

func kindCategory(kind ErrorKind) goerrors.Category {
	switch kind {
	case KindInvalidArgument:
		return goerrors.CategoryBadInput
	case KindResolutionFailed:
		return goerrors.CategoryNotFound
	case KindInvalidState:
		return goerrors.CategoryConflict
	default:
		return goerrors.CategoryInternal
	}
}

func kindTextCode(kind ErrorKind) string {
	switch kind {
	case KindInvalidArgument:
		return ErrorInvalidArgument
	case KindAllocationFailure:
		return ErrorBadAlloc
	case KindResolutionFailed:
		return ErrorResolutionFailed
	case KindInvalidState:
		return ErrorInvalidState
	default:
		return ErrorUnspecified
	}
}

func kindHTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindAllocationFailure:
		return http.StatusInsufficientStorage
	case KindResolutionFailed:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func mergeMetadata(metadata []map[string]any) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	merged := map[string]any{}
	for _, entry := range metadata {
		for key, value := range entry {
			merged[key] = value
		}
	}
	return merged
}

// JoinErrors combines errors and classifies the result as Unspecified unless
// every error shares the same kind.
func JoinErrors(message string, errs ...error) error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	kind := KindOf(filtered[0])
	for _, err := range filtered[1:] {
		if KindOf(err) != kind {
			kind = KindUnspecified
			break
		}
	}
	return newKindError(kind, message, errors.Join(filtered...), map[string]any{"count": len(filtered)})
}
