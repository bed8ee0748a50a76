package pickpoint

import (
	"errors"
	"fmt"
	"reflect"
)

// CallError represents a failed call to the PickPoint API: either the
// transport failed or the provider reported a business error inside an
// otherwise successful response.
type CallError struct {
	URL        string
	Code       int
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pickpoint call %s failed (%d): %s: %v", e.URL, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("pickpoint call %s failed (%d): %s", e.URL, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CallError) Unwrap() error {
	return e.Cause
}

// Is matches another CallError with the same provider code.
func (e *CallError) Is(target error) bool {
	t, ok := target.(*CallError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewCallError creates a new CallError.
func NewCallError(url, message string, code int) *CallError {
	return &CallError{
		URL:     url,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *CallError) WithCause(err error) *CallError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *CallError) WithStatusCode(code int) *CallError {
	e.StatusCode = code
	return e
}

// ValidationError reports a request rejected locally, before any network call.
type ValidationError struct {
	Field  string
	Reason string
	Kind   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// LookupError reports an ISO region code missing from the static table.
type LookupError struct {
	Code string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownRegion, e.Code)
}

func (e *LookupError) Unwrap() error {
	return ErrUnknownRegion
}

// Sentinel errors.
var (
	// ErrInvalidInvoice indicates an invoice is missing a required field.
	ErrInvalidInvoice = errors.New("invalid invoice")

	// ErrInvalidPackage indicates package dimensions or weight are negative.
	ErrInvalidPackage = errors.New("invalid package")

	// ErrInvalidPriceRequest indicates a price request has no destination.
	ErrInvalidPriceRequest = errors.New("invalid price request")

	// ErrInvalidCourierCall indicates a courier request is incomplete.
	ErrInvalidCourierCall = errors.New("invalid courier call")

	// ErrAuthenticationFailed indicates the login call returned no session.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrZoneNotFound indicates the provider returned no zones.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrUnknownRegion indicates an ISO code absent from the region table.
	ErrUnknownRegion = errors.New("unknown region")
)

// failer is implemented by every wire response. The shape-specific checks
// live on the response types so classify stays the same for all endpoints.
type failer interface {
	failure() (message string, code int, failed bool)
}

// classify collapses a decoded response into a CallError when the payload
// encodes a provider-side failure. A missing response, including a typed
// nil pointer, is a failure too.
func classify(endpoint string, resp failer) error {
	if resp == nil {
		return NewCallError(endpoint, "empty response", 0)
	}
	if v := reflect.ValueOf(resp); v.Kind() == reflect.Pointer && v.IsNil() {
		return NewCallError(endpoint, "empty response", 0)
	}
	msg, code, failed := resp.failure()
	if !failed {
		return nil
	}
	return NewCallError(endpoint, msg, code)
}

// IsProviderError reports whether err is a business failure reported by
// PickPoint, as opposed to a transport or local error.
func IsProviderError(err error) bool {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Cause == nil && callErr.StatusCode == 0
	}
	return false
}

// asCallError attaches the endpoint to errors raised below the classifier
// that do not already carry one.
func asCallError(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	var callErr *CallError
	if errors.As(err, &callErr) {
		return err
	}
	return NewCallError(endpoint, err.Error(), 0).WithCause(err)
}
