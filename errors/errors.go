package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error is the single error type returned by the jolt client.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// StatusCode is the HTTP status code for ErrCodeNetwork, zero otherwise.
	StatusCode int `json:"status_code,omitempty"`
	// Body is the response body that came with a non-2xx status.
	Body []byte `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code. A target with
// a non-zero StatusCode must match the status code too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.StatusCode == 0 || t.StatusCode == e.StatusCode
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Fields flattens the error into structured log fields.
func (e *Error) Fields() map[string]any {
	fields := map[string]any{
		"code":    string(e.Code),
		"message": e.Message,
	}
	if e.StatusCode != 0 {
		fields["status_code"] = e.StatusCode
	}
	if e.Cause != nil {
		fields["cause"] = e.Cause.Error()
	}
	for k, v := range e.Details {
		fields[k] = v
	}
	return fields
}

// New creates a new Error.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// --- Constructors, one per code ---

// UnableToComposeURL creates an error for a base URL and path that do not form a URL.
func UnableToComposeURL(rawURL string) *Error {
	return New(ErrCodeUnableToComposeURL, fmt.Sprintf("unable to compose a valid URL from %q", rawURL)).
		WithDetail("url", rawURL)
}

// JSONSerialization creates an error for parameters that cannot be JSON encoded.
func JSONSerialization(cause error) *Error {
	return New(ErrCodeJSONSerialization, "parameters are not JSON serializable").WithCause(cause)
}

// InvalidParameterShape creates an error for a parameters variant that does
// not fit the declared parameter type.
func InvalidParameterShape(expected, got string) *Error {
	return New(ErrCodeInvalidParameterShape, fmt.Sprintf("expected %s parameters, got %s", expected, got)).
		WithDetail("expected", expected).
		WithDetail("got", got)
}

// ParameterEncoding creates an error for a parameter that cannot be percent-encoded.
func ParameterEncoding(key string, value any) *Error {
	return New(ErrCodeParameterEncoding, fmt.Sprintf("couldn't encode value of %q: %v", key, value)).
		WithDetail("key", key)
}

// ResponseTypeMismatch creates an error for a body whose shape differs from the declared one.
func ResponseTypeMismatch(expected string, cause error) *Error {
	return New(ErrCodeResponseTypeMismatch, fmt.Sprintf("response does not match the declared type %s", expected)).
		WithCause(cause)
}

// Network creates an error for a non-2xx response.
func Network(statusCode int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP %d", statusCode)
	if text := http.StatusText(statusCode); text != "" {
		msg = fmt.Sprintf("HTTP %d %s", statusCode, text)
	}
	return &Error{Code: ErrCodeNetwork, Message: msg, StatusCode: statusCode, Body: body}
}

// Decode creates an error for a body that cannot be decoded into the declared type.
func Decode(cause error) *Error {
	msg := "unable to decode response"
	if cause != nil {
		msg = cause.Error()
	}
	return New(ErrCodeDecode, msg).WithCause(cause)
}

// Cancelled creates an error for a request cancelled before completion.
func Cancelled(cause error) *Error {
	return New(ErrCodeCancelled, "request cancelled").WithCause(cause)
}

// Generic creates an error for a transport failure with no more specific kind.
func Generic(message string, cause error) *Error {
	return New(ErrCodeGeneric, message).WithCause(cause)
}

// --- Inspection ---

// AsError converts an error to an *Error if possible.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err, or the empty code when err is not an *Error.
func CodeOf(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// HasCode checks if err is an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// StatusCode returns the HTTP status code carried by err, or zero.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.StatusCode
	}
	return 0
}
