package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request construction errors. These are raised before anything is sent.
const (
	// ErrCodeUnableToComposeURL indicates base URL and path do not form a valid URL.
	ErrCodeUnableToComposeURL ErrorCode = "UNABLE_TO_COMPOSE_URL"
	// ErrCodeJSONSerialization indicates parameters could not be encoded as JSON.
	ErrCodeJSONSerialization ErrorCode = "JSON_SERIALIZATION"
	// ErrCodeInvalidParameterShape indicates the parameters variant does not
	// fit the declared parameter type (e.g. a mapping was expected).
	ErrCodeInvalidParameterShape ErrorCode = "INVALID_PARAMETER_SHAPE"
	// ErrCodeParameterEncoding indicates a parameter value could not be percent-encoded.
	ErrCodeParameterEncoding ErrorCode = "PARAMETER_ENCODING"
)

// Response errors.
const (
	// ErrCodeResponseTypeMismatch indicates the response body does not have the declared shape.
	ErrCodeResponseTypeMismatch ErrorCode = "RESPONSE_TYPE_MISMATCH"
	// ErrCodeNetwork indicates a non-2xx status code.
	ErrCodeNetwork ErrorCode = "NETWORK"
	// ErrCodeDecode indicates the body could not be decoded into the declared type.
	ErrCodeDecode ErrorCode = "DECODE"
)

// Transport errors.
const (
	// ErrCodeCancelled indicates the request was cancelled before completion.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeGeneric covers transport failures without a more specific kind
	// (connection refused, DNS, deadline exceeded, unreadable body).
	ErrCodeGeneric ErrorCode = "GENERIC"
)

var preDispatchCodes = map[ErrorCode]bool{
	ErrCodeUnableToComposeURL:    true,
	ErrCodeJSONSerialization:     true,
	ErrCodeInvalidParameterShape: true,
	ErrCodeParameterEncoding:     true,
}

// IsPreDispatchCode returns true if errors with this code are raised while
// building a request, before it reaches the transport.
func IsPreDispatchCode(code ErrorCode) bool {
	return preDispatchCodes[code]
}

// Codes lists every code of the taxonomy.
func Codes() []ErrorCode {
	return []ErrorCode{
		ErrCodeUnableToComposeURL,
		ErrCodeJSONSerialization,
		ErrCodeInvalidParameterShape,
		ErrCodeParameterEncoding,
		ErrCodeResponseTypeMismatch,
		ErrCodeNetwork,
		ErrCodeDecode,
		ErrCodeCancelled,
		ErrCodeGeneric,
	}
}
