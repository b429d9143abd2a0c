package httpclient

import "net/http"

// Verb is the HTTP method of a request.
type Verb string

const (
	GET    Verb = http.MethodGet
	POST   Verb = http.MethodPost
	PUT    Verb = http.MethodPut
	PATCH  Verb = http.MethodPatch
	DELETE Verb = http.MethodDelete
)

// carriesQuery reports whether form parameters go into the query string
// rather than the body.
func (v Verb) carriesQuery() bool {
	return v == GET || v == DELETE
}

// defaultParameterType picks the parameter type used when the caller does
// not set one.
func (v Verb) defaultParameterType(params Parameters) ParameterType {
	if v.carriesQuery() {
		if params == nil {
			return NoParameters
		}
		return FormURLEncoded
	}
	return JSONParameters
}

// ResponseType declares the expected response format.
type ResponseType int

const (
	// ResponseJSON adds "Accept: application/json" to the request.
	ResponseJSON ResponseType = iota
	// ResponseData sends no Accept header.
	ResponseData
)

// String returns the response type name.
func (r ResponseType) String() string {
	if r == ResponseData {
		return "data"
	}
	return "json"
}

// RequestSpec is the full description of one request. It is built per call
// and not modified after construction.
type RequestSpec struct {
	Verb          Verb
	Path          string
	ParameterType ParameterType
	Parameters    Parameters
	Parts         []MultipartPart
	ResponseType  ResponseType
}

// Response is the raw result of a dispatched request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status line, e.g. "404 Not Found".
	Status string
	// Headers are the response headers.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
	// URL is the final request URL.
	URL string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return isSuccessStatus(r.StatusCode)
}
