package httpclient

import (
	"net/http"
	"strconv"

	goerrors "github.com/kbukum/jolt/errors"
)

// Error is the error type of every failed request.
type Error = goerrors.Error

// IsPreDispatch reports whether err was raised while building the request,
// so nothing was sent.
func IsPreDispatch(err error) bool {
	return goerrors.IsPreDispatchCode(goerrors.CodeOf(err))
}

// IsNetwork reports whether err is a non-2xx response.
func IsNetwork(err error) bool {
	return goerrors.HasCode(err, goerrors.ErrCodeNetwork)
}

// IsDecode reports whether the response body could not be decoded.
func IsDecode(err error) bool {
	return goerrors.HasCode(err, goerrors.ErrCodeDecode)
}

// IsResponseTypeMismatch reports whether the response body did not have
// the declared shape.
func IsResponseTypeMismatch(err error) bool {
	return goerrors.HasCode(err, goerrors.ErrCodeResponseTypeMismatch)
}

// IsCancelled reports whether the request was cancelled.
func IsCancelled(err error) bool {
	return goerrors.HasCode(err, goerrors.ErrCodeCancelled)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return IsNetwork(err) && goerrors.StatusCode(err) == 404
}

// IsUnauthorized reports whether err is a 401 or 403 response.
func IsUnauthorized(err error) bool {
	code := goerrors.StatusCode(err)
	return IsNetwork(err) && (code == 401 || code == 403)
}

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool {
	return IsNetwork(err) && goerrors.StatusCode(err) >= 500
}

// StatusCode returns the HTTP status of a NETWORK error, or zero.
func StatusCode(err error) int {
	return goerrors.StatusCode(err)
}

// ResponseBody returns the body that came with a NETWORK error, or nil.
func ResponseBody(err error) []byte {
	if e, ok := goerrors.AsError(err); ok {
		return e.Body
	}
	return nil
}

// ErrorResponse rebuilds the response carried by a NETWORK error, or
// returns nil for any other error. Response headers are not kept.
func ErrorResponse(err error) *Response {
	e, ok := goerrors.AsError(err)
	if !ok || e.Code != goerrors.ErrCodeNetwork {
		return nil
	}
	resp := &Response{
		StatusCode: e.StatusCode,
		Status:     strconv.Itoa(e.StatusCode),
		Body:       e.Body,
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		resp.Status += " " + text
	}
	if u, ok := e.Details["url"].(string); ok {
		resp.URL = u
	}
	return resp
}
