package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/kbukum/jolt/errors"
)

var errEmptyBody = errors.New("empty response body")

// isSuccessStatus reports whether code is in the 2xx range.
func isSuccessStatus(code int) bool {
	return code >= 200 && code <= 299
}

// validateStatus returns a NETWORK error carrying the body for any non-2xx
// response.
func validateStatus(resp *Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return goerrors.Network(resp.StatusCode, resp.Body).WithDetail("url", resp.URL)
}

// decodeAs unmarshals a JSON body into T. A 204 No Content response yields
// the zero value of T; any other empty body is a DECODE error.
func decodeAs[T any](status int, body []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		if status == http.StatusNoContent {
			return out, nil
		}
		return out, goerrors.Decode(errEmptyBody)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, goerrors.Decode(err)
	}
	return out, nil
}

func decodeTyped[T any](resp *Response) (T, error) {
	return decodeAs[T](resp.StatusCode, resp.Body)
}

func decodeUntyped[T Value](resp *Response) (T, error) {
	return decodeValue[T](resp.Body)
}

// NoValue is the result of an untyped request whose body is discarded.
type NoValue struct{}

// Value is the closed set of result types accepted by the untyped
// operations (GetValue, PostValue, ...):
//
//	NoValue         body discarded
//	[]byte          body returned unchanged
//	map[string]any  JSON object
//	[]any           JSON array
//	string, float64, bool  JSON scalars
type Value interface {
	NoValue | []byte | map[string]any | []any | string | float64 | bool
}

// decodeValue parses body as generic JSON and checks that the result has
// the shape T declares.
func decodeValue[T Value](body []byte) (T, error) {
	var zero T
	switch any(zero).(type) {
	case NoValue:
		return zero, nil
	case []byte:
		return any(body).(T), nil
	}

	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return zero, goerrors.ResponseTypeMismatch(valueTypeName[T](), err)
	}
	v, ok := generic.(T)
	if !ok {
		return zero, goerrors.ResponseTypeMismatch(valueTypeName[T](),
			fmt.Errorf("got %s", jsonKind(generic)))
	}
	return v, nil
}

// valueResponseType is the default response type of an untyped operation:
// raw results send no Accept header.
func valueResponseType[T Value]() ResponseType {
	var zero T
	switch any(zero).(type) {
	case NoValue, []byte:
		return ResponseData
	}
	return ResponseJSON
}

func valueTypeName[T Value]() string {
	var zero T
	switch any(zero).(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return "data"
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
