package httpclient

import (
	"context"

	"github.com/xeipuuv/gojsonschema"

	goerrors "github.com/kbukum/jolt/errors"
)

// CallOption configures a single request.
type CallOption func(*callOptions)

type callOptions struct {
	parameterType *ParameterType
	parts         []MultipartPart
	responseType  *ResponseType
	schema        gojsonschema.JSONLoader
}

// WithParameterType overrides the parameter type picked from the verb.
func WithParameterType(pt ParameterType) CallOption {
	return func(o *callOptions) { o.parameterType = &pt }
}

// WithParts attaches multipart file parts. Parts force the multipart
// parameter type; Form parameters become the text fields.
func WithParts(parts ...MultipartPart) CallOption {
	return func(o *callOptions) { o.parts = append(o.parts, parts...) }
}

// WithResponseType overrides the expected response format.
func WithResponseType(rt ResponseType) CallOption {
	return func(o *callOptions) { o.responseType = &rt }
}

// ExpectSchema validates the response body against a JSON schema before it
// is decoded. A violation fails the request with RESPONSE_TYPE_MISMATCH.
func ExpectSchema(schema string) CallOption {
	return func(o *callOptions) { o.schema = gojsonschema.NewStringLoader(schema) }
}

// Get sends a GET request and decodes the JSON response into T. Parameters
// are form encoded into the query string unless WithParameterType says
// otherwise.
func Get[T any](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, GET, path, params, opts, ResponseJSON, decodeTyped[T])
}

// Post sends a POST request with JSON parameters by default and decodes
// the JSON response into T.
func Post[T any](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, POST, path, params, opts, ResponseJSON, decodeTyped[T])
}

// Put sends a PUT request and decodes the JSON response into T.
func Put[T any](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, PUT, path, params, opts, ResponseJSON, decodeTyped[T])
}

// Patch sends a PATCH request and decodes the JSON response into T.
func Patch[T any](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, PATCH, path, params, opts, ResponseJSON, decodeTyped[T])
}

// Delete sends a DELETE request and decodes the JSON response into T.
func Delete[T any](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, DELETE, path, params, opts, ResponseJSON, decodeTyped[T])
}

// GetValue sends a GET request and returns the response as an untyped
// Value. NoValue discards the body and []byte returns it unchanged.
func GetValue[T Value](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, GET, path, params, opts, valueResponseType[T](), decodeUntyped[T])
}

// PostValue is the untyped form of Post.
func PostValue[T Value](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, POST, path, params, opts, valueResponseType[T](), decodeUntyped[T])
}

// PutValue is the untyped form of Put.
func PutValue[T Value](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, PUT, path, params, opts, valueResponseType[T](), decodeUntyped[T])
}

// PatchValue is the untyped form of Patch.
func PatchValue[T Value](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, PATCH, path, params, opts, valueResponseType[T](), decodeUntyped[T])
}

// DeleteValue is the untyped form of Delete.
func DeleteValue[T Value](ctx context.Context, n *Network, path string, params Parameters, opts ...CallOption) *Future[T] {
	return execute(ctx, n, DELETE, path, params, opts, valueResponseType[T](), decodeUntyped[T])
}

// Do sends a request described by spec and returns the raw response. A
// non-2xx response fails with a NETWORK error and no Response; StatusCode
// and ResponseBody read the status and body from the error.
func Do(ctx context.Context, n *Network, spec RequestSpec) *Future[*Response] {
	if n == nil {
		return failedFuture[*Response](goerrors.Generic("httpclient: nil Network", nil))
	}
	snap := n.snapshot()
	ctx, cancel := context.WithCancel(ctx)
	f := newFuture[*Response](cancel)
	go func() {
		defer cancel()
		resp, err := n.dispatch(ctx, spec, snap)
		if err != nil {
			f.complete(nil, err)
			return
		}
		f.complete(resp, nil)
	}()
	return f
}

// execute builds the RequestSpec of a verb helper, snapshots the facade and
// runs the request on its own goroutine.
func execute[T any](
	ctx context.Context,
	n *Network,
	verb Verb,
	path string,
	params Parameters,
	opts []CallOption,
	defaultResponse ResponseType,
	decode func(*Response) (T, error),
) *Future[T] {
	if n == nil {
		return failedFuture[T](goerrors.Generic("httpclient: nil Network", nil))
	}

	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	spec := RequestSpec{
		Verb:          verb,
		Path:          path,
		ParameterType: verb.defaultParameterType(params),
		Parameters:    params,
		Parts:         o.parts,
		ResponseType:  defaultResponse,
	}
	if o.parameterType != nil {
		spec.ParameterType = *o.parameterType
	}
	if len(o.parts) > 0 {
		spec.ParameterType = Multipart
	}
	if o.responseType != nil {
		spec.ResponseType = *o.responseType
	}

	snap := n.snapshot()
	ctx, cancel := context.WithCancel(ctx)
	f := newFuture[T](cancel)

	go func() {
		defer cancel()
		var zero T

		resp, err := n.dispatch(ctx, spec, snap)
		if err != nil {
			f.complete(zero, err)
			return
		}

		if o.schema != nil {
			if err := validateSchema(o.schema, resp.Body); err != nil {
				n.logDecodeFailure(spec, resp, err)
				f.complete(zero, err)
				return
			}
		}

		value, err := decode(resp)
		if err != nil {
			n.logDecodeFailure(spec, resp, err)
			f.complete(zero, err)
			return
		}
		f.complete(value, nil)
	}()

	return f
}

func (n *Network) logDecodeFailure(spec RequestSpec, resp *Response, err error) {
	n.log.LogFailure(n.LogLevel(), Failure{
		Err:           err,
		URL:           resp.URL,
		ParameterType: spec.ParameterType,
		Parameters:    spec.Parameters,
		Response:      resp,
	})
}
