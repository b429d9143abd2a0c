package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/kbukum/jolt/errors"
)

// snapshot is the facade configuration captured when a request is built.
// Later configuration changes do not affect requests already built.
type snapshot struct {
	baseURL  string
	timeout  time.Duration
	auth     *AuthHeader
	headers  map[string]string
	boundary string
}

// builtRequest is a request ready for dispatch.
type builtRequest struct {
	req    *http.Request
	body   []byte
	cancel context.CancelFunc
}

// build composes the *http.Request described by spec. No request is
// produced when the URL or the parameters cannot be encoded.
func build(ctx context.Context, spec RequestSpec, snap snapshot) (*builtRequest, error) {
	spec.Path = encodePath(spec.Path)

	enc, err := encodeParameters(spec, snap.boundary)
	if err != nil {
		return nil, err
	}

	target, err := composeURL(snap.baseURL, enc.path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if enc.body != nil {
		body = bytes.NewReader(enc.body)
	}

	cancel := context.CancelFunc(func() {})
	if snap.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, snap.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, string(spec.Verb), target, body)
	if err != nil {
		cancel()
		return nil, goerrors.UnableToComposeURL(target).WithCause(err)
	}

	if ct := spec.ParameterType.ContentType(snap.boundary); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if spec.ResponseType == ResponseJSON {
		req.Header.Set("Accept", "application/json")
	}
	snap.auth.apply(req)
	for k, v := range snap.headers {
		req.Header.Set(k, v)
	}

	return &builtRequest{req: req, body: enc.body, cancel: cancel}, nil
}

// composeURL joins the base URL and path. A path that already is an
// absolute http(s) URL is used as is. The result must be a legal URL
// string; characters encodePath left unescaped are rejected.
func composeURL(baseURL, path string) (string, error) {
	target := path
	if !isAbsoluteURL(path) {
		target = baseURL + path
	}
	if !isURLString(target) {
		return "", goerrors.UnableToComposeURL(target)
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", goerrors.UnableToComposeURL(target).WithCause(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", goerrors.UnableToComposeURL(target)
	}
	return target, nil
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
