package httpclient

import (
	"context"
	"errors"
	"net/http"

	goerrors "github.com/kbukum/jolt/errors"
)

//go:generate mockgen -source=transport.go -destination=mocks/transport_mock.go -package=mocks

// Transport sends a request and returns its response. *http.Client
// satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// transportError maps a failed round trip to the error taxonomy. A
// cancelled context is reported as CANCELLED, everything else as GENERIC.
func transportError(ctx context.Context, err error) error {
	if e, ok := goerrors.AsError(err); ok {
		return e
	}
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return goerrors.Cancelled(err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return goerrors.Generic("request timed out", err)
	default:
		return goerrors.Generic(err.Error(), err)
	}
}
