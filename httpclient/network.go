package httpclient

import (
	"context"
	"io"
	"maps"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	goerrors "github.com/kbukum/jolt/errors"
	"github.com/kbukum/jolt/logger"
	"github.com/kbukum/jolt/observability"
)

// Network is the request facade. It owns the session configuration (base
// URL, timeout, auth and session headers, log level) and dispatches every
// request on its own goroutine. It is safe for concurrent use; changes to
// its configuration affect only requests issued afterwards.
type Network struct {
	mu       sync.RWMutex
	baseURL  string
	timeout  time.Duration
	auth     *AuthHeader
	headers  map[string]string
	boundary string

	level atomic.Int32

	client    *http.Client
	transport Transport
	log       RequestLogger
	tracer    trace.Tracer
	metrics   *observability.ClientMetrics
}

// Option configures a Network at construction.
type Option func(*networkOptions)

type networkOptions struct {
	transport      Transport
	requestLogger  RequestLogger
	logger         *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTransport sends requests through t instead of the session client.
func WithTransport(t Transport) Option {
	return func(o *networkOptions) { o.transport = t }
}

// WithRequestLogger replaces the request logger.
func WithRequestLogger(l RequestLogger) Option {
	return func(o *networkOptions) { o.requestLogger = l }
}

// WithLogger writes the request log to l instead of the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *networkOptions) { o.logger = l }
}

// WithTracerProvider sets the provider of request spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *networkOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider of request metrics. Defaults to the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *networkOptions) { o.meterProvider = mp }
}

// New creates a Network from cfg.
func New(cfg Config, opts ...Option) (*Network, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o networkOptions
	for _, opt := range opts {
		opt(&o)
	}

	client, err := newHTTPClient(cfg.Session)
	if err != nil {
		return nil, err
	}

	n := &Network{
		baseURL:   cfg.BaseURL,
		timeout:   cfg.Timeout,
		headers:   maps.Clone(cfg.Headers),
		boundary:  newBoundary(),
		client:    client,
		transport: client,
	}
	n.level.Store(int32(cfg.level()))

	if o.transport != nil {
		n.transport = o.transport
	}

	n.log = o.requestLogger
	if n.log == nil {
		n.log = NewRequestLogger(o.logger)
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	n.tracer = tp.Tracer(observability.InstrumentationName)

	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if n.metrics, err = observability.NewClientMetrics(mp.Meter(observability.InstrumentationName)); err != nil {
		return nil, err
	}

	return n, nil
}

// BaseURL returns the base URL prepended to request paths.
func (n *Network) BaseURL() string {
	return n.baseURL
}

// Boundary returns the multipart boundary used by this Network.
func (n *Network) Boundary() string {
	return n.boundary
}

// SetSessionHeaders replaces the session headers.
func (n *Network) SetSessionHeaders(headers map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.headers = maps.Clone(headers)
}

// AddSessionHeaders merges headers into the session headers; new values
// win on conflict.
func (n *Network) AddSessionHeaders(headers map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	merged, err := mergeHeaders(n.headers, headers)
	if err != nil {
		return err
	}
	n.headers = merged
	return nil
}

// SessionHeaders returns a copy of the session headers.
func (n *Network) SessionHeaders() map[string]string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return maps.Clone(n.headers)
}

// SetBasicAuth sets "Authorization: Basic base64(username:password)",
// replacing any previous auth header.
func (n *Network) SetBasicAuth(username, password string) {
	n.SetAuthHeader(BasicAuth(username, password))
}

// SetBearerToken sets "Authorization: Bearer <token>", replacing any
// previous auth header.
func (n *Network) SetBearerToken(token string) {
	n.SetAuthHeader(BearerAuth(token))
}

// SetAuthHeader sets a custom auth header, replacing any previous one.
func (n *Network) SetAuthHeader(h AuthHeader) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.auth = &h
}

// ClearAuth removes the auth header.
func (n *Network) ClearAuth() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.auth = nil
}

// AuthHeader returns the current auth header and whether one is set.
func (n *Network) AuthHeader() (AuthHeader, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.auth == nil {
		return AuthHeader{}, false
	}
	return *n.auth, true
}

// SetTimeout sets the per-request timeout. Zero disables it.
func (n *Network) SetTimeout(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.timeout = d
}

// Timeout returns the per-request timeout.
func (n *Network) Timeout() time.Duration {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.timeout
}

// SetLogLevel changes the request log verbosity.
func (n *Network) SetLogLevel(level LogLevel) {
	n.level.Store(int32(level))
}

// LogLevel returns the request log verbosity.
func (n *Network) LogLevel() LogLevel {
	return LogLevel(n.level.Load())
}

// Close releases idle connections of the session.
func (n *Network) Close() {
	n.client.CloseIdleConnections()
}

func (n *Network) snapshot() snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s := snapshot{
		baseURL:  n.baseURL,
		timeout:  n.timeout,
		headers:  maps.Clone(n.headers),
		boundary: n.boundary,
	}
	if n.auth != nil {
		auth := *n.auth
		s.auth = &auth
	}
	return s
}

// dispatch builds, sends and status-checks one request. The returned
// Response is set whenever the server answered, even with a non-2xx status,
// so the failure log can show it; callers outside this file drop it on error.
func (n *Network) dispatch(ctx context.Context, spec RequestSpec, snap snapshot) (*Response, error) {
	level := n.LogLevel()

	built, err := build(ctx, spec, snap)
	if err != nil {
		n.log.LogFailure(level, Failure{
			Err:           err,
			URL:           snap.baseURL + spec.Path,
			ParameterType: spec.ParameterType,
			Parameters:    spec.Parameters,
		})
		return nil, err
	}
	defer built.cancel()

	req := built.req
	target := req.URL.String()
	method := req.Method

	ctx, span := observability.StartClientSpan(req.Context(), n.tracer, method, target)
	req = req.WithContext(ctx)
	observability.InjectHeaders(ctx, req.Header)

	n.metrics.RecordRequestStart(ctx)
	start := time.Now()

	resp, err := n.roundTrip(ctx, req, built.body, level)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	code := string(goerrors.CodeOf(err))
	observability.EndClientSpan(span, status, code, err)
	n.metrics.RecordRequestEnd(ctx, method, code, status, time.Since(start))

	if err != nil {
		n.log.LogFailure(level, Failure{
			Err:           err,
			URL:           target,
			Headers:       req.Header,
			ParameterType: spec.ParameterType,
			Parameters:    spec.Parameters,
			Response:      resp,
		})
		return resp, err
	}
	return resp, nil
}

// roundTrip sends req, reads the whole body and validates the status.
func (n *Network) roundTrip(ctx context.Context, req *http.Request, body []byte, level LogLevel) (*Response, error) {
	n.log.LogRequest(level, req, body)

	httpResp, err := n.transport.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       data,
		URL:        req.URL.String(),
	}
	n.log.LogResponse(level, req, resp)

	return resp, validateStatus(resp)
}
