package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	goerrors "github.com/kbukum/jolt/errors"
	"github.com/kbukum/jolt/httpclient/mocks"
	"github.com/kbukum/jolt/logger"
	"github.com/kbukum/jolt/observability"
)

// captured is what the test server saw of the last request.
type captured struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type testServer struct {
	*httptest.Server
	mu   sync.Mutex
	last captured
}

func (s *testServer) lastRequest() captured {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.last = captured{Method: r.Method, URL: r.URL.RequestURI(), Headers: r.Header.Clone(), Body: body}
		ts.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestNetwork(t *testing.T, baseURL string, opts ...Option) *Network {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	n, err := New(Config{BaseURL: baseURL}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(n.Close)
	return n
}

func await[T any](t *testing.T, f *Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.Await(ctx)
}

func mustSucceed(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected an error for an empty base URL")
	}
	if _, err := New(Config{BaseURL: "https://x.io", Session: SessionConfig{Proxy: "http://[::1"}}); err == nil {
		t.Error("expected an error for a malformed proxy")
	}
}

func TestGet_DecodesIntoDeclaredShape(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "name": "Leanne Graham", "email": "Sincere@april.biz", "phone": "1-770"})
	})
	n := newTestNetwork(t, srv.URL)

	u, err := await(t, Get[user](context.Background(), n, "/users/1", nil))
	mustSucceed(t, err)
	if want := (user{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz"}); u != want {
		t.Errorf("decoded %+v, want %+v", u, want)
	}

	last := srv.lastRequest()
	if last.Method != "GET" || last.URL != "/users/1" {
		t.Errorf("server saw %s %s", last.Method, last.URL)
	}
	if got := last.Headers.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
	if got := last.Headers.Get("Content-Type"); got != "" {
		t.Errorf("Content-Type = %q, want none", got)
	}
}

func TestGet_FormParametersInQuery(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	n := newTestNetwork(t, srv.URL)

	_, err := await(t, GetValue[[]any](context.Background(), n, "/posts", Form{"userId": 1, "q": "a b"}))
	mustSucceed(t, err)
	if got := srv.lastRequest().URL; got != "/posts?q=a%20b&userId=1" {
		t.Errorf("URL = %q", got)
	}
}

func TestGet_EmptySuccessBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	n := newTestNetwork(t, srv.URL)

	u, err := await(t, Get[user](context.Background(), n, "/users/1", nil))
	if !IsDecode(err) {
		t.Fatalf("expected DECODE for an empty 200 body, got %v", err)
	}
	if u != (user{}) {
		t.Errorf("decoded %+v from an empty body", u)
	}
}

func TestPost_NoneSendsNoBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
	})
	n := newTestNetwork(t, srv.URL)

	_, err := await(t, Post[map[string]bool](context.Background(), n, "/posts",
		Form{"title": "ignored"}, WithParameterType(NoParameters)))
	mustSucceed(t, err)

	last := srv.lastRequest()
	if len(last.Body) != 0 {
		t.Errorf("body = %q, want none", last.Body)
	}
	if got := last.Headers.Get("Content-Type"); got != "" {
		t.Errorf("Content-Type = %q, want none", got)
	}
}

func TestPost_JSONBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		in["id"] = 101
		writeJSON(w, http.StatusCreated, in)
	})
	n := newTestNetwork(t, srv.URL)

	out, err := await(t, Post[map[string]any](context.Background(), n, "/posts", Form{"title": "foo", "userId": 1}))
	mustSucceed(t, err)
	if out["id"] != float64(101) || out["title"] != "foo" {
		t.Errorf("response = %v", out)
	}

	last := srv.lastRequest()
	if got := last.Headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	var sent map[string]any
	if err := json.Unmarshal(last.Body, &sent); err != nil {
		t.Fatalf("body %q is not JSON: %v", last.Body, err)
	}
	if want := map[string]any{"title": "foo", "userId": float64(1)}; !reflect.DeepEqual(sent, want) {
		t.Errorf("sent %v, want %v", sent, want)
	}
}

func TestPutAndPatch(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"method": r.Method})
	})
	n := newTestNetwork(t, srv.URL)
	ctx := context.Background()

	put, err := await(t, Put[map[string]string](ctx, n, "/posts/1", JSON(map[string]any{"id": 1})))
	mustSucceed(t, err)
	if put["method"] != "PUT" {
		t.Errorf("put = %v", put)
	}

	patch, err := await(t, PatchValue[map[string]any](ctx, n, "/posts/1", Form{"title": "x"},
		WithParameterType(FormURLEncoded)))
	mustSucceed(t, err)
	if patch["method"] != "PATCH" {
		t.Errorf("patch = %v", patch)
	}

	last := srv.lastRequest()
	if string(last.Body) != "title=x" {
		t.Errorf("body = %q", last.Body)
	}
	if got := last.Headers.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestDelete_ParametersInQuery(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	n := newTestNetwork(t, srv.URL)

	_, err := await(t, DeleteValue[NoValue](context.Background(), n, "/delete", Form{"userId": 25}))
	mustSucceed(t, err)

	last := srv.lastRequest()
	if last.Method != "DELETE" || last.URL != "/delete?userId=25" {
		t.Errorf("server saw %s %s", last.Method, last.URL)
	}
	if got := last.Headers.Get("Accept"); got != "" {
		t.Errorf("raw results send no Accept header, got %q", got)
	}
}

func TestDelete_NoContent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	n := newTestNetwork(t, srv.URL)

	out, err := await(t, Delete[map[string]any](context.Background(), n, "/posts/1", nil))
	mustSucceed(t, err)
	if out != nil {
		t.Errorf("204 decoded to %v, want nil map", out)
	}
}

func TestAuth_BearerThenBasicReplaces(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	n := newTestNetwork(t, srv.URL)
	ctx := context.Background()

	authValues := func() []string { return srv.lastRequest().Headers.Values("Authorization") }

	n.SetBearerToken("tkn")
	_, err := await(t, GetValue[NoValue](ctx, n, "/a", nil))
	mustSucceed(t, err)
	if got := authValues(); !reflect.DeepEqual(got, []string{"Bearer tkn"}) {
		t.Errorf("Authorization = %v", got)
	}

	n.SetBasicAuth("user", "pass")
	_, err = await(t, GetValue[NoValue](ctx, n, "/a", nil))
	mustSucceed(t, err)
	if got := authValues(); !reflect.DeepEqual(got, []string{"Basic dXNlcjpwYXNz"}) {
		t.Errorf("Authorization = %v", got)
	}

	if h, ok := n.AuthHeader(); !ok || h != BasicAuth("user", "pass") {
		t.Errorf("AuthHeader = %+v, %v", h, ok)
	}

	n.ClearAuth()
	_, err = await(t, GetValue[NoValue](ctx, n, "/a", nil))
	mustSucceed(t, err)
	if got := authValues(); len(got) != 0 {
		t.Errorf("Authorization after ClearAuth = %v", got)
	}

	n.SetAuthHeader(CustomAuth("X-API-Key", "k"))
	_, err = await(t, GetValue[NoValue](ctx, n, "/a", nil))
	mustSucceed(t, err)
	if got := srv.lastRequest().Headers.Get("X-API-Key"); got != "k" {
		t.Errorf("X-API-Key = %q", got)
	}
}

func TestSessionHeaders(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	n, err := New(Config{BaseURL: srv.URL, Headers: map[string]string{"X-App": "jolt"}}, WithLogger(logger.NewNop()))
	mustSucceed(t, err)
	defer n.Close()
	ctx := context.Background()

	_, err = await(t, GetValue[NoValue](ctx, n, "/", nil))
	mustSucceed(t, err)
	if got := srv.lastRequest().Headers.Get("X-App"); got != "jolt" {
		t.Errorf("X-App = %q", got)
	}

	mustSucceed(t, n.AddSessionHeaders(map[string]string{"X-App": "v2", "X-Trace": "1"}))
	if got := n.SessionHeaders(); !reflect.DeepEqual(got, map[string]string{"X-App": "v2", "X-Trace": "1"}) {
		t.Errorf("SessionHeaders = %v", got)
	}

	_, err = await(t, GetValue[NoValue](ctx, n, "/", nil))
	mustSucceed(t, err)
	last := srv.lastRequest()
	if last.Headers.Get("X-App") != "v2" || last.Headers.Get("X-Trace") != "1" {
		t.Errorf("headers = %v", last.Headers)
	}

	n.SetSessionHeaders(map[string]string{"X-Only": "y"})
	_, err = await(t, GetValue[NoValue](ctx, n, "/", nil))
	mustSucceed(t, err)
	last = srv.lastRequest()
	if last.Headers.Get("X-App") != "" || last.Headers.Get("X-Only") != "y" {
		t.Errorf("headers after replace = %v", last.Headers)
	}
}

func TestSnapshot_IsolatedFromLaterChanges(t *testing.T) {
	n := newTestNetwork(t, "https://api.example.com")
	n.SetSessionHeaders(map[string]string{"A": "1"})
	n.SetBearerToken("one")
	n.SetTimeout(time.Second)

	snap := n.snapshot()

	n.SetSessionHeaders(map[string]string{"A": "2"})
	n.SetBearerToken("two")
	n.SetTimeout(time.Minute)

	if snap.headers["A"] != "1" {
		t.Errorf("snapshot header A = %q", snap.headers["A"])
	}
	if snap.auth.Value != "Bearer one" {
		t.Errorf("snapshot auth = %q", snap.auth.Value)
	}
	if snap.timeout != time.Second {
		t.Errorf("snapshot timeout = %v", snap.timeout)
	}
	if snap.boundary != n.Boundary() {
		t.Errorf("snapshot boundary = %q", snap.boundary)
	}
}

func TestNetwork_StatusErrorCarriesBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such user", http.StatusNotFound)
	})
	n := newTestNetwork(t, srv.URL)

	_, err := await(t, Get[user](context.Background(), n, "/users/999", nil))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsNetwork(err) || !IsNotFound(err) || IsPreDispatch(err) {
		t.Errorf("unexpected classification of %v", err)
	}
	if StatusCode(err) != 404 {
		t.Errorf("StatusCode = %d", StatusCode(err))
	}
	if got := string(ResponseBody(err)); got != "no such user\n" {
		t.Errorf("ResponseBody = %q", got)
	}
	if !errors.Is(err, &Error{Code: goerrors.ErrCodeNetwork, StatusCode: 404}) {
		t.Errorf("errors.Is did not match %v", err)
	}
}

func TestNetwork_DecodeError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"not a number"}`))
	})
	n := newTestNetwork(t, srv.URL)

	if _, err := await(t, Get[user](context.Background(), n, "/users/1", nil)); !IsDecode(err) {
		t.Errorf("expected DECODE, got %v", err)
	}
}

func TestNetwork_ValueTypes(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/object":
			_, _ = w.Write([]byte(`{"a":1}`))
		case "/array":
			_, _ = w.Write([]byte(`[1,2,3]`))
		case "/text":
			_, _ = w.Write([]byte(`plain text`))
		}
	})
	n := newTestNetwork(t, srv.URL)
	ctx := context.Background()

	obj, err := await(t, GetValue[map[string]any](ctx, n, "/object", nil))
	mustSucceed(t, err)
	if !reflect.DeepEqual(obj, map[string]any{"a": float64(1)}) {
		t.Errorf("object = %v", obj)
	}

	if _, err := await(t, GetValue[map[string]any](ctx, n, "/array", nil)); !IsResponseTypeMismatch(err) {
		t.Errorf("array as object: got %v", err)
	}

	raw, err := await(t, GetValue[[]byte](ctx, n, "/text", nil))
	mustSucceed(t, err)
	if string(raw) != "plain text" {
		t.Errorf("raw = %q", raw)
	}

	if _, err := await(t, PostValue[string](ctx, n, "/text", nil)); !IsResponseTypeMismatch(err) {
		t.Errorf("text as string: got %v", err)
	}
}

func TestNetwork_ExpectSchema(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	n := newTestNetwork(t, srv.URL)

	_, err := await(t, Get[user](context.Background(), n, "/users/1", nil, ExpectSchema(userSchema)))
	if !IsResponseTypeMismatch(err) {
		t.Errorf("expected RESPONSE_TYPE_MISMATCH, got %v", err)
	}

	_, err = await(t, Get[user](context.Background(), n, "/users/1", nil,
		ExpectSchema(`{"type":"object","required":["id"]}`)))
	if err != nil {
		t.Errorf("matching schema failed: %v", err)
	}
}

func TestNetwork_MultipartUpload(t *testing.T) {
	var (
		mu      sync.Mutex
		title   string
		content string
	)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		title = r.FormValue("title")
		f, _, err := r.FormFile("file")
		if err == nil {
			data, _ := io.ReadAll(f)
			content = string(data)
		}
		w.WriteHeader(http.StatusOK)
	})
	n := newTestNetwork(t, srv.URL)

	_, err := await(t, PostValue[NoValue](context.Background(), n, "/upload", Form{"title": "cat"},
		WithParts(NewPart("file", "cat.txt", []byte("meow")))))
	mustSucceed(t, err)

	mu.Lock()
	defer mu.Unlock()
	if title != "cat" || content != "meow" {
		t.Errorf("server read title=%q content=%q", title, content)
	}
	if got := srv.lastRequest().Headers.Get("Content-Type"); got != "multipart/form-data; boundary="+n.Boundary() {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestNetwork_CustomBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	n := newTestNetwork(t, srv.URL)

	_, err := await(t, PutValue[NoValue](context.Background(), n, "/csv", Raw("a,b\n1,2"),
		WithParameterType(Custom("text/csv")), WithResponseType(ResponseJSON)))
	mustSucceed(t, err)

	last := srv.lastRequest()
	if string(last.Body) != "a,b\n1,2" {
		t.Errorf("body = %q", last.Body)
	}
	if got := last.Headers.Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := last.Headers.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
}

func TestNetwork_CancelledRequest(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	var buf syncBuffer
	n := newTestNetwork(t, srv.URL, WithLogger(logger.NewWithWriter(&buf, &logger.Config{Level: "info", Format: "json"}, "jolt")))
	n.SetLogLevel(LogVerbose)

	f := Get[user](context.Background(), n, "/slow", nil)
	time.Sleep(50 * time.Millisecond)
	f.Cancel()

	if _, err := await(t, f); !IsCancelled(err) {
		t.Errorf("expected CANCELLED, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Cancelled request: "+srv.URL+"/slow") {
		t.Errorf("missing cancellation line in %q", out)
	}
	if strings.Contains(out, "Error code") {
		t.Errorf("cancellation logged an error block: %q", out)
	}
}

func TestNetwork_CallerContextCancel(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	n := newTestNetwork(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := await(t, GetValue[NoValue](ctx, n, "/", nil)); !IsCancelled(err) {
		t.Errorf("expected CANCELLED, got %v", err)
	}
}

func TestNetwork_Timeout(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	n := newTestNetwork(t, srv.URL)
	n.SetTimeout(20 * time.Millisecond)
	if n.Timeout() != 20*time.Millisecond {
		t.Errorf("Timeout = %v", n.Timeout())
	}

	_, err := await(t, GetValue[NoValue](context.Background(), n, "/", nil))
	if !goerrors.HasCode(err, goerrors.ErrCodeGeneric) || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected a GENERIC timeout, got %v", err)
	}
}

func TestAwait_ContextDone(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)
	n := newTestNetwork(t, srv.URL)

	f := GetValue[NoValue](context.Background(), n, "/", nil)
	defer f.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := f.Await(ctx); !IsCancelled(err) {
		t.Errorf("expected CANCELLED, got %v", err)
	}

	select {
	case <-f.Done():
		t.Fatal("giving up on Await must not complete the request")
	default:
	}
}

func TestNetwork_BuildFailureNeverReachesTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockTransport(ctrl)
	// No EXPECT: any call to Do fails the test.

	n := newTestNetwork(t, "https://api.example.com", WithTransport(transport))

	_, err := await(t, Post[user](context.Background(), n, "/p", Raw("x")))
	if !goerrors.HasCode(err, goerrors.ErrCodeInvalidParameterShape) || !IsPreDispatch(err) {
		t.Errorf("expected INVALID_PARAMETER_SHAPE, got %v", err)
	}

	_, err = await(t, Get[user](context.Background(), n, "/p", Form{"bad": "\xff"}))
	if !goerrors.HasCode(err, goerrors.ErrCodeParameterEncoding) {
		t.Errorf("expected PARAMETER_ENCODING, got %v", err)
	}

	_, err = await(t, Get[user](context.Background(), n, "/a b/c", nil))
	if !goerrors.HasCode(err, goerrors.ErrCodeUnableToComposeURL) {
		t.Errorf("expected UNABLE_TO_COMPOSE_URL for a path with a space, got %v", err)
	}
}

func TestNetwork_UnableToComposeURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := newTestNetwork(t, "https://api.example.com", WithTransport(mocks.NewMockTransport(ctrl)))
	n.baseURL = "::"

	_, err := await(t, Get[user](context.Background(), n, "/x", nil))
	if !goerrors.HasCode(err, goerrors.ErrCodeUnableToComposeURL) {
		t.Errorf("expected UNABLE_TO_COMPOSE_URL, got %v", err)
	}
}

func TestNetwork_TransportErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockTransport(ctrl)
	n := newTestNetwork(t, "https://api.example.com", WithTransport(transport))
	ctx := context.Background()

	transport.EXPECT().Do(gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))
	_, err := await(t, GetValue[NoValue](ctx, n, "/", nil))
	if !goerrors.HasCode(err, goerrors.ErrCodeGeneric) || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected GENERIC connection refused, got %v", err)
	}

	transport.EXPECT().Do(gomock.Any()).Return(nil, context.Canceled)
	if _, err := await(t, GetValue[NoValue](ctx, n, "/", nil)); !IsCancelled(err) {
		t.Errorf("expected CANCELLED, got %v", err)
	}
}

func TestNetwork_MockedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockTransport(ctrl)
	n := newTestNetwork(t, "https://api.example.com", WithTransport(transport))
	n.SetBearerToken("t")

	transport.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			if got := req.URL.String(); got != "https://api.example.com/users/1" {
				t.Errorf("URL = %q", got)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer t" {
				t.Errorf("Authorization = %q", got)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Status:     "200 OK",
				Header:     http.Header{"Content-Type": {"application/json"}},
				Body:       io.NopCloser(strings.NewReader(`{"id":1,"name":"x"}`)),
				Request:    req,
			}, nil
		})

	u, err := await(t, Get[user](context.Background(), n, "/users/1", nil))
	mustSucceed(t, err)
	if u != (user{ID: 1, Name: "x"}) {
		t.Errorf("decoded %+v", u)
	}
}

func TestDo_RawResponse(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Reply", "yes")
		if r.URL.Path == "/tea" {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
			return
		}
		_, _ = w.Write([]byte("brewed"))
	})
	n := newTestNetwork(t, srv.URL)
	ctx := context.Background()

	resp, err := await(t, Do(ctx, n, RequestSpec{Verb: GET, Path: "/coffee", ResponseType: ResponseData}))
	mustSucceed(t, err)
	if resp == nil || !resp.IsSuccess() {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Headers.Get("X-Reply") != "yes" || string(resp.Body) != "brewed" {
		t.Errorf("resp = %+v", resp)
	}

	resp, err = await(t, Do(ctx, n, RequestSpec{Verb: GET, Path: "/tea", ResponseType: ResponseData}))
	if err == nil {
		t.Fatal("expected an error for 418")
	}
	if resp != nil {
		t.Errorf("failed Do returned a response alongside %v: %+v", err, resp)
	}
	if StatusCode(err) != http.StatusTeapot {
		t.Errorf("StatusCode = %d", StatusCode(err))
	}
	if got := string(ResponseBody(err)); got != "short and stout" {
		t.Errorf("ResponseBody = %q", got)
	}

	failed := ErrorResponse(err)
	if failed == nil {
		t.Fatal("ErrorResponse returned nil for a NETWORK error")
	}
	if failed.Status != "418 I'm a teapot" || failed.URL != srv.URL+"/tea" || string(failed.Body) != "short and stout" {
		t.Errorf("ErrorResponse = %+v", failed)
	}
}

func TestNilNetwork(t *testing.T) {
	_, err := await(t, Get[user](context.Background(), nil, "/", nil))
	if !goerrors.HasCode(err, goerrors.ErrCodeGeneric) {
		t.Errorf("expected GENERIC, got %v", err)
	}
}

func TestNetwork_LogNoneWritesNothing(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	var buf syncBuffer
	n := newTestNetwork(t, srv.URL, WithLogger(logger.NewWithWriter(&buf, &logger.Config{Level: "debug", Format: "json"}, "jolt")))
	if n.LogLevel() != LogNone {
		t.Fatalf("default LogLevel = %v", n.LogLevel())
	}
	ctx := context.Background()

	_, _ = await(t, Get[user](ctx, n, "/ok", Form{"a": 1}))
	_, _ = await(t, Post[user](ctx, n, "/fail", JSON([]int{1})))
	_, _ = await(t, GetValue[[]any](ctx, n, "/ok", nil))
	_, _ = await(t, Post[user](ctx, n, "/x", Raw("bad shape")))

	if out := buf.String(); out != "" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNetwork_LogInformative(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})
	var buf syncBuffer
	l := logger.NewWithWriter(&buf, &logger.Config{Level: "info", Format: "json"}, "jolt")
	n, err := New(Config{BaseURL: srv.URL, LogLevel: "informative"}, WithLogger(l))
	mustSucceed(t, err)
	defer n.Close()

	if _, err := await(t, Post[user](context.Background(), n, "/users", Form{"name": "x"})); err == nil {
		t.Fatal("expected an error for 500")
	}

	out := buf.String()
	for _, want := range []string{
		"Request action: POST, to url: " + srv.URL + "/users",
		"Response status code: 500 for url: " + srv.URL + "/users",
		"Error code: NETWORK",
		"Data: boom",
		"Response status: 500 Internal Server Error",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log is missing %q", want)
		}
	}
}

func TestNetwork_Telemetry(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	n := newTestNetwork(t, srv.URL, WithTracerProvider(tp), WithMeterProvider(mp))
	ctx := context.Background()

	_, err := await(t, GetValue[NoValue](ctx, n, "/ok", nil))
	mustSucceed(t, err)
	if _, err := await(t, GetValue[NoValue](ctx, n, "/missing", nil)); err == nil {
		t.Fatal("expected an error for 404")
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Name != "HTTP GET" {
		t.Errorf("span name = %q", spans[0].Name)
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("successful request span has error status")
	}
	if spans[1].Status.Code != codes.Error {
		t.Errorf("404 span status = %v", spans[1].Status.Code)
	}

	var rm metricdata.ResourceMetrics
	mustSucceed(t, reader.Collect(ctx, &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != observability.MetricRequestTotal {
				continue
			}
			for _, dp := range md.Data.(metricdata.Sum[int64]).DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 2 {
		t.Errorf("%s = %d, want 2", observability.MetricRequestTotal, total)
	}
}

func TestNetwork_ConcurrentUse(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	n := newTestNetwork(t, srv.URL)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := await(t, Get[user](ctx, n, "/users/1", nil)); err != nil {
				t.Errorf("concurrent Get: %v", err)
			}
		}()
		go func(i int) {
			defer wg.Done()
			n.SetBearerToken("t")
			_ = n.AddSessionHeaders(map[string]string{"X-I": "v"})
			n.SetLogLevel(LogLevel(i % 2))
		}(i)
	}
	wg.Wait()
}

func TestNetwork_Accessors(t *testing.T) {
	n := newTestNetwork(t, "https://api.example.com")
	if n.BaseURL() != "https://api.example.com" {
		t.Errorf("BaseURL = %q", n.BaseURL())
	}
	if !strings.HasPrefix(n.Boundary(), "Boundary-") {
		t.Errorf("Boundary = %q", n.Boundary())
	}
	if _, ok := n.AuthHeader(); ok {
		t.Error("fresh Network has an auth header")
	}
	n.SetLogLevel(LogVerbose)
	if n.LogLevel() != LogVerbose {
		t.Errorf("LogLevel = %v", n.LogLevel())
	}
}

// syncBuffer is a bytes.Buffer safe for the request goroutine to write
// while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
