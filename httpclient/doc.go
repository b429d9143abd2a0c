// Package httpclient is a convenience layer over net/http. A Network holds
// the session configuration (base URL, timeout, auth and session headers,
// log level) and sends requests through typed verb helpers that run on
// their own goroutine and return a Future.
//
// # Basic Usage
//
//	n, err := httpclient.New(httpclient.Config{
//	    BaseURL:  "https://api.example.com",
//	    Timeout:  30 * time.Second,
//	    LogLevel: "informative",
//	})
//	n.SetBearerToken("my-token")
//
//	user, err := httpclient.Get[User](ctx, n, "/users/123", nil).Await(ctx)
//
// # Parameters
//
// GET and DELETE send a Form in the query string, POST, PUT and PATCH send
// JSON unless another ParameterType is given:
//
//	httpclient.Delete[Ack](ctx, n, "/delete", httpclient.Form{"userId": 25})
//	httpclient.Post[User](ctx, n, "/users", httpclient.JSON(newUser))
//	httpclient.Post[Ack](ctx, n, "/login", httpclient.Form{"user": "a"},
//	    httpclient.WithParameterType(httpclient.FormURLEncoded))
//	httpclient.Post[Ack](ctx, n, "/upload", httpclient.Form{"title": "cat"},
//	    httpclient.WithParts(httpclient.NewPart("file", "cat.png", data)))
//
// # Untyped responses
//
//	obj, err := httpclient.GetValue[map[string]any](ctx, n, "/status", nil).Await(ctx)
//	raw, err := httpclient.GetValue[[]byte](ctx, n, "/logo.png", nil).Await(ctx)
//
// Every failure is an *errors.Error carrying one code of the closed
// taxonomy in package errors; use IsNetwork, StatusCode and friends to
// inspect it.
package httpclient
