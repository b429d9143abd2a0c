package httpclient

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/kbukum/jolt/errors"
	"github.com/kbukum/jolt/logger"
)

// LogLevel gates the request logger output.
type LogLevel int32

const (
	// LogNone writes nothing.
	LogNone LogLevel = iota
	// LogInformative writes one line per request and per response, and the
	// error block on failure.
	LogInformative
	// LogVerbose adds the cURL command, headers and bodies.
	LogVerbose
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogInformative:
		return "informative"
	case LogVerbose:
		return "verbose"
	default:
		return "none"
	}
}

// ParseLogLevel parses "none", "informative" or "verbose".
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LogNone, nil
	case "informative", "info":
		return LogInformative, nil
	case "verbose", "debug":
		return LogVerbose, nil
	}
	return LogNone, fmt.Errorf("httpclient: unknown log level %q", s)
}

// Failure describes a failed request for the error log block.
type Failure struct {
	Err           error
	URL           string
	Headers       http.Header
	ParameterType ParameterType
	Parameters    Parameters
	// Response is nil when the request failed before a response arrived.
	Response *Response
}

// RequestLogger observes every stage of a request. Implementations must
// not panic and never fail a request.
type RequestLogger interface {
	LogRequest(level LogLevel, req *http.Request, body []byte)
	LogResponse(level LogLevel, req *http.Request, resp *Response)
	LogFailure(level LogLevel, failure Failure)
}

// NewRequestLogger returns a RequestLogger writing to log.
func NewRequestLogger(log *logger.Logger) RequestLogger {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &requestLogger{log: log.WithComponent("httpclient")}
}

type requestLogger struct {
	log *logger.Logger
}

func (l *requestLogger) LogRequest(level LogLevel, req *http.Request, body []byte) {
	if level < LogInformative {
		return
	}
	defer recoverLogging()

	url := req.URL.String()
	l.log.Info(fmt.Sprintf("Request action: %s, to url: %s", req.Method, url),
		logger.Fields(logger.FieldMethod, req.Method, logger.FieldURL, url))

	if level < LogVerbose {
		return
	}
	l.log.Info(curlString(req, body))
	if lines := headerLines(req.Header); len(lines) > 0 {
		l.log.Info("Header fields: " + strings.Join(lines, curlSeparator))
	}
	if len(body) > 0 {
		l.log.Info("Request body: " + string(body))
	}
}

func (l *requestLogger) LogResponse(level LogLevel, req *http.Request, resp *Response) {
	if level < LogInformative || resp == nil {
		return
	}
	defer recoverLogging()

	l.log.Info(fmt.Sprintf("Response status code: %d for url: %s", resp.StatusCode, resp.URL),
		logger.Fields(logger.FieldStatusCode, resp.StatusCode, logger.FieldURL, resp.URL))

	if level < LogVerbose {
		return
	}
	if len(resp.Body) > 0 {
		l.log.Info("Response body: " + string(resp.Body))
	}
}

func (l *requestLogger) LogFailure(level LogLevel, f Failure) {
	if level < LogInformative || f.Err == nil {
		return
	}
	defer recoverLogging()

	code := goerrors.CodeOf(f.Err)
	if code == goerrors.ErrCodeCancelled {
		l.log.Warn("Cancelled request: "+f.URL, logger.Fields(logger.FieldURL, f.URL))
		return
	}

	lines := []string{
		fmt.Sprintf("Error code: %s, description: %s", errorCodeText(f.Err), errorDescription(f.Err)),
		"URL: " + f.URL,
	}
	if hl := headerLines(f.Headers); len(hl) > 0 {
		lines = append(lines, "Headers: "+strings.Join(hl, curlSeparator))
	}
	if f.Parameters != nil {
		if text, ok := formatParameters(f.ParameterType, f.Parameters); ok {
			lines = append(lines, "Parameters: "+text)
		}
	}
	if r := f.Response; r != nil {
		if len(r.Body) > 0 {
			lines = append(lines, "Data: "+string(r.Body))
		}
		if hl := headerLines(r.Headers); len(hl) > 0 {
			lines = append(lines, "Response headers: "+strings.Join(hl, curlSeparator))
		}
		lines = append(lines, fmt.Sprintf("Response status: %d %s", r.StatusCode, http.StatusText(r.StatusCode)))
	}

	fields := logger.Fields(logger.FieldURL, f.URL, logger.FieldErrorCode, string(code))
	if f.Response != nil {
		fields[logger.FieldStatusCode] = f.Response.StatusCode
	}
	log := l.log.WithError(f.Err)
	if e, ok := goerrors.AsError(f.Err); ok {
		extra := e.Fields()
		for k := range fields {
			delete(extra, k)
		}
		log = log.WithFields(extra)
	}
	log.Error(strings.Join(lines, "\n"), fields)
}

// formatParameters renders parameters for the error block: pretty JSON for
// JSON parameters, the encoded string for form parameters. Other parameter
// types are not printed.
func formatParameters(pt ParameterType, params Parameters) (string, bool) {
	var (
		text string
		err  error
	)
	switch pt.Kind() {
	case ParamJSON:
		var data []byte
		data, err = jsonSerialized(params, true)
		text = string(data)
	case ParamFormURLEncoded:
		text, err = formEncoded(params)
	default:
		return "", false
	}
	if err != nil {
		return fmt.Sprintf("(unable to format parameters: %v)", err), true
	}
	return text, true
}

func errorCodeText(err error) string {
	if code := goerrors.CodeOf(err); code != "" {
		return string(code)
	}
	return string(goerrors.ErrCodeGeneric)
}

func errorDescription(err error) string {
	if e, ok := goerrors.AsError(err); ok {
		return e.Message
	}
	return err.Error()
}

// recoverLogging keeps a panicking log sink from failing the request.
func recoverLogging() {
	_ = recover()
}
