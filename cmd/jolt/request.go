package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/jolt/config"
	"github.com/kbukum/jolt/httpclient"
	"github.com/kbukum/jolt/logger"
	"github.com/kbukum/jolt/validation"
	"github.com/kbukum/jolt/version"
)

// requestOptions holds the flags of the verb commands.
type requestOptions struct {
	configFile   string
	baseURL      string
	timeout      time.Duration
	logLevel     string
	otlpEndpoint string
	noColor      bool

	params    []string
	headers   []string
	files     []string
	jsonBody  string
	data      string
	paramType string
	bearer    string
	basic     string
	query     string
	raw       bool
	insecure  bool
}

func (o *requestOptions) bindPersistent(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configFile, "config", "", "config file (default: search jolt.yml)")
	f.StringVar(&o.baseURL, "base-url", "", "base URL prepended to the path")
	f.DurationVar(&o.timeout, "timeout", 0, "request timeout, 0 for none")
	f.StringVar(&o.logLevel, "log-level", "", "request log: none, informative or verbose")
	f.StringVar(&o.otlpEndpoint, "otlp-endpoint", "", "export spans and metrics to this OTLP HTTP host:port")
	f.BoolVar(&o.noColor, "no-color", false, "disable coloured output")
}

func (o *requestOptions) bindRequest(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&o.params, "param", "p", nil, "parameter key=value (repeatable)")
	f.StringArrayVarP(&o.headers, "header", "H", nil, "session header Key:Value (repeatable)")
	f.StringArrayVarP(&o.files, "file", "F", nil, "multipart file field=path (repeatable)")
	f.StringVar(&o.jsonBody, "json", "", "JSON body, sent as is")
	f.StringVar(&o.data, "data", "", "raw body for --type custom:<content-type>")
	f.StringVar(&o.paramType, "type", "", "parameter type: json, form, multipart, none or custom:<content-type>")
	f.StringVar(&o.bearer, "bearer", "", "bearer token")
	f.StringVar(&o.basic, "basic", "", "basic auth user:password")
	f.StringVarP(&o.query, "query", "q", "", "gjson path applied to a JSON response")
	f.BoolVar(&o.raw, "raw", false, "print the body without formatting")
	f.BoolVarP(&o.insecure, "insecure", "k", false, "skip TLS certificate verification")
	cmd.MarkFlagsMutuallyExclusive("bearer", "basic")
	cmd.MarkFlagsMutuallyExclusive("json", "data", "param")
}

// validate checks the path argument and the flag values that cobra cannot.
func (o *requestOptions) validate(path string) error {
	v := validation.New().
		Required("path", path).
		KeyValue("param", o.params, "=").
		KeyValue("header", o.headers, ":").
		KeyValue("file", o.files, "=").
		OneOf("log-level", o.logLevel, []string{"none", "informative", "verbose", "info", "debug"})
	if o.basic != "" {
		v.Custom(strings.Contains(o.basic, ":"), "basic", "must look like user:password")
	}
	if o.jsonBody != "" {
		v.Custom(json.Valid([]byte(o.jsonBody)), "json", "is not valid JSON")
	}
	if o.paramType != "" {
		_, err := httpclient.ParseParameterType(o.paramType)
		v.Custom(err == nil, "type", "must be json, form, multipart, none or custom:<content-type>")
	}
	return v.Err()
}

// loadConfig reads the config file and environment, then overlays the
// flags the user set.
func (o *requestOptions) loadConfig(cmd *cobra.Command, target string) (config.ClientConfig, error) {
	var cfg config.ClientConfig
	var loadOpts []config.LoaderOption
	if o.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(o.configFile))
	}
	if err := config.Load("jolt", &cfg, loadOpts...); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.HTTP.BaseURL = o.baseURL
	}
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = o.timeout
	}
	if flags.Changed("log-level") {
		level, err := httpclient.ParseLogLevel(o.logLevel)
		if err != nil {
			return cfg, err
		}
		cfg.HTTP.LogLevel = level.String()
	}
	if flags.Changed("otlp-endpoint") {
		cfg.Telemetry.Endpoint = o.otlpEndpoint
	}
	if o.insecure {
		if cfg.HTTP.Session.TLS == nil {
			cfg.HTTP.Session.TLS = &httpclient.TLSConfig{}
		}
		cfg.HTTP.Session.TLS.SkipVerify = true
	}
	if cfg.HTTP.BaseURL == "" {
		cfg.HTTP.BaseURL = originOf(target)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.HTTP.BaseURL == "" {
		return cfg, fmt.Errorf("no base URL: pass --base-url, set http.base_url or use an absolute URL")
	}
	return cfg, nil
}

// originOf returns scheme://host of an absolute http(s) URL, or "".
func originOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// requestSpec turns the flags into the RequestSpec of verb.
func (o *requestOptions) requestSpec(verb httpclient.Verb, path string) (httpclient.RequestSpec, error) {
	spec := httpclient.RequestSpec{Verb: verb, Path: path}

	if o.raw {
		spec.ResponseType = httpclient.ResponseData
	}

	form := httpclient.Form{}
	for _, p := range o.params {
		k, v, _ := strings.Cut(p, "=")
		form[strings.TrimSpace(k)] = v
	}

	for _, f := range o.files {
		field, file, _ := strings.Cut(f, "=")
		data, err := os.ReadFile(file)
		if err != nil {
			return spec, fmt.Errorf("read --file %s: %w", field, err)
		}
		spec.Parts = append(spec.Parts, httpclient.NewPart(strings.TrimSpace(field), filepath.Base(file), data))
	}

	switch {
	case o.jsonBody != "":
		spec.Parameters = httpclient.JSON(json.RawMessage(o.jsonBody))
	case o.data != "":
		spec.Parameters = httpclient.Raw(o.data)
	case len(form) > 0:
		spec.Parameters = form
	}

	switch {
	case o.paramType != "":
		pt, err := httpclient.ParseParameterType(o.paramType)
		if err != nil {
			return spec, err
		}
		spec.ParameterType = pt
	case len(spec.Parts) > 0:
		spec.ParameterType = httpclient.Multipart
	case o.data != "":
		spec.ParameterType = httpclient.Custom("application/octet-stream")
	case spec.Parameters == nil:
		spec.ParameterType = httpclient.NoParameters
	case verb == httpclient.GET || verb == httpclient.DELETE:
		spec.ParameterType = httpclient.FormURLEncoded
	default:
		spec.ParameterType = httpclient.JSONParameters
	}
	return spec, nil
}

// newNetwork builds the facade from cfg and applies the auth and header
// flags.
func (o *requestOptions) newNetwork(cfg config.ClientConfig, log *logger.Logger, extra ...httpclient.Option) (*httpclient.Network, error) {
	opts := append([]httpclient.Option{httpclient.WithLogger(log)}, extra...)
	n, err := httpclient.New(cfg.HTTP, opts...)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"User-Agent": version.UserAgent()}
	for _, h := range o.headers {
		k, v, _ := strings.Cut(h, ":")
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if err := n.AddSessionHeaders(headers); err != nil {
		n.Close()
		return nil, err
	}

	switch {
	case o.bearer != "":
		n.SetBearerToken(o.bearer)
	case o.basic != "":
		user, pass, _ := strings.Cut(o.basic, ":")
		n.SetBasicAuth(user, pass)
	}
	return n, nil
}

func runRequest(cmd *cobra.Command, verb httpclient.Verb, path string, o *requestOptions) error {
	if err := o.validate(path); err != nil {
		return withCode(ExitUsageError, err)
	}
	cfg, err := o.loadConfig(cmd, path)
	if err != nil {
		return withCode(ExitUsageError, err)
	}
	spec, err := o.requestSpec(verb, path)
	if err != nil {
		return withCode(ExitUsageError, err)
	}

	ctx := cmd.Context()
	log := logger.NewWithWriter(cmd.ErrOrStderr(), &cfg.Logging, cfg.Name)

	tel, err := startTelemetry(ctx, cfg, log)
	if err != nil {
		return withCode(ExitUsageError, err)
	}
	defer tel.shutdown(ctx)

	n, err := o.newNetwork(cfg, log, tel.options...)
	if err != nil {
		return withCode(ExitUsageError, err)
	}
	defer n.Close()

	log.Debug("resolved request", logger.Fields(
		logger.FieldMethod, string(verb),
		logger.FieldURL, cfg.HTTP.BaseURL+path,
		"parameter_type", spec.ParameterType.String(),
		"log_level", n.LogLevel().String(),
	))

	resp, err := httpclient.Do(ctx, n, spec).Await(ctx)
	if err != nil {
		resp = httpclient.ErrorResponse(err)
	}
	if resp != nil {
		if perr := printResponse(cmd.OutOrStdout(), resp, o.query, o.raw); perr != nil {
			return withCode(ExitUsageError, perr)
		}
	}

	switch {
	case err == nil:
		return nil
	case httpclient.IsCancelled(err):
		return withCode(ExitCancelled, err)
	case httpclient.IsNetwork(err):
		return withCode(ExitHTTPError, err)
	default:
		return withCode(ExitRequestError, err)
	}
}
