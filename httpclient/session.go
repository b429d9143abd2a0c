package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// SessionConfig configures the *http.Client a Network sends through.
type SessionConfig struct {
	// TLS configures the transport TLS settings. Nil uses Go's defaults.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
	// MaxIdleConns caps idle connections across hosts. Zero keeps the default.
	MaxIdleConns int `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`
	// IdleConnTimeout closes idle connections after this long. Zero keeps the default.
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout" validate:"gte=0"`
	// Proxy is a proxy URL. Empty uses the environment (HTTP_PROXY, ...).
	Proxy string `yaml:"proxy" mapstructure:"proxy" validate:"omitempty,url"`
	// CookieJar keeps cookies between requests.
	CookieJar bool `yaml:"cookie_jar" mapstructure:"cookie_jar"`
	// MaxRedirects limits followed redirects. Zero keeps the net/http
	// default of 10; a negative value disables following.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects"`
	// DisableKeepAlives opens a new connection per request.
	DisableKeepAlives bool `yaml:"disable_keep_alives" mapstructure:"disable_keep_alives"`
}

// newHTTPClient builds the session client. The request timeout is applied
// per request as a context deadline, not on the client.
func newHTTPClient(cfg SessionConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	if cfg.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = cfg.IdleConnTimeout
	}
	transport.DisableKeepAlives = cfg.DisableKeepAlives

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("httpclient: invalid proxy %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{Transport: transport}

	if cfg.CookieJar {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
		}
		client.Jar = jar
	}

	switch {
	case cfg.MaxRedirects < 0:
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	case cfg.MaxRedirects > 0:
		limit := cfg.MaxRedirects
		client.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
			if len(via) >= limit {
				return fmt.Errorf("httpclient: stopped after %d redirects", limit)
			}
			return nil
		}
	}

	return client, nil
}
