package httpclient

import (
	"crypto/tls"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestTLSConfig_Build_Nil(t *testing.T) {
	var cfg *TLSConfig
	result, err := cfg.Build()
	if err != nil || result != nil {
		t.Fatalf("expected nil, nil; got %v, %v", result, err)
	}
	if (&TLSConfig{}).IsEnabled() {
		t.Error("zero value should not be enabled")
	}
}

func TestTLSConfig_Build_SkipVerify(t *testing.T) {
	result, err := (&TLSConfig{SkipVerify: true, ServerName: "example.com"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify || result.ServerName != "example.com" {
		t.Errorf("unexpected config %+v", result)
	}
	if result.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected MinVersion=TLS12, got %d", result.MinVersion)
	}
}

func TestTLSConfig_Build_MinVersion13(t *testing.T) {
	result, err := (&TLSConfig{MinVersion: "1.3"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected TLS13, got %d", result.MinVersion)
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{"cert without key", TLSConfig{CertFile: "c.pem"}},
		{"key without cert", TLSConfig{KeyFile: "k.pem"}},
		{"bad version", TLSConfig{MinVersion: "1.0"}},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestTLSConfig_Build_MissingCA(t *testing.T) {
	_, err := (&TLSConfig{CAFile: filepath.Join(t.TempDir(), "missing.pem")}).Build()
	if err == nil {
		t.Fatal("expected error for missing CA file")
	}
}

func TestTLSConfig_Build_GarbageCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (&TLSConfig{CAFile: path}).Build(); err == nil {
		t.Fatal("expected error for unparsable CA file")
	}
}

func TestTLSConfig_CAFileTrustsServer(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "ca.pem")
	cert := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(path, cert, 0o600); err != nil {
		t.Fatal(err)
	}

	client, err := newHTTPClient(SessionConfig{TLS: &TLSConfig{CAFile: path}})
	if err != nil {
		t.Fatalf("newHTTPClient: %v", err)
	}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request with trusted CA failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestTLSConfig_UntrustedServerFails(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client, err := newHTTPClient(SessionConfig{})
	if err != nil {
		t.Fatalf("newHTTPClient: %v", err)
	}
	if resp, err := client.Get(srv.URL); err == nil {
		_ = resp.Body.Close()
		t.Fatal("expected certificate verification failure")
	}
}
