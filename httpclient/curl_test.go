package httpclient

import (
	"net/http"
	"strings"
	"testing"
)

func TestCurlString_Get(t *testing.T) {
	req, _ := http.NewRequest("GET", "https://api.example.com/users?id=1", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cookie", "secret=1")

	want := `curl "https://api.example.com/users?id=1"` + " \\\n\t" + `-H 'Accept: application/json'`
	if got := curlString(req, nil); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCurlString_PostWithBody(t *testing.T) {
	req, _ := http.NewRequest("POST", "https://api.example.com/users", nil)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer t")

	got := curlString(req, []byte(`{"name":"O'Neil"}`))
	segments := strings.Split(got, " \\\n\t")
	want := []string{
		`curl "https://api.example.com/users"`,
		`-X POST`,
		`-H 'Authorization: Bearer t'`,
		`-H 'Content-Type: application/json'`,
		`-d '{"name":"O'\''Neil"}'`,
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments: %q", len(segments), segments)
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, segments[i], want[i])
		}
	}
}

func TestCurlString_Head(t *testing.T) {
	req, _ := http.NewRequest("HEAD", "https://x.io", nil)
	if got := curlString(req, nil); got != `curl "https://x.io"`+" \\\n\t--head" {
		t.Errorf("got %q", got)
	}
}

func TestHeaderLines_Sorted(t *testing.T) {
	h := http.Header{}
	h.Set("X-B", "2")
	h.Set("X-A", "1")
	h.Add("X-A", "1b")
	h.Set("Cookie", "c")

	if got := strings.Join(headerLines(h), "|"); got != "Cookie: c|X-A: 1|X-A: 1b|X-B: 2" {
		t.Errorf("got %q", got)
	}
	if got := strings.Join(headerLines(h, "Cookie"), "|"); got != "X-A: 1|X-A: 1b|X-B: 2" {
		t.Errorf("with Cookie omitted got %q", got)
	}
}
