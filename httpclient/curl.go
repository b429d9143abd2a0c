package httpclient

import (
	"net/http"
	"slices"
	"sort"
	"strings"
)

// curlSeparator joins the segments of a cURL command and of the header
// fields log line.
const curlSeparator = " \\\n\t"

// curlString renders req as a cURL command that reproduces it. The Cookie
// header is left out.
func curlString(req *http.Request, body []byte) string {
	segments := []string{`curl "` + req.URL.String() + `"`}

	switch req.Method {
	case http.MethodHead:
		segments = append(segments, "--head")
	case http.MethodGet, "":
	default:
		segments = append(segments, "-X "+req.Method)
	}

	for _, line := range headerLines(req.Header, "Cookie") {
		segments = append(segments, "-H '"+line+"'")
	}

	if len(body) > 0 {
		segments = append(segments, "-d '"+strings.ReplaceAll(string(body), "'", `'\''`)+"'")
	}

	return strings.Join(segments, curlSeparator)
}

// headerLines renders headers as "Key: value" lines sorted by key,
// leaving out the omitted keys.
func headerLines(h http.Header, omit ...string) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		if slices.Contains(omit, http.CanonicalHeaderKey(k)) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range h[k] {
			lines = append(lines, k+": "+v)
		}
	}
	return lines
}
