package httpclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	goerrors "github.com/kbukum/jolt/errors"
)

const upperhex = "0123456789ABCDEF"

// isQuerySafe reports whether b may appear unescaped in a query key or
// value. Only RFC 3986 unreserved characters qualify, so '&', '=', '+' and
// '?' inside values are always escaped.
func isQuerySafe(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case '-', '.', '_', '~':
		return true
	}
	return false
}

// isURLChar reports whether b is legal anywhere in a URL reference.
func isURLChar(b byte) bool {
	if isQuerySafe(b) {
		return true
	}
	return strings.IndexByte(":/?#[]@!$&'()*+,;=", b) >= 0
}

// percentEncode escapes every byte outside the query-safe set.
func percentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isQuerySafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// isURLString reports whether s is made only of URL characters and valid
// percent escapes, i.e. it can be used as a URL without further encoding.
func isURLString(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' {
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return false
			}
			i += 2
			continue
		}
		if !isURLChar(c) {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// encodePath returns path unchanged when it is already a legal URL string,
// otherwise it percent-encodes the segment after the last '/'.
func encodePath(path string) string {
	if isURLString(path) {
		return path
	}
	i := strings.LastIndexByte(path, '/')
	return path[:i+1] + percentEncode(path[i+1:])
}

// appendQuery appends an encoded query string to path:
//
//	"/a"       + "k=v" -> "/a?k=v"
//	"/a?"      + "k=v" -> "/a?k=v"
//	"/a?x=1"   + "k=v" -> "/a?x=1&k=v"
func appendQuery(path, query string) string {
	switch {
	case strings.HasSuffix(path, "?"):
		return path + query
	case strings.Contains(path, "?"):
		return path + "&" + query
	default:
		return path + "?" + query
	}
}

// formEncode renders a Form as key=value pairs joined with '&'. Keys are
// sorted so the output is deterministic.
func formEncode(form Form) (string, error) {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		value := stringify(form[k])
		if !utf8.ValidString(k) || !utf8.ValidString(value) {
			return "", goerrors.ParameterEncoding(k, form[k])
		}
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(value))
	}
	return strings.Join(pairs, "&"), nil
}

// stringify renders a parameter value as text. nil renders as "null",
// collections as compact JSON.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	case map[string]any, []any, Form:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}
