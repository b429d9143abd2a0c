package httpclient

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

const defaultPartContentType = "application/octet-stream"

// MultipartPart is one file part of a multipart/form-data body. The
// boundary is not part of the value: the encoder injects the facade's
// boundary when the part is serialized.
type MultipartPart struct {
	// Data is the part payload.
	Data []byte
	// Name is the form field name (e.g., "file", "avatar").
	Name string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type of Data. If empty, uses application/octet-stream.
	ContentType string
}

// NewPart creates a part with the default content type.
func NewPart(name, fileName string, data []byte) MultipartPart {
	return MultipartPart{Name: name, FileName: fileName, Data: data}
}

// newBoundary returns a fresh multipart boundary.
func newBoundary() string {
	return "Boundary-" + uuid.NewString()
}

// encode serializes the part as one body segment delimited by boundary.
func (p MultipartPart) encode(boundary string) []byte {
	contentType := p.ContentType
	if contentType == "" {
		contentType = defaultPartContentType
	}

	var buf bytes.Buffer
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString(`Content-Disposition: form-data; name="` + escapeQuotes(p.Name) +
		`"; filename="` + escapeQuotes(p.FileName) + "\"\r\n")
	buf.WriteString("Content-Type: " + contentType + "\r\n\r\n")
	buf.Write(p.Data)
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// encodeMultipart builds a multipart body: one segment per form field
// (sorted by key), then one per part in caller order, then the closing
// delimiter.
func encodeMultipart(fields Form, parts []MultipartPart, boundary string) []byte {
	var buf bytes.Buffer

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString(`Content-Disposition: form-data; name="` + escapeQuotes(k) + "\"\r\n\r\n")
		buf.WriteString(stringify(fields[k]))
		buf.WriteString("\r\n")
	}

	for _, p := range parts {
		buf.Write(p.encode(boundary))
	}

	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes()
}

// escapeQuotes replaces special characters in header values.
func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
