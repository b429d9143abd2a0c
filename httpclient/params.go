package httpclient

import (
	"fmt"
	"strings"
)

// ParameterKind identifies the encoding strategy of a ParameterType.
type ParameterKind int

const (
	// ParamNone sends no body and leaves the URL untouched.
	ParamNone ParameterKind = iota
	// ParamJSON serializes parameters as JSON.
	ParamJSON
	// ParamFormURLEncoded percent-encodes a Form into the query string or body.
	ParamFormURLEncoded
	// ParamMultipart serializes a Form and file parts as multipart/form-data.
	ParamMultipart
	// ParamCustom sends Raw bytes with a caller supplied content type.
	ParamCustom
)

// ParameterType is the declared encoding of a request's parameters. It
// selects exactly one encoding path and the Content-Type header.
type ParameterType struct {
	kind        ParameterKind
	contentType string
}

var (
	// NoParameters declares a request without parameters.
	NoParameters = ParameterType{kind: ParamNone}
	// JSONParameters declares a JSON body (application/json).
	JSONParameters = ParameterType{kind: ParamJSON}
	// FormURLEncoded declares application/x-www-form-urlencoded parameters.
	FormURLEncoded = ParameterType{kind: ParamFormURLEncoded}
	// Multipart declares a multipart/form-data body.
	Multipart = ParameterType{kind: ParamMultipart}
)

// Custom declares a raw body sent with the given Content-Type verbatim.
func Custom(contentType string) ParameterType {
	return ParameterType{kind: ParamCustom, contentType: contentType}
}

// Kind returns the encoding strategy.
func (p ParameterType) Kind() ParameterKind {
	return p.kind
}

// ContentType returns the Content-Type header for this parameter type, or
// the empty string when no header should be sent.
func (p ParameterType) ContentType(boundary string) string {
	switch p.kind {
	case ParamJSON:
		return "application/json"
	case ParamFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case ParamMultipart:
		return "multipart/form-data; boundary=" + boundary
	case ParamCustom:
		return p.contentType
	default:
		return ""
	}
}

// String returns the parameter type name, in the form ParseParameterType accepts.
func (p ParameterType) String() string {
	switch p.kind {
	case ParamJSON:
		return "json"
	case ParamFormURLEncoded:
		return "form"
	case ParamMultipart:
		return "multipart"
	case ParamCustom:
		return "custom:" + p.contentType
	default:
		return "none"
	}
}

// ParseParameterType parses "none", "json", "form", "multipart" or
// "custom:<content-type>".
func ParseParameterType(s string) (ParameterType, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "" || v == "none":
		return NoParameters, nil
	case v == "json":
		return JSONParameters, nil
	case v == "form" || v == "form-url-encoded" || v == "urlencoded":
		return FormURLEncoded, nil
	case v == "multipart":
		return Multipart, nil
	case strings.HasPrefix(v, "custom:"):
		ct := strings.TrimSpace(s[strings.Index(s, ":")+1:])
		if ct == "" {
			return ParameterType{}, fmt.Errorf("httpclient: custom parameter type needs a content type")
		}
		return Custom(ct), nil
	default:
		return ParameterType{}, fmt.Errorf("httpclient: unknown parameter type %q", s)
	}
}

// Parameters is the logical parameter set of a request. It is one of
// JSONValue, Form or Raw; a nil Parameters means no parameters.
type Parameters interface {
	shape() string
}

// JSONValue carries any JSON serializable value (object, array, scalar).
type JSONValue struct {
	Value any
}

// JSON wraps v as JSON parameters.
func JSON(v any) JSONValue {
	return JSONValue{Value: v}
}

// Form is a string-keyed mapping of parameters. It can be sent as JSON,
// form-urlencoded or multipart fields.
type Form map[string]any

// Raw is an opaque body passed through unmodified.
type Raw []byte

func (JSONValue) shape() string { return "json" }
func (Form) shape() string      { return "form" }
func (Raw) shape() string       { return "raw" }

func shapeOf(p Parameters) string {
	if p == nil {
		return "none"
	}
	return p.shape()
}
