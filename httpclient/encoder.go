package httpclient

import (
	"encoding/json"

	goerrors "github.com/kbukum/jolt/errors"
)

// encoded is the output of the parameter encoder: a body (nil for none)
// and the path, which carries the query string for GET and DELETE.
type encoded struct {
	body []byte
	path string
}

// encodeParameters turns the request's parameters into a body and/or query
// string according to its ParameterType.
func encodeParameters(spec RequestSpec, boundary string) (encoded, error) {
	out := encoded{path: spec.Path}

	switch spec.ParameterType.Kind() {
	case ParamNone:
		return out, nil

	case ParamJSON:
		body, err := jsonSerialized(spec.Parameters, false)
		if err != nil {
			return encoded{}, err
		}
		out.body = body
		return out, nil

	case ParamFormURLEncoded:
		query, err := formEncoded(spec.Parameters)
		if err != nil {
			return encoded{}, err
		}
		if spec.Verb.carriesQuery() {
			out.path = appendQuery(spec.Path, query)
		} else {
			out.body = []byte(query)
		}
		return out, nil

	case ParamMultipart:
		var fields Form
		switch p := spec.Parameters.(type) {
		case nil:
		case Form:
			fields = p
		default:
			return encoded{}, goerrors.InvalidParameterShape("form", shapeOf(p))
		}
		out.body = encodeMultipart(fields, spec.Parts, boundary)
		return out, nil

	case ParamCustom:
		switch p := spec.Parameters.(type) {
		case nil:
		case Raw:
			out.body = []byte(p)
		default:
			return encoded{}, goerrors.InvalidParameterShape("raw", shapeOf(p))
		}
		return out, nil
	}
	return out, nil
}

// jsonSerialized encodes JSON or Form parameters. A nil Parameters yields a
// nil body.
func jsonSerialized(params Parameters, pretty bool) ([]byte, error) {
	var value any
	switch p := params.(type) {
	case nil:
		return nil, nil
	case JSONValue:
		value = p.Value
	case Form:
		value = map[string]any(p)
	default:
		return nil, goerrors.InvalidParameterShape("json", shapeOf(p))
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return nil, goerrors.JSONSerialization(err)
	}
	return data, nil
}

// formEncoded percent-encodes Form parameters.
func formEncoded(params Parameters) (string, error) {
	form, ok := params.(Form)
	if !ok {
		return "", goerrors.InvalidParameterShape("form", shapeOf(params))
	}
	return formEncode(form)
}
