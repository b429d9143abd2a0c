package httpclient

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	goerrors "github.com/kbukum/jolt/errors"
)

// validateSchema checks a JSON body against schema. Any violation, or a
// body that is not JSON, is a RESPONSE_TYPE_MISMATCH.
func validateSchema(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return goerrors.ResponseTypeMismatch("schema", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return goerrors.ResponseTypeMismatch("schema", fmt.Errorf("%s", strings.Join(msgs, "; ")))
}
