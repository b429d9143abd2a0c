package httpclient

import (
	"maps"

	"dario.cat/mergo"
)

// mergeHeaders returns base overlaid with extra. Keys of extra win on
// conflict; neither input is modified.
func mergeHeaders(base, extra map[string]string) (map[string]string, error) {
	merged := maps.Clone(base)
	if merged == nil {
		merged = make(map[string]string, len(extra))
	}
	if err := mergo.Merge(&merged, extra, mergo.WithOverride); err != nil {
		return nil, err
	}
	return merged, nil
}
