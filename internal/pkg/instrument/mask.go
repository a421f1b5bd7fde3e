package instrument

import (
	"encoding/json"
	"slices"
	"strings"
)

const masked = "***"

// Mask redacts values stored under sensitive keys. Key matching ignores case.
// The zero Mask redacts nothing.
type Mask struct {
	keys map[string]struct{}
}

// NewMask masks DefaultMaskFields plus fields.
func NewMask(fields ...string) Mask {
	keys := make(map[string]struct{}, len(DefaultMaskFields)+len(fields))
	for _, f := range slices.Concat(DefaultMaskFields, fields) {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return Mask{keys: keys}
}

// Has reports whether values under key must not be shown.
func (m Mask) Has(key string) bool {
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

// Data walks decoded JSON and returns a copy with sensitive values replaced.
// map[string]string is accepted too since headers and carriers log as one.
func (m Mask) Data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Has(k) {
				out[k] = masked
				continue
			}
			out[k] = m.Data(v2)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Has(k) {
				out[k] = masked
				continue
			}
			out[k] = v2
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = m.Data(v2)
		}
		return out
	default:
		return v
	}
}

// JSON masks a JSON object or array. ok is false when payload is not JSON.
func (m Mask) JSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	out, err := json.Marshal(m.Data(body))
	if err != nil {
		return "", false
	}
	return string(out), true
}
