package strcase

import (
	"slices"
	"strings"
)

// CamelizeKeys returns a copy of v where every mapping key at any depth has
// been rewritten with ToLowerCamel.
//
// It understands the shapes produced by encoding/json decoding into any
// (map[string]any, []any and scalars) plus a few common typed containers.
// Sequence order and scalar values are preserved. When a converted key
// collides with a key that is already camel cased in the same mapping, the
// already camel cased entry wins.
func CamelizeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return camelizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CamelizeKeys(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = camelizeMap(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = item
		}
		return camelizeMap(out)
	default:
		return v
	}
}

func camelizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	snaked := make([]string, 0)
	for k, item := range m {
		if strings.Contains(k, "_") {
			snaked = append(snaked, k)
			continue
		}
		out[k] = CamelizeKeys(item)
	}

	// sorted so colliding snake keys resolve the same way on every call
	slices.Sort(snaked)
	for _, k := range snaked {
		key := ToLowerCamel(k)
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = CamelizeKeys(m[k])
	}

	return out
}
