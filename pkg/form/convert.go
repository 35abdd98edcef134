package form

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// convert checks v against a scalar kind and returns the canonical value:
// string, int64, float64, bool or, for KindAny, the normalized value. With
// coerce set, strings are parsed into the requested kind (query parameters).
func convert(kind Kind, v any, coerce bool) (any, bool) {
	switch kind {
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindInt:
		return toInt(v, coerce)
	case KindFloat:
		return toFloat(v, coerce)
	case KindBool:
		return toBool(v, coerce)
	case KindObject:
		m, ok := v.(map[string]any)
		return m, ok
	case KindArray:
		a, ok := v.([]any)
		return a, ok
	case KindAny:
		return normalize(v), true
	default:
		return nil, false
	}
}

func toInt(v any, coerce bool) (any, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return floatToInt(f)
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case string:
		if !coerce {
			return nil, false
		}
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, false
		}
		return i, true
	default:
		return nil, false
	}
}

func floatToInt(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, false
	}
	return int64(f), true
}

func uintToInt(u uint64) (any, bool) {
	if u > math.MaxInt64 {
		return nil, false
	}
	return int64(u), true
}

func toFloat(v any, coerce bool) (any, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		if !coerce {
			return nil, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}

func toBool(v any, coerce bool) (any, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		if !coerce {
			return nil, false
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, false
		}
		return parsed, true
	default:
		return nil, false
	}
}

// normalize replaces json.Number values with int64 or float64 so callers of
// KindAny fields never see decoder internals.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}

// mismatchMessage is the detail reported when a value has the wrong kind.
func mismatchMessage(kind Kind) string {
	switch kind {
	case KindString:
		return "must be a string"
	case KindInt:
		return "must be an integer"
	case KindFloat:
		return "must be a number"
	case KindBool:
		return "must be a boolean"
	case KindObject:
		return "must be an object"
	case KindArray:
		return "must be an array"
	default:
		return "has an invalid value"
	}
}
