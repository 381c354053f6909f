package pinterest

import (
	"encoding/json"
	"math"
	"strconv"

	"pinterest-forwarder/internal/model"
)

// truthy reports whether a loosely typed payload value counts as set:
// nil, false, empty strings, zero and NaN do not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val != ""
		}
		return f != 0 && !math.IsNaN(f)
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0 && !math.IsNaN(float64(val))
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case uint:
		return val != 0
	case uint64:
		return val != 0
	default:
		return true
	}
}

// stringify renders a payload value as a query-string value.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	default:
		b, err := model.MarshalJSON(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// lookup is read access to a nested payload object.
type lookup func(key string) (any, bool)

func asObject(v any) (lookup, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return func(key string) (any, bool) {
			val, ok := obj[key]
			return val, ok
		}, true
	case model.Payload:
		return obj.Get, true
	case *model.Payload:
		if obj == nil {
			return nil, false
		}
		return obj.Get, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []map[string]any:
		out := make([]any, len(list))
		for i := range list {
			out[i] = list[i]
		}
		return out, true
	case []model.Payload:
		out := make([]any, len(list))
		for i := range list {
			out[i] = list[i]
		}
		return out, true
	default:
		return nil, false
	}
}
