package value

import (
	"encoding/json"
	"fmt"
)

// Encode maps an evaluator value to a form encoding/json can always
// represent. Known kinds are handled explicitly; anything else falls through
// the default arm to a best-effort string rendering, and if even that faults,
// to a placeholder naming the type. Encode never panics.
func Encode(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case string:
		return NFC(val)
	case int:
		return val
	case int32:
		return val
	case int64:
		return val
	case float32:
		return val
	case float64:
		return val
	case json.Number:
		return val
	case []any:
		return EncodeSequence(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[NFC(k)] = Encode(elem)
		}
		return out
	default:
		return stringify(v)
	}
}

// EncodeSequence encodes every element of a result sequence.
// A nil sequence stays nil so reports distinguish "no result" from "empty
// result".
func EncodeSequence(seq []any) []any {
	if seq == nil {
		return nil
	}
	out := make([]any, len(seq))
	for i, v := range seq {
		out[i] = Encode(v)
	}
	return out
}

// stringify renders an unknown value kind as a string. A Stringer that panics
// must not take report serialization down with it, so the call is guarded.
func stringify(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = placeholder(v)
		}
	}()

	if str, ok := v.(fmt.Stringer); ok {
		return NFC(str.String())
	}
	if e, ok := v.(error); ok {
		return NFC(e.Error())
	}
	return placeholder(v)
}

func placeholder(v any) string {
	return fmt.Sprintf("<non-serializable: %T>", v)
}
