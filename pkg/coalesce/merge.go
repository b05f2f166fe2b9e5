package coalesce

import (
	"maps"
	"reflect"
)

// MergeBehaviors declares, per operator, which payload fields it applies
// to when an incoming send merges into a pending event. Fields not named
// by any operator are simply overwritten by the incoming value.
type MergeBehaviors struct {
	Increment    []string `json:"increment,omitempty"`
	Decrement    []string `json:"decrement,omitempty"`
	AppendUnique []string `json:"append_unique,omitempty"`
	Remove       []string `json:"remove,omitempty"`
}

// IsZero reports whether no operator has any field attached.
func (b MergeBehaviors) IsZero() bool {
	return len(b.Increment) == 0 && len(b.Decrement) == 0 &&
		len(b.AppendUnique) == 0 && len(b.Remove) == 0
}

// mergeFields combines a pending event's stored payload with the fields
// of a new send. Incoming values win for plain fields; behavior-declared
// fields are combined by their operator. An operator only runs for
// fields present in the incoming payload.
//
// Decrement and remove read direction matters: decrement subtracts the
// incoming amount from the stored counter, and remove uses the incoming
// value as a filter over the stored list.
func mergeFields(stored, incoming map[string]any, behaviors MergeBehaviors) map[string]any {
	out := make(map[string]any, len(stored)+len(incoming))
	maps.Copy(out, stored)
	maps.Copy(out, incoming)

	for _, field := range behaviors.Increment {
		if inc, ok := incoming[field]; ok {
			out[field] = toNumber(inc) + toNumber(stored[field])
		}
	}

	for _, field := range behaviors.Decrement {
		if inc, ok := incoming[field]; ok {
			out[field] = toNumber(stored[field]) - toNumber(inc)
		}
	}

	for _, field := range behaviors.AppendUnique {
		if inc, ok := incoming[field]; ok {
			out[field] = appendUnique(toList(inc), toList(stored[field]))
		}
	}

	for _, field := range behaviors.Remove {
		if inc, ok := incoming[field]; ok {
			// The incoming value acts as a removal filter over the stored
			// list and is not persisted itself.
			out[field] = removeAll(toList(stored[field]), toList(inc))
		}
	}

	return out
}

// appendUnique returns incoming followed by every stored element not
// already present in incoming. Incoming keeps its own order.
func appendUnique(incoming, stored []any) []any {
	out := make([]any, len(incoming), len(incoming)+len(stored))
	copy(out, incoming)

	for _, v := range stored {
		if !containsValue(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// removeAll returns stored with every element of removals filtered out.
func removeAll(stored, removals []any) []any {
	out := make([]any, 0, len(stored))
	for _, v := range stored {
		if !containsValue(removals, v) {
			out = append(out, v)
		}
	}
	return out
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}

// toNumber coerces the numeric shapes a JSON payload can carry. Missing
// or non-numeric values count as zero.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// toList coerces a stored value to a list. Scalars become single-element
// lists so an operator applied to a previously scalar field still works.
func toList(v any) []any {
	switch l := v.(type) {
	case nil:
		return nil
	case []any:
		return l
	default:
		return []any{v}
	}
}
