// Package services contains domain services for the profile domain model.
// These are stateless services that encapsulate business logic.
package services

import (
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// ===== DEEP COPY UTILITIES =====
//
// Profile documents are open maps. Every operation that hands a document back
// to a caller works on a copy so that callers never observe shared state.

// DeepCopyProfile creates a complete deep copy of a profile document.
func DeepCopyProfile(original entities.Profile) entities.Profile {
	if original == nil {
		return nil
	}
	return entities.Profile(CopyMap(original))
}

// CopyMap creates a deep copy of a document map.
func CopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = CopyValue(v)
	}
	return dst
}

// CopyValue deep copies the map and slice shapes a document can contain.
// Scalars are returned as-is.
func CopyValue(v any) any {
	switch val := v.(type) {
	case entities.Profile:
		return entities.Profile(CopyMap(val))
	case map[string]any:
		return CopyMap(val)
	case map[any]any:
		m, _ := entities.AsMap(val)
		return CopyMap(m)
	case []any:
		if val == nil {
			return []any(nil)
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CopyValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CopyMap(item)
		}
		return out
	case []string:
		return CopyStringSlice(val)
	default:
		return val
	}
}

// CopyStringSlice creates a deep copy of a string slice.
func CopyStringSlice(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
