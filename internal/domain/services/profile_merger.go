package services

import (
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// ProfileMerger merges an existing profile with an incoming one.
// This is a DOMAIN SERVICE because merge semantics are business rules.
//
// Merge Semantics:
//   - Objects: merged recursively, incoming wins on conflicting leaves
//   - Absent or nil incoming values: the existing value is kept
//   - Arrays: replaced wholesale by the incoming array
//   - dependencies: merged by type (same type = replace, new type = append)
type ProfileMerger struct{}

// NewProfileMerger creates a new profile merger service.
func NewProfileMerger() *ProfileMerger {
	return &ProfileMerger{}
}

// Merge combines two profiles with the incoming profile winning on conflicts.
// Returns a NEW profile (does not mutate inputs).
func (m *ProfileMerger) Merge(existing, incoming entities.Profile) entities.Profile {
	if existing == nil {
		return DeepCopyProfile(incoming)
	}
	if incoming == nil {
		return DeepCopyProfile(existing)
	}

	merged := entities.Profile(m.mergeMaps(existing, incoming))

	if existing.HasDependencies() || incoming.HasDependencies() {
		deps, ok := m.mergeDependencies(existing, incoming)
		if ok {
			merged = merged.WithDependencies(deps)
		}
	}
	return merged
}

// mergeMaps merges incoming onto a copy of base.
func (m *ProfileMerger) mergeMaps(base, incoming map[string]any) map[string]any {
	result := CopyMap(base)
	if result == nil {
		result = make(map[string]any, len(incoming))
	}
	for k, v := range incoming {
		if v == nil {
			continue
		}
		if k == entities.KeyDependencies {
			result[k] = CopyValue(v)
			continue
		}
		incomingMap, incomingIsMap := entities.AsMap(v)
		baseMap, baseIsMap := entities.AsMap(result[k])
		if incomingIsMap && baseIsMap {
			result[k] = m.mergeMaps(baseMap, incomingMap)
			continue
		}
		result[k] = CopyValue(v)
	}
	return result
}

// mergeDependencies merges dependency lists keyed by type.
// Order is preserved: existing entries first, then new types from incoming.
// Returns false when either list cannot be decoded, in which case the
// incoming list (already copied by mergeMaps) stands.
func (m *ProfileMerger) mergeDependencies(
	existing, incoming entities.Profile,
) ([]entities.DependencyRef, bool) {
	base, err := existing.Dependencies()
	if err != nil {
		return nil, false
	}
	overlay, err := incoming.Dependencies()
	if err != nil {
		return nil, false
	}

	overlayByType := make(map[string]entities.DependencyRef, len(overlay))
	for _, d := range overlay {
		overlayByType[d.Type] = d
	}

	seen := make(map[string]bool, len(base)+len(overlay))
	result := make([]entities.DependencyRef, 0, len(base)+len(overlay))
	for _, d := range base {
		seen[d.Type] = true
		if o, ok := overlayByType[d.Type]; ok {
			result = append(result, o)
			continue
		}
		result = append(result, d)
	}
	for _, d := range overlay {
		if !seen[d.Type] {
			seen[d.Type] = true
			result = append(result, d)
		}
	}
	return result, true
}
