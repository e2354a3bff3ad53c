package snapshot

import "sort"

// Changes is the difference between two snapshots.
type Changes struct {
	VersionChanged bool   `json:"version_changed"`
	OldVersion     string `json:"old_version"`
	NewVersion     string `json:"new_version"`

	// NewEndpoints are link relations present only in the newer snapshot.
	NewEndpoints []string `json:"new_endpoints"`
	// RemovedEndpoints are link relations present only in the older one.
	RemovedEndpoints []string `json:"removed_endpoints"`
	// NewDeprecations are relations deprecated in the newer snapshot that
	// were not deprecated, or did not exist, in the older one.
	NewDeprecations []string `json:"new_deprecations"`

	DeprecatedCountChanged bool `json:"deprecated_count_changed"`
}

// HasChanges reports whether anything differs between the snapshots.
func (c *Changes) HasChanges() bool {
	return c.VersionChanged ||
		len(c.NewEndpoints) > 0 ||
		len(c.RemovedEndpoints) > 0 ||
		len(c.NewDeprecations) > 0 ||
		c.DeprecatedCountChanged
}

// Diff compares the snapshot prev with the later snapshot curr. Relation
// sets are returned sorted. A deprecated relation that disappears is
// reported only as removed.
func Diff(prev, curr *Snapshot) *Changes {
	if prev == nil {
		prev = &Snapshot{}
	}
	if curr == nil {
		curr = &Snapshot{}
	}

	oldRels := rels(prev.Endpoints.Links)
	newRels := rels(curr.Endpoints.Links)
	oldDeprecated := rels(prev.DeprecatedEndpoints)
	newDeprecated := rels(curr.DeprecatedEndpoints)

	return &Changes{
		VersionChanged:         prev.Version != curr.Version,
		OldVersion:             prev.Version,
		NewVersion:             curr.Version,
		NewEndpoints:           minus(newRels, oldRels),
		RemovedEndpoints:       minus(oldRels, newRels),
		NewDeprecations:        minus(newDeprecated, oldDeprecated),
		DeprecatedCountChanged: prev.DeprecatedCount != curr.DeprecatedCount,
	}
}

func rels(endpoints []Endpoint) map[string]struct{} {
	out := make(map[string]struct{}, len(endpoints))
	for _, e := range endpoints {
		out[e.Rel] = struct{}{}
	}
	return out
}

// minus returns the sorted elements of a that are not in b.
func minus(a, b map[string]struct{}) []string {
	out := []string{}
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
