// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Provenance is an observed value plus the sources it was observed at
// (URLs or publication-id strings). Sources are kept in first-seen order
// without duplicates.
type Provenance struct {
	Value   string   `json:"value" yaml:"value"`
	Sources []string `json:"sources" yaml:"sources"`
}

// NewProvenance returns a Provenance for value observed at the given sources.
func NewProvenance(value string, sources ...string) Provenance {
	p := Provenance{Value: value}
	p.AddSources(sources...)
	return p
}

// IsEmpty reports whether no value was observed.
func (p Provenance) IsEmpty() bool {
	return p.Value == ""
}

// AddSources appends sources not already present.
func (p *Provenance) AddSources(sources ...string) {
	p.Sources = appendUnique(p.Sources, sources...)
}

// String renders "value (source1, source2)", or "" when empty.
func (p Provenance) String() string {
	if p.IsEmpty() {
		return ""
	}
	if len(p.Sources) == 0 {
		return p.Value
	}
	return p.Value + " (" + strings.Join(p.Sources, ", ") + ")"
}

// MergeProvenance folds values into a list keyed by Value, unioning the
// sources of equal values. Order is first-seen.
func MergeProvenance(dst []Provenance, values ...Provenance) []Provenance {
	for _, v := range values {
		if v.IsEmpty() {
			continue
		}
		merged := false
		for i := range dst {
			if dst[i].Value == v.Value {
				dst[i].AddSources(v.Sources...)
				merged = true
				break
			}
		}
		if !merged {
			dst = append(dst, NewProvenance(v.Value, v.Sources...))
		}
	}
	return dst
}

// ProvenanceValues returns the values in order.
func ProvenanceValues(ps []Provenance) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}
