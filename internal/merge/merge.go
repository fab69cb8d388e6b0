// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge combines results that describe the same tool. Results are
// processed left to right; a result absorbs every later result whose
// confident top suggestion has the same extracted name.
package merge

import (
	"strings"

	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// Merge returns the surviving results in input order. Absorbed results are
// dropped. Only results with a confident top suggestion are merged.
func Merge(results []*types.Result, bands types.ConfidenceBands) []*types.Result {
	absorbed := make([]bool, len(results))
	for i, r := range results {
		if absorbed[i] || !mergeable(r, bands) {
			continue
		}
		for j := i + 1; j < len(results); j++ {
			if absorbed[j] || !mergeable(results[j], bands) {
				continue
			}
			if r.Top().Extracted != results[j].Top().Extracted {
				continue
			}
			Absorb(r, results[j])
			absorbed[j] = true
		}
	}

	out := make([]*types.Result, 0, len(results))
	for i, r := range results {
		if !absorbed[i] {
			out = append(out, r)
		}
	}
	return out
}

func mergeable(r *types.Result, bands types.ConfidenceBands) bool {
	top := r.Top()
	return top != nil && top.Extracted != "" && bands.Confident(top)
}

// Absorb folds src into dst. Publications already on dst are skipped.
// Suggestions with the same extracted name are paired and the higher ranked
// of each pair is kept with the union of both pairs' links; src's unpaired
// suggestions are appended. dst is re-sorted.
func Absorb(dst, src *types.Result) {
	for _, p := range src.Publications {
		if !types.ContainsPublication(dst.PubIDs(), p.IDs) {
			dst.Publications = append(dst.Publications, p)
		}
	}

	for _, s := range src.Suggestions {
		k := indexOfExtracted(dst.Suggestions, s.Extracted)
		if k < 0 {
			dst.Suggestions = append(dst.Suggestions, s)
			continue
		}
		d := dst.Suggestions[k]
		if s == d {
			continue
		}
		winner, loser := d, s
		if s.Outranks(d) {
			winner, loser = s, d
		}
		winner.AddLinksAbstract(loser.LinksAbstract)
		winner.AddLinksFulltext(loser.LinksFulltext)
		dst.Suggestions[k] = winner
	}
	dst.SortSuggestions()
}

func indexOfExtracted(suggestions []*types.Suggestion, extracted string) int {
	for i, s := range suggestions {
		if s.Extracted == extracted {
			return i
		}
	}
	return -1
}

// FillSameSuggestions cross-references surviving results whose top
// suggestions share an extracted name. Suggestions are not touched.
func FillSameSuggestions(results []*types.Result) {
	for i, a := range results {
		ta := a.Top()
		if ta == nil || ta.Extracted == "" {
			continue
		}
		for _, b := range results[i+1:] {
			tb := b.Top()
			if tb == nil || tb.Extracted != ta.Extracted {
				continue
			}
			a.AddSameSuggestion(b.FirstPubIDs())
			b.AddSameSuggestion(a.FirstPubIDs())
		}
	}
}

// ApplySeed focuses a run on a known tool. Later results whose first
// publication is one of the seed's publications are absorbed into the first
// result and dropped. The suggestion named by the seed is moved to the front
// of the first result, ahead of the score order, and seed URLs missing from
// its abstract links are added.
func ApplySeed(results []*types.Result, seed types.Seed) []*types.Result {
	if len(results) == 0 || seed.IsEmpty() {
		return results
	}
	first := results[0]

	out := []*types.Result{first}
	for _, r := range results[1:] {
		if seeded(r.FirstPubIDs(), seed.Publications) {
			Absorb(first, r)
			continue
		}
		out = append(out, r)
	}

	if name := textnorm.ProcessString(seed.Name); name != "" {
		for k, s := range first.Suggestions {
			if s.Processed == name {
				copy(first.Suggestions[1:k+1], first.Suggestions[:k])
				first.Suggestions[0] = s
				break
			}
		}
	}

	if top := first.Top(); top != nil {
		for _, u := range seed.WebpageURLs {
			u = strings.TrimSpace(u)
			if u == "" || hasTrimmed(top.LinksAbstract, u) {
				continue
			}
			top.AddLinksAbstract([]string{textnorm.PrependHTTP(u)})
		}
	}
	return out
}

func seeded(ids types.PubIDs, provided []types.PubIDs) bool {
	ids = ids.Trimmed()
	for _, p := range provided {
		if ids.SamePublication(p.Trimmed()) {
			return true
		}
	}
	return false
}

func hasTrimmed(links []string, u string) bool {
	t := textnorm.TrimURL(u)
	for _, l := range links {
		if textnorm.TrimURL(l) == t {
			return true
		}
	}
	return false
}
