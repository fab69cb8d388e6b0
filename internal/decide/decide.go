// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decide makes the inclusion decision for a result's top
// suggestion: whether it is good enough to become a new catalog entry.
package decide

import (
	"regexp"

	"github.com/pdiddy/toolscout/internal/evidence"
	"github.com/pdiddy/toolscout/internal/terms"
	"github.com/pdiddy/toolscout/pkg/types"
)

// HomepageExclude matches homepages of registries, publishers and data
// archives that never host a tool.
var HomepageExclude = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(clinicaltrials\.gov|osf\.io|annualreviews\.org|w3\.org|creativecommons\.org|data\.mendeley\.com|ncbi\.nlm\.nih\.gov/.+=GSE[0-9]+)([^\p{L}]|$)`)

// JournalExclude matches journals that publish reviews only.
var JournalExclude = regexp.MustCompile(`(?i)^(Systematic reviews|The Cochrane Database of Systematic Reviews|Annual review of .*)$`)

// Decider holds the thresholds and deny lists of the decision.
type Decider struct {
	Bands      types.ConfidenceBands
	Thresholds types.InclusionConfig
	Terms      *terms.Set
}

// New returns a Decider with zero-valued settings replaced by defaults.
func New(bands types.ConfidenceBands, thresholds types.InclusionConfig, set *terms.Set) *Decider {
	return &Decider{
		Bands:      bands.WithDefaults(),
		Thresholds: thresholds.WithDefaults(),
		Terms:      set,
	}
}

// Include reports whether sg, the top suggestion of r, should be proposed
// as a new entry given the evidence gathered for it. A nil suggestion is
// never included.
func (d *Decider) Include(r *types.Result, sg *types.Suggestion, ev *evidence.Evidence) bool {
	if sg == nil {
		return false
	}
	if !d.passes(r, sg, ev) {
		return false
	}
	return !d.Excluded(r, sg)
}

// passes applies the tiered score thresholds.
func (d *Decider) passes(r *types.Result, sg *types.Suggestion, ev *evidence.Evidence) bool {
	var tier types.TierThresholds
	switch d.Bands.Of(sg) {
	case types.ConfidenceHigh:
		return true
	case types.ConfidenceMedium:
		tier = d.Thresholds.Medium
	case types.ConfidenceLow:
		tier = d.Thresholds.Low
	default:
		tier = d.Thresholds.VeryLow
	}

	var best *types.Provenance
	var languages []types.Provenance
	if ev != nil {
		best, languages = ev.BestLicense, ev.AllLanguages
	}
	switch {
	case sg.Score >= tier.High:
		return true
	case sg.Score >= tier.Mid:
		return Conditions(sg.HomepageMissing, best, languages, nil) >= 1
	default:
		return Conditions(sg.HomepageMissing, best, languages, r.PubIDs()) >= 2
	}
}

// Conditions counts the supporting evidence: a homepage, a license, a
// language, and, when ids is given, every publication being known by DOI
// alone.
func Conditions(homepageMissing bool, license *types.Provenance, languages []types.Provenance, ids []types.PubIDs) int {
	n := 0
	if !homepageMissing {
		n++
	}
	if license != nil {
		n++
	}
	if len(languages) > 0 {
		n++
	}
	if len(ids) > 0 {
		doiOnly := true
		for _, id := range ids {
			if !id.DOIOnly() {
				doiOnly = false
				break
			}
		}
		if doiOnly {
			n++
		}
	}
	return n
}

// Excluded reports whether a post-filter rejects the result: a denied
// homepage or journal, or a deny phrase in any abstract sentence or title.
func (d *Decider) Excluded(r *types.Result, sg *types.Suggestion) bool {
	if HomepageExclude.MatchString(sg.Homepage) {
		return true
	}
	for _, pub := range r.Publications {
		if JournalExclude.MatchString(pub.JournalTitle) {
			return true
		}
	}
	if d.Terms == nil {
		return false
	}
	for _, pub := range r.Publications {
		for _, sentence := range pub.AbstractSentences {
			if d.Terms.DeniedAbstract(sentence) {
				return true
			}
		}
	}
	for _, pub := range r.Publications {
		if d.Terms.DeniedTitle(pub.Title) {
			return true
		}
	}
	return false
}
