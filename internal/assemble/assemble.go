// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble turns the matches and evidence of each result into
// proposed updates of existing catalog entries and into new entries.
// Results are added one at a time in output order; diffs for the same
// entry are merged across results.
package assemble

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/toolscout/internal/catalog"
	"github.com/pdiddy/toolscout/internal/evidence"
	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// PossiblyRelatedLimit is the largest number of leftover link matches
// listed as possibly related.
const PossiblyRelatedLimit = 5

// unscoredOffset lifts first-pass scores above every secondary score in
// the diff ordering column.
const unscoredOffset = 10000

// Outcome is what adding one result produced.
type Outcome struct {
	// Existing lists the catalog indices a diff was made against, in
	// category order.
	Existing []int

	Description string

	// Record is the new entry proposed for the result, nil when none was
	// proposed or it duplicated an earlier one.
	Record *types.NewToolRecord
}

// Builder accumulates diffs and new records over a run.
type Builder struct {
	Catalog    *catalog.Catalog
	Cache      fetchcache.Lookup
	Bands      types.ConfidenceBands
	IncludeAll bool
	Logger     *zap.Logger

	diffs   []*types.Diff
	byEntry map[int]*types.Diff
	records []*types.NewToolRecord
}

func (b *Builder) bands() types.ConfidenceBands {
	return b.Bands.WithDefaults()
}

func (b *Builder) log() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Add processes the top suggestion of r. include is the inclusion
// decision and ev the evidence gathered for the suggestion.
func (b *Builder) Add(r *types.Result, include bool, ev *evidence.Evidence) Outcome {
	sg := r.Top()
	out := Outcome{Description: Describe(r, sg, b.Cache)}
	if sg == nil {
		return out
	}
	if ev == nil {
		ev = &evidence.Evidence{}
	}
	confident := b.bands().Confident(sg)

	score := sg.Score2
	if !sg.HasScore2() {
		score = sg.Score + unscoredOffset
	}
	p := &proposal{
		scoreScore2: score,
		confident:   confident,
		ids:         r.PubIDs(),
		license:     ev.BestAbstractLicense,
		languages:   ev.AbstractLanguagesUnique,
		credits:     ev.Credits,
	}
	if confident {
		p.homepage = ev.Homepage
		p.links, p.downloads, p.documentation = sg.Links, sg.Downloads, sg.Documentation
		p.license, p.languages = ev.BestLicense, ev.AllLanguages
	}

	var promotedNPD, promotedName []int
	if confident {
		var related []int
		var linkUsed []int
		if include {
			promote := func(entry int) bool {
				if k := slices.IndexFunc(r.LinkMatch, func(m types.LinkMatch) bool { return m.Entry == entry }); k >= 0 {
					linkUsed = append(linkUsed, k)
					return true
				}
				return b.creditMatch(entry, ev.Credits)
			}
			for _, m := range sg.MatchesOf(types.MatchNamePublicationDifferent) {
				if promote(m.Entry) {
					promotedNPD = append(promotedNPD, m.Entry)
				}
			}
			for _, entry := range r.NameMatch {
				if promote(entry) {
					promotedName = append(promotedName, entry)
				}
			}
		}
		for _, m := range sg.MatchesOf(types.MatchNamePublicationDifferent) {
			if !slices.Contains(promotedNPD, m.Entry) {
				related = appendInt(related, m.Entry)
			}
		}
		for _, entry := range r.NameMatch {
			if !slices.Contains(promotedName, entry) {
				related = appendInt(related, entry)
			}
		}
		var leftover []int
		for k, m := range r.LinkMatch {
			if !slices.Contains(linkUsed, k) {
				leftover = append(leftover, m.Entry)
			}
		}
		if len(leftover) <= PossiblyRelatedLimit {
			related = appendInt(related, leftover...)
		}
		p.possiblyRelated = related
	}

	others := titleOthers(r)
	skip := func(entry int) bool {
		if len(others) == 0 {
			return false
		}
		return b.namedByOther(entry, others, strings.ReplaceAll(sg.Processed, " ", ""))
	}

	for _, kind := range []types.MatchKind{
		types.MatchPublicationAndName,
		types.MatchNameSomePublicationDifferent,
		types.MatchSomePublicationNameDifferent,
	} {
		for _, m := range sg.MatchesOf(kind) {
			if skip(m.Entry) {
				continue
			}
			name := ""
			if kind == types.MatchSomePublicationNameDifferent && confident {
				name = sg.Extracted
			}
			b.addDiff(makeDiff(p, m.Entry, b.Catalog.Entry(m.Entry), name))
			out.Existing = append(out.Existing, m.Entry)
		}
	}

	// Promotions only exist for confident suggestions, so p is the full proposal.
	for _, entry := range promotedNPD {
		b.addDiff(makeDiff(p, entry, b.Catalog.Entry(entry), ""))
		out.Existing = append(out.Existing, entry)
	}
	for _, entry := range promotedName {
		b.addDiff(makeDiff(p, entry, b.Catalog.Entry(entry), sg.Extracted))
		out.Existing = append(out.Existing, entry)
	}

	if (len(out.Existing) == 0 && include) || b.IncludeAll {
		rec := b.record(r, sg, include, ev, out)
		if b.duplicate(rec) {
			b.log().Warn("assemble: already proposed, omitting",
				zap.String("name", rec.Name),
				zap.String("publications", joinIDs(rec.Publications)))
		} else {
			b.records = append(b.records, rec)
			out.Record = rec
		}
	}
	return out
}

// creditMatch reports whether a credit of entry names one of credits.
func (b *Builder) creditMatch(entry int, credits []types.CorrespAuthor) bool {
	for _, c := range b.Catalog.Entry(entry).Credits {
		for _, ca := range credits {
			if textnorm.SamePerson(ca.Name, ca.ORCID, ca.Email, c.Name, c.ORCID, c.Email) {
				return true
			}
		}
	}
	return false
}

// titleOthers returns the first significant word of every other tool named
// in the publication titles, in processed form.
func titleOthers(r *types.Result) []string {
	var out []string
	for _, pub := range r.Publications {
		for _, other := range pub.ToolTitleOthers {
			for _, part := range textnorm.SplitNotAlphanum(other) {
				part = textnorm.TrimTitleDigits(strings.Join(textnorm.Process(part), ""))
				if len([]rune(part)) > 1 {
					out = append(out, part)
					break
				}
			}
		}
	}
	return out
}

// namedByOther reports whether entry's id or name contains another tool
// title while not being the suggestion itself.
func (b *Builder) namedByOther(entry int, others []string, processed string) bool {
	e := b.Catalog.Entry(entry)
	id := textnorm.AlphanumOnly(textnorm.Fold(e.ID))
	name := textnorm.AlphanumOnly(textnorm.Fold(e.Name))
	if processed == id || processed == name {
		return false
	}
	for _, other := range others {
		if strings.Contains(id, other) || strings.Contains(name, other) {
			return true
		}
	}
	return false
}

func (b *Builder) addDiff(d *types.Diff) {
	if b.byEntry == nil {
		b.byEntry = make(map[int]*types.Diff)
	}
	if prev, ok := b.byEntry[d.Existing]; ok {
		mergeDiff(prev, d)
		return
	}
	b.byEntry[d.Existing] = d
	b.diffs = append(b.diffs, d)
}

// Diffs returns the diffs to emit, one per entry in first-seen order. An
// entry that receives a diff is removed from every possibly-related list.
func (b *Builder) Diffs() []*types.Diff {
	emitted := make(map[int]bool)
	var out []*types.Diff
	for _, d := range b.diffs {
		if d.Include() {
			emitted[d.Existing] = true
			out = append(out, d)
		}
	}
	for _, d := range out {
		d.PossiblyRelated = slices.DeleteFunc(d.PossiblyRelated, func(i int) bool { return emitted[i] })
	}
	return out
}

// Records returns the new entries in the order they were proposed.
func (b *Builder) Records() []*types.NewToolRecord {
	return b.records
}

func (b *Builder) duplicate(rec *types.NewToolRecord) bool {
	for _, prev := range b.records {
		if prev.Name == rec.Name && prev.SharesPublication(rec) {
			return true
		}
	}
	return false
}

func (b *Builder) record(r *types.Result, sg *types.Suggestion, include bool, ev *evidence.Evidence, out Outcome) *types.NewToolRecord {
	rec := &types.NewToolRecord{
		Name:           sg.Extracted,
		Description:    out.Description,
		Homepage:       sg.Homepage,
		Links:          []types.CatalogLink{},
		Downloads:      []types.CatalogDownload{},
		Documentation:  []types.CatalogLink{},
		Publications:   []types.PubIDs{},
		Credits:        []types.Credit{},
		Languages:      types.ProvenanceValues(ev.AllLanguages),
		ConfidenceFlag: b.bands().Of(sg),
	}
	if ev.BestLicense != nil {
		rec.License = ev.BestLicense.Value
	}
	for _, l := range sg.Links {
		rec.Links = append(rec.Links, types.CatalogLink{URL: l.URL, Types: []string{l.Type}})
	}
	for _, l := range sg.Downloads {
		rec.Downloads = append(rec.Downloads, types.CatalogDownload{URL: l.URL, Type: l.Type})
	}
	for _, l := range sg.Documentation {
		rec.Documentation = append(rec.Documentation, types.CatalogLink{URL: l.URL, Types: []string{l.Type}})
	}
	for _, id := range r.PubIDs() {
		if !id.IsEmpty() && !types.ContainsPublication(rec.Publications, id) {
			rec.Publications = append(rec.Publications, id)
		}
	}
	for _, ca := range ev.Credits {
		rec.Credits = append(rec.Credits, types.Credit{
			Name:       ca.Name,
			ORCID:      ca.ORCID,
			Email:      ca.Email,
			URL:        ca.URI,
			TypeEntity: "Person",
		})
	}
	if b.IncludeAll {
		rec.Status = b.status(r, sg, include, out.Existing)
	}
	return rec
}

func (b *Builder) status(r *types.Result, sg *types.Suggestion, include bool, existing []int) *types.ToolStatus {
	s := &types.ToolStatus{
		Score:                                sg.Score,
		Include:                              include,
		Existing:                             nilIfEmpty(b.Catalog.IDs(existing)),
		PublicationAndNameExisting:           nilIfEmpty(b.Catalog.MatchLabels(sg, types.MatchPublicationAndName)),
		NameExistingSomePublicationDifferent: nilIfEmpty(b.Catalog.MatchLabels(sg, types.MatchNameSomePublicationDifferent)),
		SomePublicationExistingNameDifferent: nilIfEmpty(b.Catalog.MatchLabels(sg, types.MatchSomePublicationNameDifferent)),
		NameExistingPublicationDifferent:     nilIfEmpty(b.Catalog.MatchLabels(sg, types.MatchNamePublicationDifferent)),
		NameMatch:                            nilIfEmpty(b.Catalog.NameMatchLabels(r)),
		LinkMatch:                            nilIfEmpty(b.Catalog.LinkMatchLabels(r)),
		NameWordMatch:                        nilIfEmpty(b.Catalog.NameWordMatchLabels(r)),
		HomepageBroken:                       sg.HomepageBroken,
		HomepageMissing:                      sg.HomepageMissing,
	}
	if sg.HasScore2() {
		score2, parts := sg.Score2, sg.Parts
		s.Score2, s.Score2Parts = &score2, &parts
	}
	return s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func appendInt(dst []int, values ...int) []int {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func joinIDs(ids []types.PubIDs) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, " ; ")
}
