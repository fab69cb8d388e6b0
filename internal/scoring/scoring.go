// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes the secondary score of every suggestion of a
// result. The secondary score starts from the first-pass score and adds
// four independent bonuses: a live link, agreement with the publication's
// tool title, name casing, and term rarity.
package scoring

import (
	"context"
	"math"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// Link evidence bonuses.
const (
	AbstractLinkBonus     = 1000.0
	FulltextLinkBonus     = 500.0
	FromAbstractLinkBonus = 400.0
	notTopLinkDivider     = 2.0
)

// Title match bonuses by match level 1 (strongest) to 5.
var titleBonus = [...]float64{0, 900, 600, 400, 250, 150}

// maxOriginalWordsForAcronym bounds the size of a title tool name that a
// suggestion may be an acronym of.
const maxOriginalWordsForAcronym = 6

// Casing bonuses.
const (
	CaseLowerBonus    = 100.0
	CaseCapitalBonus  = 200.0
	CaseUpperBonus    = 300.0
	CaseMixedBonus    = 400.0
	casePerWordMalus  = 100.0
	minScoreMixedIDF  = 3.5
	minScoreUpperIDF  = 7.0
	minScoreMixedIDF2 = 12.1
)

// Rarity contribution: Shifted(term)^idfPower * idfMultiplier, averaged.
const (
	idfPower      = 5.0
	idfMultiplier = 500.0
)

var (
	caseHyphen  = regexp.MustCompile(`^(\p{Lu}.*)-(\p{Lu})(.*)$`)
	casePlural  = regexp.MustCompile(`^(.*\p{Lu})s$`)
	caseLower   = regexp.MustCompile(`^\p{Ll}+$`)
	caseCapital = regexp.MustCompile(`^\p{Lu}\p{Ll}+$`)
	caseUpper   = regexp.MustCompile(`^\p{Lu}+$`)
	caseAny     = regexp.MustCompile(`\p{L}`)
)

// Rarity is the term-rarity collaborator.
type Rarity interface {
	Shifted(term string, shift float64) float64
}

// Scorer computes secondary scores. Cache and Rarity are only read.
type Scorer struct {
	Cache  fetchcache.Lookup
	Rarity Rarity

	// Workers bounds ScoreAll's parallelism (default 4).
	Workers int
}

// Scorable reports whether the secondary score is computed for r: its top
// suggestion must have a non-empty processed name.
func Scorable(r *types.Result) bool {
	top := r.Top()
	return top != nil && strings.TrimSpace(top.Processed) != ""
}

// ScoreAll scores every result in parallel. Each goroutine touches only its
// own result. done, if non-nil, is called once per result and must be safe
// for concurrent use.
func (s *Scorer) ScoreAll(ctx context.Context, results []*types.Result, done func()) error {
	workers := s.Workers
	if workers <= 0 {
		workers = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, r := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.Score(r)
			if done != nil {
				done()
			}
			return nil
		})
	}
	return g.Wait()
}

// Score computes the secondary score of every suggestion of r and re-sorts
// the suggestions. Results that are not Scorable are left untouched.
func (s *Scorer) Score(r *types.Result) {
	if !Scorable(r) {
		return
	}
	for _, sg := range r.Suggestions {
		sg.Score2 = sg.Score
		sg.Parts = types.ScoreParts{}
	}

	s.linkEvidence(r)
	titleMatch(r)
	for _, sg := range r.Suggestions {
		casing(sg)
		s.rarity(sg)
		rarityBonus(sg)
	}
	r.SortSuggestions()
}

func (s *Scorer) alive(url string) bool {
	return s.Cache != nil && fetchcache.Alive(s.Cache, url)
}

// linkEvidence rewards the first live link of each suggestion, abstract
// links before fulltext links. Suggestions other than the top one get half,
// unless their first-pass score ties the top's.
func (s *Scorer) linkEvidence(r *types.Result) {
	firstScore := r.Suggestions[0].Score
	for i, sg := range r.Suggestions {
		divider := 1.0
		if i > 0 && sg.Score != firstScore {
			divider = notTopLinkDivider
		}

		part := 0.0
		for _, u := range sg.LinksAbstract {
			if s.alive(u) {
				part = AbstractLinkBonus
				if sg.FromAbstractLink {
					part = FromAbstractLinkBonus
				}
				break
			}
		}
		if part == 0 {
			for _, u := range sg.LinksFulltext {
				if s.alive(u) {
					part = FulltextLinkBonus
					break
				}
			}
		}
		if part > 0 {
			sg.Parts.LinkEvidence = part / divider
			sg.Score2 += sg.Parts.LinkEvidence
		}
	}
}

// TitleLevel returns the strength (1 strongest, 5 weakest, 0 none) of the
// agreement between a suggestion and the tool title of the publication.
func TitleLevel(extracted, titlePruned, titleAcronym, titleOriginal string) int {
	titleTokens := textnorm.Process(titlePruned)
	title := strings.Join(titleTokens, " ")
	acronym := textnorm.ProcessString(titleAcronym)
	originalWords := len(strings.Split(titleOriginal, " "))
	originalUsable := titleOriginal != "" && originalWords <= maxOriginalWordsForAcronym

	pruned := textnorm.ProcessString(textnorm.ToolTitlePrune(strings.Split(extracted, " ")))
	n := len([]rune(pruned))

	switch {
	case n > 2:
		switch {
		case title == pruned:
			return len(titleTokens)
		case acronym == pruned:
			return 1
		case title != "" && textnorm.IsAcronym(title, extracted),
			acronym != "" && textnorm.IsAcronym(acronym, extracted),
			originalUsable && textnorm.IsAcronym(pruned, titleOriginal):
			return 2
		case strings.Contains(title, pruned):
			return len(titleTokens) + 1
		}
	case n > 0:
		switch {
		case title == pruned, acronym == pruned:
			return 1
		case originalUsable && textnorm.IsAcronym(pruned, titleOriginal):
			return 2
		}
	}
	return 0
}

// titleMatch compares every suggestion against the tool title of the
// result's first publication.
func titleMatch(r *types.Result) {
	if len(r.Publications) == 0 {
		return
	}
	pub := r.Publications[0]
	for _, sg := range r.Suggestions {
		level := TitleLevel(sg.Extracted, pub.ToolTitlePruned, pub.ToolTitleAcronym, pub.ToolTitleExtractedOriginal)
		if level > 0 && level < len(titleBonus) {
			sg.Parts.TitleMatch = titleBonus[level]
			sg.Score2 += sg.Parts.TitleMatch
		}
	}
}

// CasingBonus classifies each word of a name by its casing and returns the
// bonus of the weakest-looking word, less a malus per extra word. Names
// derived from a link are split on path separators first.
func CasingBonus(extracted string, fromLink bool) float64 {
	if fromLink {
		extracted = textnorm.SplitPath(extracted)
	}
	words := strings.Split(textnorm.ToolTitlePrune(strings.Split(extracted, " ")), " ")

	weakest := -1.0
	for _, w := range words {
		if m := caseHyphen.FindStringSubmatch(w); m != nil {
			w = m[1] + strings.ToLower(m[2]) + m[3]
		}
		w = strings.ReplaceAll(w, "-", "")
		if m := casePlural.FindStringSubmatch(w); m != nil {
			w = m[1]
		}

		var bonus float64
		switch {
		case caseLower.MatchString(w):
			bonus = CaseLowerBonus
		case caseCapital.MatchString(w):
			bonus = CaseCapitalBonus
		case caseUpper.MatchString(w):
			bonus = CaseUpperBonus
		case caseAny.MatchString(w):
			bonus = CaseMixedBonus
		default:
			continue
		}
		if weakest < 0 || bonus < weakest {
			weakest = bonus
		}
	}
	return weakest - float64(len(words)-1)*casePerWordMalus
}

func casing(sg *types.Suggestion) {
	if bonus := CasingBonus(sg.Extracted, sg.FromAbstractLink); bonus > 0 {
		sg.Parts.Casing = bonus
		sg.Score2 += bonus
	}
}

func (s *Scorer) rarity(sg *types.Suggestion) {
	if s.Rarity == nil {
		return
	}
	tokens := strings.Split(sg.Processed, " ")
	sum := 0.0
	for _, t := range tokens {
		sum += math.Pow(s.Rarity.Shifted(t, 0), idfPower) * idfMultiplier
	}
	if sum > 0 {
		sg.Parts.Rarity = sum / float64(len(tokens))
		sg.Score2 += sg.Parts.Rarity
	}
}

// rarityBonus adds a copy of the rarity contribution to distinctively cased
// names with a high enough first-pass score. The copy is recorded under
// Casing. Mixed-case names with a very high score get another half copy.
func rarityBonus(sg *types.Suggestion) {
	mixed := sg.Parts.Casing == CaseMixedBonus
	upper := sg.Parts.Casing == CaseUpperBonus
	if !(mixed && sg.Score >= minScoreMixedIDF || upper && sg.Score >= minScoreUpperIDF) {
		return
	}
	part := sg.Parts.Rarity
	if mixed && sg.Score >= minScoreMixedIDF2 {
		part += sg.Parts.Rarity / 2
	}
	sg.Parts.Casing += part
	sg.Score2 += part
}
