// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"strings"

	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/pkg/types"
)

// DescriptionLimit caps the length of a description in characters.
const DescriptionLimit = 1000

// Describe builds a description for sg: the homepage title from the cache,
// then the abstract sentences of the first publication that mention the
// name, or its first sentence when none does.
func Describe(r *types.Result, sg *types.Suggestion, cache fetchcache.Lookup) string {
	if sg == nil {
		return ""
	}
	var parts []string
	if cache != nil && !sg.HomepageBroken && !sg.HomepageMissing && sg.Homepage != "" {
		if e := fetchcache.Any(cache, sg.Homepage, false); e != nil && !e.Broken {
			if title := strings.TrimSpace(e.Title); title != "" {
				parts = append(parts, title)
			}
		}
	}
	if len(r.Publications) > 0 {
		if s := mentioning(r.Publications[0].AbstractSentences, sg.Extracted); s != "" {
			parts = append(parts, s)
		}
	}
	return truncate(strings.Join(parts, "\n\n"), DescriptionLimit)
}

func mentioning(sentences []string, name string) string {
	var picked []string
	lower := strings.ToLower(name)
	for _, s := range sentences {
		if lower != "" && strings.Contains(strings.ToLower(s), lower) {
			picked = append(picked, strings.TrimSpace(s))
		}
	}
	if len(picked) == 0 && len(sentences) > 0 {
		picked = append(picked, strings.TrimSpace(sentences[0]))
	}
	return strings.Join(picked, " ")
}

// truncate cuts s to at most limit characters, at a word boundary when
// one exists.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexAny(cut, " \n"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
