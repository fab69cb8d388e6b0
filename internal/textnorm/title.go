// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import (
	"regexp"
	"strings"
)

var (
	extractedVersionTrim = regexp.MustCompile(`\s+[vV]?\d+(\.\d+)*$`)
	processedVersionTrim = regexp.MustCompile(`\s+v?\d+(\s\d+)*$`)
	pathSplit            = regexp.MustCompile(`[/\\_.?=&#]+`)
	trailingDigits       = regexp.MustCompile(`\d+$`)
)

// pruneLeading and pruneTrailing are generic words that surround tool names
// in titles ("the X toolkit", "X: a web server").
var (
	pruneLeading = map[string]bool{
		"a": true, "an": true, "the": true, "new": true, "novel": true,
	}
	pruneTrailing = map[string]bool{
		"tool": true, "tools": true, "toolkit": true, "toolbox": true,
		"software": true, "package": true, "pipeline": true, "server": true,
		"webserver": true, "web": true, "database": true, "db": true,
		"platform": true, "framework": true, "suite": true, "program": true,
		"app": true, "application": true, "service": true, "library": true,
		"portal": true, "resource": true, "plugin": true, "method": true,
	}
)

// acronymSkip are words an acronym may leave out ("Analysis OF Data" -> AD).
var acronymSkip = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true, "for": true,
	"from": true, "in": true, "of": true, "on": true, "the": true, "to": true,
	"with": true,
}

// TrimExtractedVersion removes a trailing version ("Tool v2.1" -> "Tool").
func TrimExtractedVersion(s string) string {
	return extractedVersionTrim.ReplaceAllString(s, "")
}

// TrimProcessedVersion removes a trailing version from processed text
// ("tool v2 1" -> "tool").
func TrimProcessedVersion(s string) string {
	return processedVersionTrim.ReplaceAllString(s, "")
}

// SplitPath replaces URL path separators in a link-derived name with spaces.
func SplitPath(s string) string {
	return strings.TrimSpace(pathSplit.ReplaceAllString(s, " "))
}

// TrimTitleDigits removes trailing digits from a processed title part.
func TrimTitleDigits(s string) string {
	return trailingDigits.ReplaceAllString(s, "")
}

// ToolTitlePrune drops generic leading and trailing words from a name while
// at least one word remains, and returns the rest joined by spaces.
func ToolTitlePrune(words []string) string {
	start, end := 0, len(words)
	for end-start > 1 && pruneLeading[strings.ToLower(words[start])] {
		start++
	}
	for end-start > 1 && pruneTrailing[strings.ToLower(words[end-1])] {
		end--
	}
	return strings.Join(words[start:end], " ")
}

// IsAcronym reports whether acronym can be spelled from the leading letters
// of the words of expansion. Every word contributes a non-empty prefix except
// short function words, which may be skipped. Case and punctuation are ignored.
func IsAcronym(acronym, expansion string) bool {
	letters := []rune(AlphanumOnly(Fold(acronym)))
	words := Process(expansion)
	if len(letters) < 2 || len(words) < 2 {
		return false
	}
	sp := &speller{letters: letters, words: words, failed: make(map[[2]int]bool)}
	for _, w := range words {
		sp.runes = append(sp.runes, []rune(w))
	}
	return sp.spells(0, 0)
}

// speller matches letters[i:] against words[j:]. Failed (i, j) pairs are
// remembered, so each pair is tried at most once.
type speller struct {
	letters []rune
	words   []string
	runes   [][]rune
	failed  map[[2]int]bool
}

func (sp *speller) spells(i, j int) bool {
	if j == len(sp.words) {
		return i == len(sp.letters)
	}
	key := [2]int{i, j}
	if sp.failed[key] {
		return false
	}
	if sp.try(i, j) {
		return true
	}
	sp.failed[key] = true
	return false
}

func (sp *speller) try(i, j int) bool {
	if i == len(sp.letters) {
		for _, w := range sp.words[j:] {
			if !acronymSkip[w] {
				return false
			}
		}
		return true
	}
	if acronymSkip[sp.words[j]] && sp.spells(i, j+1) {
		return true
	}
	word := sp.runes[j]
	for k := 1; k <= len(word) && i+k <= len(sp.letters); k++ {
		if sp.letters[i+k-1] != word[k-1] {
			break
		}
		if sp.spells(i+k, j+1) {
			return true
		}
	}
	return false
}
