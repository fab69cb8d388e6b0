// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terms recognises licenses and programming languages in free text
// and holds the deny phrases that exclude publications from becoming new
// catalog entries. The vocabularies are YAML resources embedded in the
// binary; Parse accepts replacements.
package terms

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed resources/*.yaml
var resources embed.FS

const (
	boundaryStart = `(^|[^\p{L}\p{N}])`
	boundaryEnd   = `([^\p{L}\p{N}+#]|$)`
)

// vocabulary is the on-disk form of a recognizer.
type vocabulary struct {
	Keywords []string `yaml:"keywords"`
	Terms    []struct {
		Name     string   `yaml:"name"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"terms"`
}

type denyList struct {
	Abstract []string `yaml:"abstract"`
	Title    []string `yaml:"title"`
}

type term struct {
	name     string
	patterns []*regexp.Regexp
	lengths  []int
}

// Recognizer finds canonical terms in text.
type Recognizer struct {
	terms    []term
	keywords []*regexp.Regexp
}

// Set bundles the recognizers and deny patterns a run needs.
type Set struct {
	Licenses    *Recognizer
	Languages   *Recognizer
	NotAbstract []*regexp.Regexp
	NotTitle    []*regexp.Regexp
}

// Default returns the embedded vocabularies.
func Default() (*Set, error) {
	read := func(name string) []byte {
		data, err := resources.ReadFile("resources/" + name)
		if err != nil {
			panic(fmt.Sprintf("embedded resource %s: %v", name, err))
		}
		return data
	}
	return Parse(read("licenses.yaml"), read("languages.yaml"), read("deny.yaml"))
}

// Parse builds a Set from license, language and deny-list YAML documents.
func Parse(licenses, languages, deny []byte) (*Set, error) {
	lic, err := parseRecognizer(licenses)
	if err != nil {
		return nil, fmt.Errorf("parsing licenses: %w", err)
	}
	lang, err := parseRecognizer(languages)
	if err != nil {
		return nil, fmt.Errorf("parsing languages: %w", err)
	}
	var d denyList
	if err := yaml.Unmarshal(deny, &d); err != nil {
		return nil, fmt.Errorf("parsing deny list: %w", err)
	}

	s := &Set{Licenses: lic, Languages: lang}
	for _, phrase := range d.Abstract {
		if p := NotPattern(phrase); p != nil {
			s.NotAbstract = append(s.NotAbstract, p)
		}
	}
	for _, phrase := range d.Title {
		if p := NotPattern(phrase); p != nil {
			s.NotTitle = append(s.NotTitle, p)
		}
	}
	return s, nil
}

func parseRecognizer(data []byte) (*Recognizer, error) {
	var v vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	r := &Recognizer{}
	for _, kw := range v.Keywords {
		re, err := regexp.Compile(`(?i)` + boundaryStart + `(` + kw + `)` + boundaryEnd)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", kw, err)
		}
		r.keywords = append(r.keywords, re)
	}
	for _, t := range v.Terms {
		if t.Name == "" {
			return nil, fmt.Errorf("term without name")
		}
		patterns := t.Patterns
		if len(patterns) == 0 {
			patterns = []string{t.Name}
		}
		tt := term{name: t.Name}
		for _, p := range patterns {
			tt.patterns = append(tt.patterns, literalPattern(p))
			tt.lengths = append(tt.lengths, len(p))
		}
		r.terms = append(r.terms, tt)
	}
	return r, nil
}

// literalPattern matches phrase as whole words. Phrases of one or two
// characters ("R", "C") are matched case-sensitively.
func literalPattern(phrase string) *regexp.Regexp {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	flags := `(?i)`
	if len(phrase) <= 2 {
		flags = ""
	}
	return regexp.MustCompile(flags + boundaryStart + `(` + strings.Join(words, `[\s_-]+`) + `)` + boundaryEnd)
}

// NotPattern compiles a deny phrase: its words in order, case-insensitive,
// separated by any non-alphanumeric run and bounded by non-alphanumerics.
// It returns nil for a blank phrase.
func NotPattern(phrase string) *regexp.Regexp {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)([^\p{L}\p{N}]|^)` + strings.Join(words, `[^\p{L}\p{N}]+`) + `([^\p{L}\p{N}]|$)`)
}

// eligible reports whether text may be searched. Whole texts (a value read
// from a webpage's license or language field) always are; sentences need a
// keyword.
func (r *Recognizer) eligible(text string, whole bool) bool {
	if whole || len(r.keywords) == 0 {
		return true
	}
	for _, kw := range r.keywords {
		if kw.MatchString(text) {
			return true
		}
	}
	return false
}

// matchLength returns the length of the longest pattern of t found in text,
// or 0.
func (t *term) matchLength(text string) int {
	best := 0
	for i, p := range t.patterns {
		if t.lengths[i] > best && p.MatchString(text) {
			best = t.lengths[i]
		}
	}
	return best
}

// BestMatch returns the canonical term named by the longest matching phrase
// in text. Ties go to the term listed first.
func (r *Recognizer) BestMatch(text string, whole bool) (string, bool) {
	if r == nil || strings.TrimSpace(text) == "" || !r.eligible(text, whole) {
		return "", false
	}
	best, bestLen := "", 0
	for i := range r.terms {
		if n := r.terms[i].matchLength(text); n > bestLen {
			best, bestLen = r.terms[i].name, n
		}
	}
	return best, bestLen > 0
}

// Matches returns every canonical term named in text, in vocabulary order.
func (r *Recognizer) Matches(text string, whole bool) []string {
	if r == nil || strings.TrimSpace(text) == "" || !r.eligible(text, whole) {
		return nil
	}
	var out []string
	for i := range r.terms {
		if r.terms[i].matchLength(text) > 0 {
			out = append(out, r.terms[i].name)
		}
	}
	return out
}

// DeniedAbstract reports whether sentence contains an abstract deny phrase.
func (s *Set) DeniedAbstract(sentence string) bool {
	return anyMatch(s.NotAbstract, sentence)
}

// DeniedTitle reports whether title contains a title deny phrase.
func (s *Set) DeniedTitle(title string) bool {
	return anyMatch(s.NotTitle, title)
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
