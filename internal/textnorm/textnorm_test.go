// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldAndProcess(t *testing.T) {
	assert.Equal(t, "elan vital", Fold("Élan Vital"))
	assert.Equal(t, []string{"blast", "v2", "0"}, Process("BLAST+ v2.0"))
	assert.Equal(t, "deep tools", ProcessString("  deep-Tools!! "))
	assert.Empty(t, Process("--- ..."))
	assert.Equal(t, "ab12", AlphanumOnly("a-b_1.2"))
}

func TestIsAcronym(t *testing.T) {
	tests := []struct {
		name      string
		acronym   string
		expansion string
		want      bool
	}{
		{name: "one letter per word", acronym: "BLAST", expansion: "Basic Local Alignment Search Tool", want: true},
		{name: "skipped function words", acronym: "DAVID", expansion: "Database for Annotation, Visualization and Integrated Discovery", want: true},
		{name: "multi-letter prefixes", acronym: "ProDom", expansion: "Protein Domain", want: true},
		{name: "punctuation and case ignored", acronym: "b.l.a.s.t.", expansion: "basic local alignment search tool", want: true},
		{name: "trailing function word", acronym: "AD", expansion: "analysis data of", want: true},
		{name: "diacritics folded", acronym: "EM", expansion: "Élan Motif", want: true},
		{name: "letters left over", acronym: "BLAST", expansion: "Basic Local", want: false},
		{name: "word left unused", acronym: "AD", expansion: "analysis big data", want: false},
		{name: "prefix must be contiguous", acronym: "GATK", expansion: "Genome Analysis Toolkit", want: false},
		{name: "single letter", acronym: "A", expansion: "analysis data", want: false},
		{name: "single word", acronym: "AB", expansion: "abc", want: false},
		{name: "empty", acronym: "", expansion: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAcronym(tt.acronym, tt.expansion))
		})
	}
}

func TestIsAcronym_RepeatedLetters(t *testing.T) {
	words := strings.TrimSpace(strings.Repeat("aaaa ", 40))
	assert.False(t, IsAcronym(strings.Repeat("a", 60)+"b", words))
	assert.True(t, IsAcronym(strings.Repeat("a", 80), words))
	assert.True(t, IsAcronym(strings.Repeat("a", 40), words))
}

func TestToolTitlePrune(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  string
	}{
		{name: "leading and trailing", words: []string{"The", "BLAST", "server"}, want: "BLAST"},
		{name: "keeps last word", words: []string{"the", "tool"}, want: "tool"},
		{name: "only generic", words: []string{"tool"}, want: "tool"},
		{name: "several generic", words: []string{"a", "new", "web", "server"}, want: "web"},
		{name: "nothing to prune", words: []string{"Deep", "Tools"}, want: "Deep Tools"},
		{name: "empty", words: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolTitlePrune(tt.words))
		})
	}
}

func TestVersionTrims(t *testing.T) {
	assert.Equal(t, "Tool", TrimExtractedVersion("Tool v2.1"))
	assert.Equal(t, "Tool", TrimExtractedVersion("Tool 2"))
	assert.Equal(t, "Tool2", TrimExtractedVersion("Tool2"))
	assert.Equal(t, "Tool", TrimExtractedVersion("Tool"))

	assert.Equal(t, "tool", TrimProcessedVersion("tool v2 1"))
	assert.Equal(t, "tool", TrimProcessedVersion("tool 3"))
	assert.Equal(t, "tool v", TrimProcessedVersion("tool v"))

	assert.Equal(t, "tool", TrimTitleDigits("tool42"))
	assert.Equal(t, "github com user tool", SplitPath("github.com/user_tool"))
}

func TestTrimURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://www.Tool.io/Docs/", want: "tool.io/Docs"},
		{in: "http://tool.io///", want: "tool.io"},
		{in: "tool.io", want: "tool.io"},
		{in: "ftp://Example.org/x", want: "example.org/x"},
		{in: "  https://a.org?x=1 ", want: "a.org?x=1"},
		{in: "localhost/", want: "localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimURL(tt.in))
		})
	}
}

func TestRemoveLowestSubdomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "sub.tool.io/x", want: "tool.io/x"},
		{in: "a.b.c", want: "b.c"},
		{in: "tool.io/x", want: "tool.io/x"},
		{in: "tool.io/a.b", want: "tool.io/a.b"},
		{in: "localhost/a.b.c", want: "localhost/a.b.c"},
		{in: "localhost", want: "localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveLowestSubdomain(tt.in))
		})
	}
}

func TestURLShape(t *testing.T) {
	valid := []string{"https://tool.org", "ftp://x.org/a", "https://localhost", "HTTP://Tool.org/x?y=1"}
	for _, u := range valid {
		assert.True(t, ValidURL(u), u)
	}
	invalid := []string{"http://bad url", "tool.org", "https://.org", "http://x", "gopher://tool.org", ""}
	for _, u := range invalid {
		assert.False(t, ValidURL(u), u)
	}

	assert.Equal(t, "http://tool.org", PrependHTTP(" tool.org "))
	assert.Equal(t, "https://a.org", PrependHTTP("https://a.org"))
	assert.Equal(t, "ftp://a.org", PrependHTTP("ftp://a.org"))
	assert.Empty(t, PrependHTTP(""))

	assert.True(t, IsDownload("https://a.org/t.tar.gz"))
	assert.True(t, IsDownload("https://a.org/t.zip?dl=1"))
	assert.False(t, IsDownload("https://a.org/zip"))
}

func TestSamePerson(t *testing.T) {
	tests := []struct {
		name string
		a, b [3]string
		want bool
	}{
		{name: "name with diacritics", a: [3]string{"José Pérez", "", ""}, b: [3]string{"jose perez", "", ""}, want: true},
		{name: "orcid with resolver", a: [3]string{"", "https://orcid.org/0000-0001-2345-678x", ""}, b: [3]string{"", "0000-0001-2345-678X", ""}, want: true},
		{name: "email case", a: [3]string{"", "", "A@B.org"}, b: [3]string{"", "", " a@b.org"}, want: true},
		{name: "different people", a: [3]string{"Ada", "0000-0001", "ada@x.org"}, b: [3]string{"Alan", "0000-0002", "alan@x.org"}, want: false},
		{name: "all empty", want: false},
		{name: "only one side has orcid", a: [3]string{"", "0000-0001", ""}, b: [3]string{"", "", ""}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SamePerson(tt.a[0], tt.a[1], tt.a[2], tt.b[0], tt.b[1], tt.b[2]))
		})
	}
}
