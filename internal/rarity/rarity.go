// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rarity answers how rare a term is across the publication corpus
// the first pass was run on. Rare terms make better tool names.
package rarity

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Table is an inverse document frequency table. A zero Table reports every
// term as maximally common.
type Table struct {
	docs int
	df   map[string]int
}

// New builds a table from a document count and per-term document frequencies.
func New(docs int, df map[string]int) *Table {
	return &Table{docs: docs, df: df}
}

// Load reads a table from path. See Read for the format.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening idf file: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// Read parses a table: the first line holds the total document count, every
// following line "term<TAB>document frequency". Blank lines are skipped.
func Read(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	t := &Table{df: make(map[string]int)}
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if t.docs == 0 {
			n, err := strconv.Atoi(text)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("line %d: document count %q is not a positive integer", line, text)
			}
			t.docs = n
			continue
		}
		term, count, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected term and count separated by a tab", line)
		}
		df, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || df <= 0 {
			return nil, fmt.Errorf("line %d: document frequency %q is not a positive integer", line, count)
		}
		t.df[term] = df
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if t.docs == 0 {
		return nil, fmt.Errorf("missing document count")
	}
	return t, nil
}

// Len returns the number of known terms.
func (t *Table) Len() int {
	return len(t.df)
}

// IDF returns ln(N/df) for term. Unknown terms count as appearing in one
// document.
func (t *Table) IDF(term string) float64 {
	if t == nil || t.docs <= 0 {
		return 0
	}
	df := t.df[term]
	if df <= 0 {
		df = 1
	}
	if df > t.docs {
		df = t.docs
	}
	return math.Log(float64(t.docs) / float64(df))
}

// Shifted returns (IDF + shift) / (ln N + shift) clamped to [0, 1]: 1 for a
// term seen at most once, 0 for a term in every document when shift is 0.
func (t *Table) Shifted(term string, shift float64) float64 {
	if t == nil || t.docs <= 1 {
		return 0
	}
	denom := math.Log(float64(t.docs)) + shift
	if denom <= 0 {
		return 0
	}
	v := (t.IDF(term) + shift) / denom
	return math.Max(0, math.Min(1, v))
}
