// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads the existing catalog snapshot and matches result
// suggestions against it. Entries are referenced by their index in the
// snapshot; the snapshot is never modified after loading.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// Catalog is a loaded snapshot plus the per-entry values the matcher
// compares against.
type Catalog struct {
	entries []types.CatalogEntry

	namesExtracted [][]string
	namesProcessed []string
	idsCompare     []string
	links          [][]string
	publications   [][]types.PubIDs

	unusable int
}

type listing struct {
	Count int                  `json:"count"`
	List  []types.CatalogEntry `json:"list"`
}

// Load reads a catalog snapshot file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return c, nil
}

// Read decodes a snapshot given either as a JSON array of entries or as an
// object {"count": n, "list": [...]}.
func Read(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty catalog")
	}

	var entries []types.CatalogEntry
	if data[0] == '[' {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decoding entries: %w", err)
		}
	} else {
		var l listing
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("decoding listing: %w", err)
		}
		entries = l.List
	}
	return New(entries), nil
}

// New indexes entries.
func New(entries []types.CatalogEntry) *Catalog {
	c := &Catalog{entries: entries}
	for i := range entries {
		e := &entries[i]

		extracted := strings.Fields(textnorm.TrimExtractedVersion(strings.Join(strings.Fields(e.Name), " ")))
		c.namesExtracted = append(c.namesExtracted, extracted)
		c.namesProcessed = append(c.namesProcessed, textnorm.TrimProcessedVersion(textnorm.ProcessString(e.Name)))
		c.idsCompare = append(c.idsCompare, textnorm.AlphanumOnly(textnorm.TrimProcessedVersion(strings.ToLower(e.ID))))

		var links []string
		for _, l := range e.AllLinks() {
			if t := textnorm.TrimURL(l); t != "" {
				links = append(links, t)
			}
		}
		c.links = append(c.links, links)

		var pubs []types.PubIDs
		for _, p := range e.Publications {
			t := p.Trimmed()
			if t.IsEmpty() {
				c.unusable++
				continue
			}
			pubs = append(pubs, t)
		}
		c.publications = append(c.publications, pubs)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entry returns the entry at index i.
func (c *Catalog) Entry(i int) *types.CatalogEntry {
	return &c.entries[i]
}

// Entries returns the snapshot. Callers must not modify it.
func (c *Catalog) Entries() []types.CatalogEntry {
	return c.entries
}

// UnusablePublications counts entry publications without any identifier.
// They are ignored when matching.
func (c *Catalog) UnusablePublications() int {
	return c.unusable
}
