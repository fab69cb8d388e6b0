// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetchcache stores what is known about fetched webpages and
// documentation pages: whether they are broken and which license and
// language they declare. The scoring and matching stages only read it;
// the prefetch step writes it.
package fetchcache

import (
	"time"

	"github.com/pdiddy/toolscout/internal/textnorm"
)

// Kind selects the table an entry lives in.
type Kind string

const (
	KindWebpage Kind = "webpage"
	KindDoc     Kind = "doc"
)

// Entry is the cached state of one URL.
type Entry struct {
	URL        string    `json:"url" yaml:"url"`
	Broken     bool      `json:"broken" yaml:"broken"`
	StatusCode int       `json:"status_code" yaml:"status_code"`
	License    string    `json:"license,omitempty" yaml:"license,omitempty"`
	Language   string    `json:"language,omitempty" yaml:"language,omitempty"`
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	FetchedAt  time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// Lookup is the read side of the cache. A nil result means the URL is not
// cached. required marks lookups whose absence matters to the caller; it
// never triggers a fetch.
type Lookup interface {
	Webpage(url string, required bool) *Entry
	Doc(url string, required bool) *Entry
}

// Alive reports whether url is cached as a webpage or documentation page
// that is not broken. Only cache hits count.
func Alive(l Lookup, url string) bool {
	if e := l.Webpage(url, false); e != nil && !e.Broken {
		return true
	}
	if e := l.Doc(url, false); e != nil && !e.Broken {
		return true
	}
	return false
}

// Any returns the webpage entry for url, else the doc entry, else nil.
func Any(l Lookup, url string, required bool) *Entry {
	if e := l.Webpage(url, required); e != nil {
		return e
	}
	return l.Doc(url, required)
}

// Key returns the cache key of a link: the trimmed URL with a scheme.
func Key(url string) string {
	return textnorm.PrependHTTP(url)
}
