// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetchcache

import "sync"

// Memory is an in-memory Lookup, used for offline runs and tests.
type Memory struct {
	mu       sync.RWMutex
	webpages map[string]Entry
	docs     map[string]Entry
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		webpages: make(map[string]Entry),
		docs:     make(map[string]Entry),
	}
}

// Put stores an entry under kind.
func (m *Memory) Put(kind Kind, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == KindDoc {
		m.docs[Key(e.URL)] = e
		return
	}
	m.webpages[Key(e.URL)] = e
}

// Webpage implements Lookup.
func (m *Memory) Webpage(url string, required bool) *Entry {
	return m.get(m.webpages, url)
}

// Doc implements Lookup.
func (m *Memory) Doc(url string, required bool) *Entry {
	return m.get(m.docs, url)
}

func (m *Memory) get(table map[string]Entry, url string) *Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := table[Key(url)]
	if !ok {
		return nil
	}
	return &e
}
