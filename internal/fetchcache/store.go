// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetchcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/toolscout/pkg/types"
)

var tables = map[Kind]string{
	KindWebpage: "webpages",
	KindDoc:     "docs",
}

// Store is a SQLite-backed cache. Reads go through an in-process memo so
// repeated lookups of the same URL during a run hit the database once.
// Store is safe for concurrent use.
type Store struct {
	db *sql.DB

	mu   sync.RWMutex
	memo map[memoKey]*Entry

	misses    atomic.Int64
	errs      atomic.Int64
	lookupErr func(url string, err error)
}

type memoKey struct {
	kind Kind
	url  string
}

// Stats summarises the cache contents and lookup behaviour.
type Stats struct {
	Webpages       int   `json:"webpages" yaml:"webpages"`
	WebpagesBroken int   `json:"webpages_broken" yaml:"webpages_broken"`
	Docs           int   `json:"docs" yaml:"docs"`
	DocsBroken     int   `json:"docs_broken" yaml:"docs_broken"`
	RequiredMisses int64 `json:"required_misses" yaml:"required_misses"`
	LookupErrors   int64 `json:"lookup_errors" yaml:"lookup_errors"`
}

// Open opens or creates the cache database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("cache path is empty")
	}
	dsn := cfg.Path + "?_journal_mode=WAL"
	if cfg.ReadOnly {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		dsn = "file:" + cfg.Path + "?mode=ro"
	} else if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	s := &Store{db: db, memo: make(map[memoKey]*Entry)}
	if !cfg.ReadOnly {
		if err := s.createSchema(); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// OnLookupError registers a callback for database errors hit during
// lookups. Such errors are otherwise treated as cache misses.
func (s *Store) OnLookupError(fn func(url string, err error)) {
	s.lookupErr = fn
}

func (s *Store) createSchema() error {
	var statements []string
	for _, table := range []string{tables[KindWebpage], tables[KindDoc]} {
		statements = append(statements, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			url TEXT PRIMARY KEY,
			broken INTEGER NOT NULL,
			status_code INTEGER,
			license TEXT,
			language TEXT,
			title TEXT,
			fetched_at TEXT
		)`, table))
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Webpage implements Lookup.
func (s *Store) Webpage(url string, required bool) *Entry {
	return s.lookup(KindWebpage, url, required)
}

// Doc implements Lookup.
func (s *Store) Doc(url string, required bool) *Entry {
	return s.lookup(KindDoc, url, required)
}

func (s *Store) lookup(kind Kind, url string, required bool) *Entry {
	k := memoKey{kind: kind, url: Key(url)}

	s.mu.RLock()
	e, ok := s.memo[k]
	s.mu.RUnlock()

	if !ok {
		var err error
		e, err = s.Get(context.Background(), kind, k.url)
		if err != nil {
			s.errs.Add(1)
			if s.lookupErr != nil {
				s.lookupErr(k.url, err)
			}
			return nil
		}
		s.mu.Lock()
		s.memo[k] = e
		s.mu.Unlock()
	}

	if e == nil && required {
		s.misses.Add(1)
	}
	return e
}

// Get reads one entry. It returns nil without error when the URL is not cached.
func (s *Store) Get(ctx context.Context, kind Kind, url string) (*Entry, error) {
	table, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown cache kind %q", kind)
	}

	var (
		e         Entry
		broken    int
		status    sql.NullInt64
		license   sql.NullString
		language  sql.NullString
		title     sql.NullString
		fetchedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT url, broken, status_code, license, language, title, fetched_at FROM `+table+` WHERE url = ?`,
		Key(url),
	).Scan(&e.URL, &broken, &status, &license, &language, &title, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}

	e.Broken = broken != 0
	e.StatusCode = int(status.Int64)
	e.License = license.String
	e.Language = language.String
	e.Title = title.String
	if fetchedAt.Valid {
		if t, err := time.Parse(time.RFC3339, fetchedAt.String); err == nil {
			e.FetchedAt = t
		}
	}
	return &e, nil
}

// Has reports whether url is cached under kind.
func (s *Store) Has(ctx context.Context, kind Kind, url string) (bool, error) {
	e, err := s.Get(ctx, kind, url)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

// Put inserts or replaces entries in one transaction.
func (s *Store) Put(ctx context.Context, kind Kind, entries ...Entry) error {
	table, ok := tables[kind]
	if !ok {
		return fmt.Errorf("unknown cache kind %q", kind)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO `+table+` (url, broken, status_code, license, language, title, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		broken := 0
		if e.Broken {
			broken = 1
		}
		fetchedAt := e.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, Key(e.URL), broken, e.StatusCode,
			e.License, e.Language, e.Title, fetchedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting %s: %w", e.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	s.mu.Lock()
	for _, e := range entries {
		delete(s.memo, memoKey{kind: kind, url: Key(e.URL)})
	}
	s.mu.Unlock()
	return nil
}

// Stats counts cached entries and reports lookup misses and errors so far.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT count(*) FROM webpages`, &st.Webpages},
		{`SELECT count(*) FROM webpages WHERE broken != 0`, &st.WebpagesBroken},
		{`SELECT count(*) FROM docs`, &st.Docs},
		{`SELECT count(*) FROM docs WHERE broken != 0`, &st.DocsBroken},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("counting cache entries: %w", err)
		}
	}
	st.RequiredMisses = s.misses.Load()
	st.LookupErrors = s.errs.Load()
	return st, nil
}
