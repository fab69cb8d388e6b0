// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch populates the fetch cache ahead of a run. Every candidate
// link of the first-pass input is requested once; the status, the page
// title and any license or programming language the page declares are
// stored. Runs never fetch; they only read what this package stored.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/httputil"
	"github.com/pdiddy/toolscout/internal/links"
	"github.com/pdiddy/toolscout/internal/terms"
	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

const (
	defaultRequestsPerSecond = 2
	defaultBurst             = 1
	defaultWorkers           = 4
	defaultMaxRetries        = 3
	defaultMaxBodyBytes      = 2 << 20
	defaultTimeout           = 30 * time.Second
	defaultUserAgent         = "toolscout/0.1"
)

// Target is one URL to fetch and the cache table it belongs in.
type Target struct {
	URL  string
	Kind fetchcache.Kind
}

// Targets lists the links of every suggestion in the first-pass records,
// in input order without duplicates. Links classified as documentation go
// to the docs table; everything else to webpages. Links that fail the URL
// shape check are left out.
func Targets(records []types.FirstPassRecord) []Target {
	seen := make(map[Target]bool)
	var out []Target
	for _, rec := range records {
		for _, sg := range rec.Suggestions {
			for _, raw := range append(append([]string{}, sg.LinksAbstract...), sg.LinksFulltext...) {
				if strings.TrimSpace(raw) == "" {
					continue
				}
				l := links.Classify(raw)
				if !textnorm.ValidURL(l.URL) {
					continue
				}
				t := Target{URL: fetchcache.Key(l.URL), Kind: fetchcache.KindWebpage}
				if l.Kind == types.KindDocumentation {
					t.Kind = fetchcache.KindDoc
				}
				if !seen[t] {
					seen[t] = true
					out = append(out, t)
				}
			}
		}
	}
	return out
}

// Sink is the write side of the cache.
type Sink interface {
	Has(ctx context.Context, kind fetchcache.Kind, url string) (bool, error)
	Put(ctx context.Context, kind fetchcache.Kind, entries ...fetchcache.Entry) error
}

// Summary counts what a prefetch did.
type Summary struct {
	Fetched     int
	Broken      int
	Skipped     int
	Unsupported int
	Failed      int
}

// Total returns the number of targets processed.
func (s Summary) Total() int {
	return s.Fetched + s.Skipped + s.Unsupported + s.Failed
}

// Fetcher requests pages and records them in a Sink.
type Fetcher struct {
	Client *http.Client
	Config types.PrefetchConfig
	Terms  *terms.Set
	Sink   Sink
	Logger *zap.Logger

	limiter *rate.Limiter
}

// New returns a Fetcher with the defaults filled in for zero config values.
func New(cfg types.PrefetchConfig, sink Sink, set *terms.Set, logger *zap.Logger) *Fetcher {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		Client:  &http.Client{Timeout: cfg.Timeout},
		Config:  cfg,
		Terms:   set,
		Sink:    sink,
		Logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// Run fetches every target with a bounded worker pool sharing one rate
// limiter and prints one status line per target to w. Failures of single
// URLs are counted, not returned; Run fails only when the context ends or
// the cache cannot be written.
func (f *Fetcher) Run(ctx context.Context, targets []Target, w io.Writer) (Summary, error) {
	var (
		mu  sync.Mutex
		sum Summary
	)
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.Config.Workers)
	for _, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !f.Config.Refresh {
				has, err := f.Sink.Has(gctx, t.Kind, t.URL)
				if err != nil {
					return fmt.Errorf("checking cache for %s: %w", t.URL, err)
				}
				if has {
					mu.Lock()
					sum.Skipped++
					mu.Unlock()
					return nil
				}
			}
			if !supported(t.URL) {
				mu.Lock()
				sum.Unsupported++
				mu.Unlock()
				report("unsupported: %s\n", t.URL)
				return nil
			}

			e, err := f.Fetch(gctx, t.URL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				sum.Failed++
				mu.Unlock()
				f.Logger.Warn("fetch: request failed", zap.String("url", t.URL), zap.Error(err))
				report("failed:  %s (%v)\n", t.URL, err)
				return nil
			}
			if err := f.Sink.Put(gctx, t.Kind, e); err != nil {
				return fmt.Errorf("storing %s: %w", t.URL, err)
			}

			mu.Lock()
			sum.Fetched++
			if e.Broken {
				sum.Broken++
			}
			mu.Unlock()
			status := "ok"
			if e.Broken {
				status = "broken"
			}
			report("%-7s %s (%s, %d)\n", status+":", t.URL, t.Kind, e.StatusCode)
			return nil
		})
	}
	err := g.Wait()
	return sum, err
}

// supported reports whether Fetch can check url: HTTP, HTTPS and FTP.
func supported(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || isFTP(lower)
}

func isFTP(url string) bool {
	return strings.HasPrefix(strings.ToLower(url), "ftp://")
}

// Fetch requests url and returns its cache entry. A response with status
// 400 or above, or a transport error other than cancellation, yields a
// broken entry rather than an error; an error is returned only when the
// request could not be built or the rate limiter wait was cancelled. FTP
// URLs are only probed for a reachable server.
func (f *Fetcher) Fetch(ctx context.Context, url string) (fetchcache.Entry, error) {
	e := fetchcache.Entry{URL: url, FetchedAt: time.Now().UTC()}
	if err := f.limiter.Wait(ctx); err != nil {
		return e, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	if isFTP(url) {
		return f.probe(ctx, e)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return e, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, f.Config.MaxRetries, f.Logger)
	if err != nil {
		if ctx.Err() != nil {
			return e, ctx.Err()
		}
		f.Logger.Debug("fetch: transport error, marking broken", zap.String("url", url), zap.Error(err))
		e.Broken = true
		return e, nil
	}
	defer resp.Body.Close()

	e.StatusCode = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		e.Broken = true
		return e, nil
	}

	page, err := f.read(resp)
	if err != nil {
		f.Logger.Debug("fetch: reading body", zap.String("url", url), zap.Error(err))
		return e, nil
	}
	e.Title = page.title
	e.License, e.Language = f.sniff(page.text)
	return e, nil
}

// probe marks e broken unless a TCP connection to its host succeeds. The
// port defaults to 21.
func (f *Fetcher) probe(ctx context.Context, e fetchcache.Entry) (fetchcache.Entry, error) {
	u, err := neturl.Parse(e.URL)
	if err != nil || u.Hostname() == "" {
		e.Broken = true
		return e, nil
	}
	port := u.Port()
	if port == "" {
		port = "21"
	}
	d := net.Dialer{Timeout: f.Config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(u.Hostname(), port))
	if err != nil {
		if ctx.Err() != nil {
			return e, ctx.Err()
		}
		f.Logger.Debug("fetch: ftp server unreachable, marking broken", zap.String("url", e.URL), zap.Error(err))
		e.Broken = true
		return e, nil
	}
	conn.Close()
	return e, nil
}

type page struct {
	title string
	text  string
}

// read extracts the title and visible text of an HTML page, or the raw
// text of a plain-text one. Other content types give an empty page.
func (f *Fetcher) read(resp *http.Response) (page, error) {
	body := io.LimitReader(resp.Body, f.Config.MaxBodyBytes)
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "html"):
		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return page{}, fmt.Errorf("parsing html: %w", err)
		}
		doc.Find("script, style, noscript").Remove()
		return page{
			title: strings.Join(strings.Fields(doc.Find("title").First().Text()), " "),
			text:  blockText(doc),
		}, nil
	case strings.HasPrefix(ct, "text/"):
		data, err := io.ReadAll(body)
		if err != nil {
			return page{}, err
		}
		return page{text: string(data)}, nil
	}
	return page{}, nil
}

// blockText returns the text of the page's block elements, one per line,
// so that recognizers see sentences rather than the whole page at once.
func blockText(doc *goquery.Document) string {
	var lines []string
	doc.Find("p, li, td, dd, h1, h2, h3, h4, span, a").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 && goquery.NodeName(s) != "p" && goquery.NodeName(s) != "li" {
			return
		}
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n")
}

// sniff returns the first license named on a line of text and every
// programming language named anywhere, joined with ", ".
func (f *Fetcher) sniff(text string) (license, language string) {
	if f.Terms == nil || text == "" {
		return "", ""
	}
	var languages []string
	for _, line := range strings.Split(text, "\n") {
		if license == "" {
			if l, ok := f.Terms.Licenses.BestMatch(line, false); ok {
				license = l
			}
		}
		for _, lang := range f.Terms.Languages.Matches(line, false) {
			if !slices.Contains(languages, lang) {
				languages = append(languages, lang)
			}
		}
	}
	return license, strings.Join(languages, ", ")
}
