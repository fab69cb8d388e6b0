package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "toolscout/0.1 (mailto:curator@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CacheConfig locates the fetch cache.
type CacheConfig struct {
	// Path is the SQLite database file (default "<dir>/db.sqlite").
	Path string `json:"path" yaml:"path"`

	// ReadOnly opens the database without write access. Runs never write
	// to the cache; prefetch needs ReadOnly false.
	ReadOnly bool `json:"read_only" yaml:"read_only"`
}

// TierThresholds are the primary-score thresholds of one confidence tier.
type TierThresholds struct {
	// High includes unconditionally at or above this score.
	High float64 `json:"high" yaml:"high"`

	// Mid includes at or above this score when one evidence condition holds.
	// Below it two conditions are needed.
	Mid float64 `json:"mid" yaml:"mid"`
}

// InclusionConfig holds the per-tier inclusion thresholds. High confidence
// is always included.
type InclusionConfig struct {
	// Medium tier thresholds (default 24 / 12).
	Medium TierThresholds `json:"medium" yaml:"medium"`

	// Low tier thresholds (default 144 / 24).
	Low TierThresholds `json:"low" yaml:"low"`

	// VeryLow tier thresholds (default 288 / 144).
	VeryLow TierThresholds `json:"very_low" yaml:"very_low"`
}

// DefaultInclusionConfig returns the thresholds used when none are configured.
func DefaultInclusionConfig() InclusionConfig {
	return InclusionConfig{
		Medium:  TierThresholds{High: 24, Mid: 12},
		Low:     TierThresholds{High: 144, Mid: 24},
		VeryLow: TierThresholds{High: 288, Mid: 144},
	}
}

// WithDefaults replaces an all-zero configuration with the defaults.
func (c InclusionConfig) WithDefaults() InclusionConfig {
	if c == (InclusionConfig{}) {
		return DefaultInclusionConfig()
	}
	return c
}

// Seed narrows a run to one known tool: provided publications are merged
// into the first result, the provided name is moved to the front, and the
// provided URLs are added to its abstract links.
type Seed struct {
	Publications []PubIDs `json:"publications,omitempty" yaml:"publications,omitempty"`
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	WebpageURLs  []string `json:"webpage_urls,omitempty" yaml:"webpage_urls,omitempty"`
}

// IsEmpty reports whether the seed provides nothing.
func (s Seed) IsEmpty() bool {
	return len(s.Publications) == 0 && s.Name == "" && len(s.WebpageURLs) == 0
}

// RunConfig holds settings for the second-pass run.
type RunConfig struct {
	// Dir is the working directory holding inputs and receiving outputs.
	Dir string `json:"dir" yaml:"dir"`

	// Pass1File is the first-pass input (default "pass1.json").
	Pass1File string `json:"pass1_file" yaml:"pass1_file"`

	// CatalogFile is the catalog snapshot (default "catalog.json").
	CatalogFile string `json:"catalog_file" yaml:"catalog_file"`

	// IDFFile is the term-rarity table (default "tool.idf").
	IDFFile string `json:"idf_file" yaml:"idf_file"`

	// Cache locates the fetch cache.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// ResultsFile, DiffFile and NewFile name the outputs
	// (defaults "results.tsv", "diff.tsv", "new.json").
	ResultsFile string `json:"results_file" yaml:"results_file"`
	DiffFile    string `json:"diff_file" yaml:"diff_file"`
	NewFile     string `json:"new_file" yaml:"new_file"`

	// Workers bounds parallel scoring and matching (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// IncludeAll emits a new record with a status payload for every result.
	IncludeAll bool `json:"include_all" yaml:"include_all"`

	// Confidence holds the confidence bands.
	Confidence ConfidenceBands `json:"confidence" yaml:"confidence"`

	// Inclusion holds the inclusion thresholds.
	Inclusion InclusionConfig `json:"inclusion" yaml:"inclusion"`

	// DocsBaseURL prefixes column names in the second header row of the
	// TSV outputs. Empty omits the row.
	DocsBaseURL string `json:"docs_base_url" yaml:"docs_base_url"`

	// Seed optionally focuses the run on one tool.
	Seed Seed `json:"seed" yaml:"seed"`
}

// PrefetchConfig holds settings for populating the fetch cache.
type PrefetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Cache locates the fetch cache.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// RequestsPerSecond limits outgoing requests (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the rate limiter burst size (default 1).
	Burst int `json:"burst" yaml:"burst"`

	// Workers is the number of concurrent fetches (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// MaxRetries bounds retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxBodyBytes caps how much of a page is read (default 2 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`

	// Refresh refetches URLs that are already cached.
	Refresh bool `json:"refresh" yaml:"refresh"`
}
