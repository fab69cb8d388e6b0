// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Confidence is the coarse label over a suggestion's score band.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceVeryLow Confidence = "very low"
)

// ConfidenceBands holds the lower bounds of the confidence bands over a
// suggestion's effective score.
type ConfidenceBands struct {
	// High is the minimum effective score for high confidence (default 2000).
	High float64 `json:"high" yaml:"high"`

	// Medium is the minimum effective score for medium confidence (default 1000).
	Medium float64 `json:"medium" yaml:"medium"`

	// Low is the minimum effective score for low confidence (default 500).
	// Anything below is very low.
	Low float64 `json:"low" yaml:"low"`
}

// DefaultConfidenceBands returns the bands used when none are configured.
func DefaultConfidenceBands() ConfidenceBands {
	return ConfidenceBands{High: 2000, Medium: 1000, Low: 500}
}

// WithDefaults replaces an all-zero configuration with the defaults.
func (b ConfidenceBands) WithDefaults() ConfidenceBands {
	if b == (ConfidenceBands{}) {
		return DefaultConfidenceBands()
	}
	return b
}

// Of returns the confidence label of s. A nil suggestion is very low.
func (b ConfidenceBands) Of(s *Suggestion) Confidence {
	if s == nil {
		return ConfidenceVeryLow
	}
	score := s.Effective()
	switch {
	case score >= b.High:
		return ConfidenceHigh
	case score >= b.Medium:
		return ConfidenceMedium
	case score >= b.Low:
		return ConfidenceLow
	}
	return ConfidenceVeryLow
}

// Confident reports whether s is confident: any label above very low.
func (b ConfidenceBands) Confident(s *Suggestion) bool {
	return b.Of(s) != ConfidenceVeryLow
}
