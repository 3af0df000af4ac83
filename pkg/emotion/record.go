package emotion

import (
	"fmt"
	"time"
)

// MinIntensity is the threshold at or below which a record is dropped
// from the live set.
const MinIntensity = 0.0

// Default parameters for records created by incoming events.
const (
	DefaultDecayRate     = 0.01
	DefaultAmplification = 1.0
)

// Record is the accumulated feeling of one basic emotion toward one
// target. At most one record exists per (target, label) pair.
type Record struct {
	Label         BasicEmotion `json:"label"`
	Target        string       `json:"target"`
	Intensity     float64      `json:"intensity"`
	DecayRate     float64      `json:"decay_rate"`
	Amplification float64      `json:"amplification"`
	LastUpdated   time.Time    `json:"last_updated"`
}

// NewRecord builds a record and validates its bounds. Out-of-range
// values are a programming error, not a runtime condition, so they are
// rejected here instead of being clamped.
func NewRecord(label BasicEmotion, target string, intensity, decayRate, amplification float64, now time.Time) (*Record, error) {
	if _, ok := ParseBasicEmotion(string(label)); !ok {
		return nil, fmt.Errorf("unknown emotion label %q", label)
	}
	if intensity < 0 || intensity > 1 {
		return nil, fmt.Errorf("intensity %.4f out of range [0,1]", intensity)
	}
	if decayRate < 0 || decayRate > 1 {
		return nil, fmt.Errorf("decay rate %.4f out of range [0,1]", decayRate)
	}
	if amplification < 0 {
		return nil, fmt.Errorf("amplification %.4f must be >= 0", amplification)
	}
	return &Record{
		Label:         label,
		Target:        target,
		Intensity:     intensity,
		DecayRate:     decayRate,
		Amplification: amplification,
		LastUpdated:   now,
	}, nil
}
