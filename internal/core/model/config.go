package model

import (
	"fmt"
	"math"
	"time"
)

// PolicyKind names a tick policy variant.
type PolicyKind string

const (
	PolicyFixed       PolicyKind = "fixed"
	PolicyAlternating PolicyKind = "alternating"
)

// PolicyKinds lists the selectable policies in display order.
var PolicyKinds = []PolicyKind{PolicyFixed, PolicyAlternating}

// ParsePolicyKind accepts a policy name as written in settings or the UI.
func ParsePolicyKind(name string) (PolicyKind, error) {
	switch PolicyKind(name) {
	case PolicyFixed, PolicyAlternating:
		return PolicyKind(name), nil
	}
	return "", fmt.Errorf("unknown policy %q", name)
}

const (
	DefaultCheckRate = 3 * time.Second
	MinCheckRate     = time.Millisecond
	MaxCheckRate     = time.Hour
)

// DefaultInterval is the interval used before any settings are loaded.
var DefaultInterval = MustInterval(0, 30, 0)

// AlternatingConfig holds the two halves of a work/break cycle.
type AlternatingConfig struct {
	Work  time.Duration
	Break time.Duration
}

// TimerConfig contains the values the timer is constructed with.
type TimerConfig struct {
	Enabled     bool
	Interval    Interval
	Policy      PolicyKind
	Alternating AlternatingConfig
	CheckRate   time.Duration
}

// DefaultTimerConfig returns the start-up configuration.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Enabled:  true,
		Interval: DefaultInterval,
		Policy:   PolicyFixed,
		Alternating: AlternatingConfig{
			Work:  25 * time.Minute,
			Break: 5 * time.Minute,
		},
		CheckRate: DefaultCheckRate,
	}
}

// ValidateCheckRate rejects poll cadences outside [MinCheckRate, MaxCheckRate].
func ValidateCheckRate(rate time.Duration) error {
	if rate < MinCheckRate || rate > MaxCheckRate {
		return fmt.Errorf("check rate %s must be between %s and %s", rate, MinCheckRate, MaxCheckRate)
	}
	return nil
}

// CheckRateFromSeconds converts a cadence given in (possibly fractional)
// seconds, rounded to the millisecond. Bounds are checked before conversion.
func CheckRateFromSeconds(seconds float64) (time.Duration, error) {
	if math.IsNaN(seconds) || seconds < MinCheckRate.Seconds() || seconds > MaxCheckRate.Seconds() {
		return 0, fmt.Errorf("check rate %gs must be between %s and %s", seconds, MinCheckRate, MaxCheckRate)
	}
	rate := time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
	if err := ValidateCheckRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}
