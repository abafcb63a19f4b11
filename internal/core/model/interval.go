package model

import (
	"errors"
	"fmt"
	"time"
)

// MaxInterval is the exclusive upper bound for an interval.
const MaxInterval = 24 * time.Hour

// ErrIntervalOutOfRange indicates an interval that is not positive or not below MaxInterval.
var ErrIntervalOutOfRange = errors.New("interval out of range")

// Interval is a duration kept in normalized hour/minute/second form.
// Second and Minute are always within [0, 59].
type Interval struct {
	Hour   int
	Minute int
	Second int
}

// NewInterval folds second and minute overflow upward and validates the result.
func NewInterval(hour, minute, second int) (Interval, error) {
	if err := checkComponents(hour, minute, second); err != nil {
		return Interval{}, err
	}

	minute += second / 60
	second %= 60
	hour += minute / 60
	minute %= 60

	interval := Interval{Hour: hour, Minute: minute, Second: second}
	if err := interval.Validate(); err != nil {
		return Interval{}, err
	}
	return interval, nil
}

// IntervalFromSeconds builds a normalized interval from a number of seconds.
func IntervalFromSeconds(seconds int) (Interval, error) {
	return NewInterval(0, 0, seconds)
}

// IntervalFromDuration truncates the duration to whole seconds.
func IntervalFromDuration(duration time.Duration) (Interval, error) {
	return IntervalFromSeconds(int(duration / time.Second))
}

// MustInterval is NewInterval for constants known to be valid.
func MustInterval(hour, minute, second int) Interval {
	interval, err := NewInterval(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return interval
}

// checkComponents rejects negative components and any single component
// that alone reaches MaxInterval, so that later arithmetic cannot overflow.
func checkComponents(hour, minute, second int) error {
	if hour < 0 || minute < 0 || second < 0 {
		return fmt.Errorf("%w: negative component %02d:%02d:%02d", ErrIntervalOutOfRange, hour, minute, second)
	}
	if hour >= 24 || minute >= 24*60 || second >= 24*60*60 {
		return fmt.Errorf("%w: %02d:%02d:%02d must be below 24:00:00", ErrIntervalOutOfRange, hour, minute, second)
	}
	return nil
}

// Validate reports whether the interval is positive and below MaxInterval.
func (interval Interval) Validate() error {
	if err := checkComponents(interval.Hour, interval.Minute, interval.Second); err != nil {
		return err
	}
	duration := interval.Duration()
	if duration <= 0 || duration >= MaxInterval {
		return fmt.Errorf("%w: %s must be between 1s and 23:59:59", ErrIntervalOutOfRange, interval)
	}
	return nil
}

// Duration converts the interval to a time.Duration.
func (interval Interval) Duration() time.Duration {
	return time.Duration(interval.Hour)*time.Hour +
		time.Duration(interval.Minute)*time.Minute +
		time.Duration(interval.Second)*time.Second
}

// Seconds returns the total number of seconds.
func (interval Interval) Seconds() int {
	return interval.Hour*3600 + interval.Minute*60 + interval.Second
}

func (interval Interval) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", interval.Hour, interval.Minute, interval.Second)
}
