package timekeeper

import (
	"fmt"
	"time"

	"github.com/mixer/clock"

	"simpletimer/internal/core/model"
)

// TimeKeeper decides on each poll whether the configured interval has elapsed.
//
// Deadlines are wall-clock instants. Readings are stripped of Go's monotonic
// component, so a system clock change moves "now" with it: a backward jump
// delays the next elapse, a forward jump brings it early. Switching to a
// monotonic source would avoid both but also stop suspend time from counting.
//
// TimeKeeper has a single owner and is not safe for concurrent use.
type TimeKeeper struct {
	clock    clock.Clock
	policy   Policy
	enabled  bool
	interval model.Interval
	deadline time.Time
	armed    bool
	memory   uint32
}

// New creates a TimeKeeper with the provided configuration.
func New(config model.TimerConfig, source clock.Clock) (*TimeKeeper, error) {
	if source == nil {
		source = clock.DefaultClock{}
	}
	if err := config.Interval.Validate(); err != nil {
		return nil, fmt.Errorf("new timekeeper: %w", err)
	}
	policy := PolicyFromConfig(config)
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("new timekeeper: %w", err)
	}

	return &TimeKeeper{
		clock:    source,
		policy:   policy,
		enabled:  config.Enabled,
		interval: config.Interval,
	}, nil
}

// Tick polls the clock and reports whether the armed deadline has passed.
// The first tick after arming never reports an elapse.
func (keeper *TimeKeeper) Tick() bool {
	if !keeper.enabled {
		return false
	}

	now := keeper.now()
	if !keeper.armed {
		keeper.arm(now)
		return false
	}

	// now == deadline is not an elapse.
	if !now.After(keeper.deadline) {
		return false
	}

	keeper.policy.advance(&keeper.memory)
	keeper.arm(now)
	return true
}

// SetEnabled starts or stops ticking. Disabling disarms so that re-enabling
// arms a fresh deadline instead of firing on a stale one.
func (keeper *TimeKeeper) SetEnabled(enabled bool) {
	keeper.enabled = enabled
	if !enabled {
		keeper.disarm()
	}
}

// Pause is SetEnabled(false).
func (keeper *TimeKeeper) Pause() {
	keeper.SetEnabled(false)
}

// Resume is SetEnabled(true).
func (keeper *TimeKeeper) Resume() {
	keeper.SetEnabled(true)
}

// Enabled reports whether ticking is active.
func (keeper *TimeKeeper) Enabled() bool {
	return keeper.enabled
}

// SetPolicy replaces the policy, resets its memory to the start of the cycle
// and disarms.
func (keeper *TimeKeeper) SetPolicy(policy Policy) error {
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("set policy: %w", err)
	}
	keeper.policy = policy
	keeper.memory = memoryWork
	keeper.disarm()
	return nil
}

// Policy returns the active policy.
func (keeper *TimeKeeper) Policy() Policy {
	return keeper.policy
}

// SetInterval replaces the fixed interval. Out-of-range values are rejected,
// never clamped. The new interval applies from the next arm.
func (keeper *TimeKeeper) SetInterval(interval model.Interval) error {
	normalized, err := model.NewInterval(interval.Hour, interval.Minute, interval.Second)
	if err != nil {
		return fmt.Errorf("set interval: %w", err)
	}
	keeper.interval = normalized
	keeper.disarm()
	return nil
}

// SetIntervalSeconds is SetInterval for a count of seconds.
func (keeper *TimeKeeper) SetIntervalSeconds(seconds int) error {
	interval, err := model.IntervalFromSeconds(seconds)
	if err != nil {
		return fmt.Errorf("set interval: %w", err)
	}
	return keeper.SetInterval(interval)
}

// Interval returns the fixed interval.
func (keeper *TimeKeeper) Interval() model.Interval {
	return keeper.interval
}

// Deadline returns the armed deadline, if any.
func (keeper *TimeKeeper) Deadline() (time.Time, bool) {
	return keeper.deadline, keeper.armed
}

// Snapshot returns a read-only view of the current state.
func (keeper *TimeKeeper) Snapshot() Status {
	status := Status{
		Enabled:  keeper.enabled,
		Interval: keeper.interval,
		Policy:   keeper.policy.Kind,
		Phase:    keeper.policy.phase(&keeper.memory),
		Current:  keeper.policy.interval(keeper.interval, &keeper.memory),
		Armed:    keeper.armed,
		Deadline: keeper.deadline,
	}
	if keeper.armed {
		status.Remaining = keeper.deadline.Sub(keeper.now())
		if status.Remaining < 0 {
			status.Remaining = 0
		}
	}
	return status
}

func (keeper *TimeKeeper) arm(now time.Time) {
	keeper.deadline = now.Add(keeper.policy.interval(keeper.interval, &keeper.memory))
	keeper.armed = true
}

func (keeper *TimeKeeper) disarm() {
	keeper.deadline = time.Time{}
	keeper.armed = false
}

func (keeper *TimeKeeper) now() time.Time {
	return keeper.clock.Now().Round(0)
}
