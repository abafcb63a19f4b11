package timekeeper

import (
	"fmt"
	"time"

	"simpletimer/internal/core/model"
)

// Phase identifies which interval a policy is currently counting.
type Phase string

const (
	PhaseInterval Phase = "interval"
	PhaseWork     Phase = "work"
	PhaseBreak    Phase = "break"
)

// Memory values used by the alternating policy.
const (
	memoryWork  uint32 = 0
	memoryBreak uint32 = 1
)

// Policy decides which interval to arm and how its memory moves on each elapse.
// Fixed uses the keeper's interval; Alternating flips between Work and Break.
type Policy struct {
	Kind  model.PolicyKind
	Work  time.Duration
	Break time.Duration
}

// Fixed returns the single-interval policy.
func Fixed() Policy {
	return Policy{Kind: model.PolicyFixed}
}

// Alternating returns a work/break policy that starts in work mode.
func Alternating(work, rest time.Duration) Policy {
	return Policy{Kind: model.PolicyAlternating, Work: work, Break: rest}
}

// PolicyFromConfig selects the policy named by the configuration.
func PolicyFromConfig(config model.TimerConfig) Policy {
	if config.Policy == model.PolicyAlternating {
		return Alternating(config.Alternating.Work, config.Alternating.Break)
	}
	return Fixed()
}

// Validate rejects unknown kinds and alternating halves outside (0, 24h).
func (policy Policy) Validate() error {
	switch policy.Kind {
	case model.PolicyFixed:
		return nil
	case model.PolicyAlternating:
		for _, half := range []time.Duration{policy.Work, policy.Break} {
			if half < time.Second || half >= model.MaxInterval {
				return fmt.Errorf("%w: alternating half %s", model.ErrIntervalOutOfRange, half)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown policy %q", policy.Kind)
}

// phase reads the memory, resetting values it does not recognise to work.
func (policy Policy) phase(memory *uint32) Phase {
	switch policy.Kind {
	case model.PolicyAlternating:
		switch *memory {
		case memoryWork:
			return PhaseWork
		case memoryBreak:
			return PhaseBreak
		default:
			*memory = memoryWork
			return PhaseWork
		}
	default:
		return PhaseInterval
	}
}

// interval is the duration to arm for the current memory.
func (policy Policy) interval(base model.Interval, memory *uint32) time.Duration {
	switch policy.phase(memory) {
	case PhaseWork:
		return policy.Work
	case PhaseBreak:
		return policy.Break
	default:
		return base.Duration()
	}
}

// advance moves the memory to the next half of the cycle.
func (policy Policy) advance(memory *uint32) {
	switch policy.phase(memory) {
	case PhaseWork:
		*memory = memoryBreak
	case PhaseBreak:
		*memory = memoryWork
	}
}
