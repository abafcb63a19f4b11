package timekeeper

import (
	"time"

	"simpletimer/internal/core/model"
)

// Status is a point-in-time view of a TimeKeeper for observers.
type Status struct {
	Enabled  bool
	Interval model.Interval
	Policy   model.PolicyKind
	Phase    Phase
	// Current is the length of the active phase.
	Current   time.Duration
	Armed     bool
	Deadline  time.Time
	Remaining time.Duration
}
