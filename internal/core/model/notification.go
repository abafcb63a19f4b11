package model

import "fmt"

// TimeoutMode selects how long a desktop notification stays visible.
type TimeoutMode string

const (
	TimeoutDefault      TimeoutMode = "default"
	TimeoutNever        TimeoutMode = "never"
	TimeoutMilliseconds TimeoutMode = "milliseconds"
)

// Timeout is the display timeout of a notification.
type Timeout struct {
	Mode         TimeoutMode
	Milliseconds uint32
}

// Notification is the content shown when the interval elapses.
type Notification struct {
	AppName string
	Summary string
	Body    string
	Icon    string
	// Sound is only honoured on Windows.
	Sound   string
	Timeout Timeout
}

// DefaultNotification returns the notification shown when nothing is configured.
func DefaultNotification(appName string) Notification {
	return Notification{
		AppName: appName,
		Summary: "Time is up",
		Body:    "The interval has elapsed.",
		Timeout: Timeout{Mode: TimeoutDefault},
	}
}

// ParseTimeout builds a Timeout from its settings form.
func ParseTimeout(mode string, milliseconds uint32) (Timeout, error) {
	switch TimeoutMode(mode) {
	case "", TimeoutDefault:
		return Timeout{Mode: TimeoutDefault}, nil
	case TimeoutNever:
		return Timeout{Mode: TimeoutNever}, nil
	case TimeoutMilliseconds:
		if milliseconds == 0 {
			return Timeout{}, fmt.Errorf("timeout mode %q needs a positive value", mode)
		}
		return Timeout{Mode: TimeoutMilliseconds, Milliseconds: milliseconds}, nil
	}
	return Timeout{}, fmt.Errorf("unknown timeout mode %q", mode)
}
