package app

import (
	"time"

	"simpletimer/internal/core/timekeeper"
)

// EventType defines the type of Controller event.
type EventType string

const (
	EventStatus     EventType = "status"
	EventElapsed    EventType = "elapsed"
	EventInfo       EventType = "info"
	EventShowWindow EventType = "show_window"
	EventQuit       EventType = "quit"
)

// Event represents a Controller update for observers.
type Event struct {
	Type    EventType
	Status  timekeeper.Status
	Message string
	Err     error
	At      time.Time
}

// mustDeliver reports events that must not be dropped when a subscriber lags.
func (eventType EventType) mustDeliver() bool {
	return eventType == EventShowWindow || eventType == EventQuit
}

// Menu item ids understood by the Controller.
const (
	MenuShow   = "show"
	MenuPause  = "pause"
	MenuNotify = "notify"
	MenuQuit   = "quit"
)
