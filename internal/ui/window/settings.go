package window

import (
	"time"

	"simpletimer/internal/core/model"
)

// Theme names accepted in settings.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Settings defines editable user preferences.
type Settings struct {
	Interval      model.Interval
	CheckRate     time.Duration
	Policy        model.PolicyKind
	WorkDuration  time.Duration
	BreakDuration time.Duration
	StartPaused   bool
	Autostart     bool
	Theme         string

	Notification model.Notification
}

// DefaultSettings returns default settings for the given app name.
func DefaultSettings(appName string) Settings {
	timer := model.DefaultTimerConfig()
	return Settings{
		Interval:      timer.Interval,
		CheckRate:     timer.CheckRate,
		Policy:        timer.Policy,
		WorkDuration:  timer.Alternating.Work,
		BreakDuration: timer.Alternating.Break,
		Theme:         ThemeDark,
		Notification:  model.DefaultNotification(appName),
	}
}

// TimerConfig converts settings to the timer's start-up configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		Enabled:  !settings.StartPaused,
		Interval: settings.Interval,
		Policy:   settings.Policy,
		Alternating: model.AlternatingConfig{
			Work:  settings.WorkDuration,
			Break: settings.BreakDuration,
		},
		CheckRate: settings.CheckRate,
	}
}
