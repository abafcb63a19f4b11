package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"simpletimer/internal/core/model"
	"simpletimer/internal/core/timekeeper"
	"simpletimer/internal/ui/window"
)

const settingsFileName = "settings.yaml"

type yamlInterval struct {
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
	Second int `yaml:"second"`
}

type yamlTimeout struct {
	Mode         string `yaml:"mode"`
	Milliseconds uint32 `yaml:"milliseconds,omitempty"`
}

type yamlNotification struct {
	AppName string      `yaml:"app_name"`
	Summary string      `yaml:"summary"`
	Body    string      `yaml:"body"`
	Icon    string      `yaml:"icon,omitempty"`
	Sound   string      `yaml:"sound,omitempty"`
	Timeout yamlTimeout `yaml:"timeout"`
}

type yamlSettings struct {
	Interval         yamlInterval     `yaml:"interval"`
	CheckRateSeconds float64          `yaml:"check_rate_seconds"`
	Policy           string           `yaml:"policy"`
	WorkMinutes      int              `yaml:"work_minutes"`
	BreakMinutes     int              `yaml:"break_minutes"`
	StartPaused      bool             `yaml:"start_paused"`
	Autostart        bool             `yaml:"autostart"`
	Theme            string           `yaml:"theme"`
	Notification     yamlNotification `yaml:"notification"`
}

// DefaultSettingsPath returns <user config dir>/<appName>/settings.yaml.
func DefaultSettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, defaults are returned. Fields that fail
// validation keep their defaults and are reported in the returned error.
func LoadSettings(path string, defaults window.Settings) (window.Settings, error) {
	settings := defaults

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	if err := applyYamlSettings(&settings, fileData); err != nil {
		return settings, fmt.Errorf("settings %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings window.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Interval: yamlInterval{
			Hour:   settings.Interval.Hour,
			Minute: settings.Interval.Minute,
			Second: settings.Interval.Second,
		},
		CheckRateSeconds: settings.CheckRate.Seconds(),
		Policy:           string(settings.Policy),
		WorkMinutes:      int(settings.WorkDuration / time.Minute),
		BreakMinutes:     int(settings.BreakDuration / time.Minute),
		StartPaused:      settings.StartPaused,
		Autostart:        settings.Autostart,
		Theme:            settings.Theme,
		Notification: yamlNotification{
			AppName: settings.Notification.AppName,
			Summary: settings.Notification.Summary,
			Body:    settings.Notification.Body,
			Icon:    settings.Notification.Icon,
			Sound:   settings.Notification.Sound,
			Timeout: yamlTimeout{
				Mode:         string(settings.Notification.Timeout.Mode),
				Milliseconds: settings.Notification.Timeout.Milliseconds,
			},
		},
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *window.Settings, fileData yamlSettings) error {
	var errs []error

	if fileData.Interval != (yamlInterval{}) {
		interval, err := model.NewInterval(fileData.Interval.Hour, fileData.Interval.Minute, fileData.Interval.Second)
		if err != nil {
			errs = append(errs, fmt.Errorf("interval: %w", err))
		} else {
			settings.Interval = interval
		}
	}

	if fileData.CheckRateSeconds != 0 {
		rate, err := model.CheckRateFromSeconds(fileData.CheckRateSeconds)
		if err != nil {
			errs = append(errs, err)
		} else {
			settings.CheckRate = rate
		}
	}

	if fileData.Policy != "" {
		policy, err := model.ParsePolicyKind(fileData.Policy)
		if err != nil {
			errs = append(errs, err)
		} else {
			settings.Policy = policy
		}
	}

	if fileData.WorkMinutes != 0 || fileData.BreakMinutes != 0 {
		work, rest, err := alternatingHalves(*settings, fileData.WorkMinutes, fileData.BreakMinutes)
		if err != nil {
			errs = append(errs, fmt.Errorf("work/break: %w", err))
		} else {
			settings.WorkDuration = work
			settings.BreakDuration = rest
		}
	}

	switch fileData.Theme {
	case "":
	case window.ThemeDark, window.ThemeLight:
		settings.Theme = fileData.Theme
	default:
		errs = append(errs, fmt.Errorf("unknown theme %q", fileData.Theme))
	}

	settings.StartPaused = fileData.StartPaused
	settings.Autostart = fileData.Autostart

	notification := fileData.Notification
	if notification.AppName != "" {
		settings.Notification.AppName = notification.AppName
	}
	if notification.Summary != "" {
		settings.Notification.Summary = notification.Summary
	}
	if notification.Body != "" {
		settings.Notification.Body = notification.Body
	}
	settings.Notification.Icon = notification.Icon
	settings.Notification.Sound = notification.Sound

	timeout, err := model.ParseTimeout(notification.Timeout.Mode, notification.Timeout.Milliseconds)
	if err != nil {
		errs = append(errs, err)
	} else {
		settings.Notification.Timeout = timeout
	}

	return errors.Join(errs...)
}

// alternatingHalves applies the minutes that are set (zero keeps the current
// value) and validates the pair as an alternating policy would.
func alternatingHalves(settings window.Settings, workMinutes, breakMinutes int) (time.Duration, time.Duration, error) {
	const maxMinutes = int(model.MaxInterval / time.Minute)

	work, rest := settings.WorkDuration, settings.BreakDuration
	for _, minutes := range []int{workMinutes, breakMinutes} {
		if minutes < 0 || minutes >= maxMinutes {
			return 0, 0, fmt.Errorf("%w: %d minutes", model.ErrIntervalOutOfRange, minutes)
		}
	}
	if workMinutes != 0 {
		work = time.Duration(workMinutes) * time.Minute
	}
	if breakMinutes != 0 {
		rest = time.Duration(breakMinutes) * time.Minute
	}
	if err := timekeeper.Alternating(work, rest).Validate(); err != nil {
		return 0, 0, err
	}
	return work, rest, nil
}
