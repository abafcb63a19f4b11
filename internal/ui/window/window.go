package window

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"simpletimer/internal/core/model"
	"simpletimer/internal/core/timekeeper"
)

// InfoTimeout is how long an info message stays visible.
const InfoTimeout = 3 * time.Second

// Callbacks defines window action handlers.
type Callbacks struct {
	OnPause     func(paused bool)
	OnApply     func(Settings)
	OnSave      func(Settings)
	OnLoad      func()
	OnNotifyNow func()
}

// Window is the main application window.
type Window struct {
	window    fyne.Window
	settings  Settings
	callbacks Callbacks

	status    *widget.Label
	remaining *widget.Label
	info      *widget.Label
	pause     *widget.Check
	hours     *widget.Entry
	minutes   *widget.Entry
	seconds   *widget.Entry
	policy    *widget.Select
	work      *widget.Entry
	rest      *widget.Entry
	checkRate *widget.Entry
	theme     *widget.Select
	autostart *widget.Check

	// updating suppresses callbacks while widgets are set from code.
	updating bool
	infoSeq  atomic.Uint64
}

// New creates the main window. It starts hidden.
func New(app fyne.App, title string, settings Settings, callbacks Callbacks) *Window {
	window := app.NewWindow(title)

	win := &Window{
		window:    window,
		settings:  settings,
		callbacks: callbacks,
		status:    widget.NewLabel("Starting..."),
		remaining: widget.NewLabel(""),
		info:      widget.NewLabel(""),
		hours:     widget.NewEntry(),
		minutes:   widget.NewEntry(),
		seconds:   widget.NewEntry(),
		work:      widget.NewEntry(),
		rest:      widget.NewEntry(),
		checkRate: widget.NewEntry(),
	}
	win.status.TextStyle = fyne.TextStyle{Bold: true}
	win.info.Wrapping = fyne.TextWrapWord

	win.pause = widget.NewCheck("Paused", func(paused bool) {
		if win.updating || win.callbacks.OnPause == nil {
			return
		}
		win.callbacks.OnPause(paused)
	})
	win.autostart = widget.NewCheck("Start on login", nil)

	policies := make([]string, 0, len(model.PolicyKinds))
	for _, kind := range model.PolicyKinds {
		policies = append(policies, string(kind))
	}
	win.policy = widget.NewSelect(policies, nil)
	win.theme = widget.NewSelect([]string{ThemeDark, ThemeLight}, nil)

	interval := container.NewHBox(
		win.hours, widget.NewLabel("h"),
		win.minutes, widget.NewLabel("m"),
		win.seconds, widget.NewLabel("s"),
	)

	form := container.NewVBox(
		win.status,
		win.remaining,
		win.pause,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Interval"), interval),
		container.NewHBox(widget.NewLabel("Policy"), win.policy),
		container.NewHBox(widget.NewLabel("Work"), win.work, widget.NewLabel("min"), widget.NewLabel("Break"), win.rest, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Check every"), win.checkRate, widget.NewLabel("sec")),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Theme"), win.theme),
		win.autostart,
	)

	applyButton := widget.NewButton("Apply", func() {
		if settings, ok := win.readSettings(); ok && win.callbacks.OnApply != nil {
			win.callbacks.OnApply(settings)
		}
	})
	saveButton := widget.NewButton("Save", func() {
		if settings, ok := win.readSettings(); ok && win.callbacks.OnSave != nil {
			win.callbacks.OnSave(settings)
		}
	})
	loadButton := widget.NewButton("Load", func() {
		if win.callbacks.OnLoad != nil {
			win.callbacks.OnLoad()
		}
	})
	notifyButton := widget.NewButton("Notify now", func() {
		if win.callbacks.OnNotifyNow != nil {
			win.callbacks.OnNotifyNow()
		}
	})
	buttons := container.NewHBox(applyButton, saveButton, loadButton, layout.NewSpacer(), notifyButton)

	window.SetContent(container.NewBorder(nil, container.NewVBox(buttons, win.info), nil, nil, form))
	window.Resize(fyne.NewSize(460, 420))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	win.UpdateSettings(settings)
	return win
}

// Show displays the window and brings it to the front.
func (win *Window) Show() {
	win.window.Show()
	win.window.RequestFocus()
}

// UpdateSettings replaces the editable values.
func (win *Window) UpdateSettings(settings Settings) {
	win.settings = settings
	fields := fieldsFromSettings(settings)

	win.updating = true
	defer func() { win.updating = false }()

	win.hours.SetText(fields.Hours)
	win.minutes.SetText(fields.Minutes)
	win.seconds.SetText(fields.Seconds)
	win.policy.SetSelected(fields.Policy)
	win.work.SetText(fields.WorkMinutes)
	win.rest.SetText(fields.BreakMinutes)
	win.checkRate.SetText(fields.CheckRateSeconds)
	win.theme.SetSelected(fields.Theme)
	win.autostart.SetChecked(settings.Autostart)
}

// SetStatus shows the timer state.
func (win *Window) SetStatus(status timekeeper.Status) {
	win.status.SetText(DescribeStatus(status))
	if status.Armed {
		win.remaining.SetText("Next notification in " + FormatRemaining(status.Remaining))
	} else {
		win.remaining.SetText("")
	}

	win.updating = true
	win.pause.SetChecked(!status.Enabled)
	win.updating = false
}

// SetInfo shows message until a newer one arrives or InfoTimeout passes.
func (win *Window) SetInfo(message string) {
	seq := win.infoSeq.Add(1)
	win.info.SetText(message)
	if message == "" {
		return
	}
	time.AfterFunc(InfoTimeout, func() {
		fyne.Do(func() {
			if win.infoSeq.Load() == seq {
				win.info.SetText("")
			}
		})
	})
}

func (win *Window) readSettings() (Settings, bool) {
	settings, err := parseFields(win.settings, formFields{
		Hours:            win.hours.Text,
		Minutes:          win.minutes.Text,
		Seconds:          win.seconds.Text,
		Policy:           win.policy.Selected,
		WorkMinutes:      win.work.Text,
		BreakMinutes:     win.rest.Text,
		CheckRateSeconds: win.checkRate.Text,
		Theme:            win.theme.Selected,
	})
	if err != nil {
		win.SetInfo(err.Error())
		return win.settings, false
	}
	settings.Autostart = win.autostart.Checked
	win.settings = settings
	return settings, true
}

// formFields is the text content of the editable widgets.
type formFields struct {
	Hours            string
	Minutes          string
	Seconds          string
	Policy           string
	WorkMinutes      string
	BreakMinutes     string
	CheckRateSeconds string
	Theme            string
}

func fieldsFromSettings(settings Settings) formFields {
	return formFields{
		Hours:            strconv.Itoa(settings.Interval.Hour),
		Minutes:          strconv.Itoa(settings.Interval.Minute),
		Seconds:          strconv.Itoa(settings.Interval.Second),
		Policy:           string(settings.Policy),
		WorkMinutes:      strconv.Itoa(int(settings.WorkDuration / time.Minute)),
		BreakMinutes:     strconv.Itoa(int(settings.BreakDuration / time.Minute)),
		CheckRateSeconds: strconv.FormatFloat(settings.CheckRate.Seconds(), 'f', -1, 64),
		Theme:            settings.Theme,
	}
}

// parseFields applies the form to base. Nothing is applied unless every
// field is valid.
func parseFields(base Settings, fields formFields) (Settings, error) {
	var errs []error
	settings := base

	hours, err := parseCount("hours", fields.Hours)
	errs = append(errs, err)
	minutes, err := parseCount("minutes", fields.Minutes)
	errs = append(errs, err)
	seconds, err := parseCount("seconds", fields.Seconds)
	errs = append(errs, err)
	if err := errors.Join(errs...); err == nil {
		interval, err := model.NewInterval(hours, minutes, seconds)
		if err != nil {
			errs = append(errs, err)
		}
		settings.Interval = interval
	}

	policy, err := model.ParsePolicyKind(fields.Policy)
	errs = append(errs, err)
	settings.Policy = policy

	work, workErr := parseCount("work minutes", fields.WorkMinutes)
	rest, restErr := parseCount("break minutes", fields.BreakMinutes)
	errs = append(errs, workErr, restErr)
	if workErr == nil && restErr == nil {
		// Halves are kept for a later switch to alternating, so they are
		// checked whatever the policy.
		const maxMinutes = int(model.MaxInterval / time.Minute)
		if work >= maxMinutes || rest >= maxMinutes {
			errs = append(errs, fmt.Errorf("%w: work/break must be below %d minutes", model.ErrIntervalOutOfRange, maxMinutes))
		} else {
			settings.WorkDuration = time.Duration(work) * time.Minute
			settings.BreakDuration = time.Duration(rest) * time.Minute
			errs = append(errs, timekeeper.Alternating(settings.WorkDuration, settings.BreakDuration).Validate())
		}
	}

	rate, err := parseCheckRate(fields.CheckRateSeconds)
	errs = append(errs, err)
	settings.CheckRate = rate

	switch fields.Theme {
	case ThemeDark, ThemeLight:
		settings.Theme = fields.Theme
	default:
		errs = append(errs, fmt.Errorf("unknown theme %q", fields.Theme))
	}

	if err := errors.Join(errs...); err != nil {
		return base, err
	}
	return settings, nil
}

func parseCount(name, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%s: %q is not a whole number", name, value)
	}
	return parsed, nil
}

func parseCheckRate(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("check rate: %q is not a number of seconds", value)
	}
	return model.CheckRateFromSeconds(seconds)
}

// DescribeStatus renders the one-line status shown in the window and tray.
func DescribeStatus(status timekeeper.Status) string {
	if !status.Enabled {
		return "Paused"
	}
	if status.Policy == model.PolicyAlternating {
		return fmt.Sprintf("Running: %s (%s)", status.Phase, FormatRemaining(status.Current))
	}
	return fmt.Sprintf("Running: every %s", status.Interval)
}

// FormatRemaining renders a duration as HH:MM:SS, rounding up to whole seconds.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int((remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

// Theme returns the fyne theme for a settings theme name.
func Theme(name string) fyne.Theme {
	if name == ThemeLight {
		return variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	}
	return variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
}

// variantTheme pins the default theme to one variant.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}
