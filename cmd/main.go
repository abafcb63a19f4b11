package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/kolide/kit/logutil"
	"github.com/mixer/clock"
	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v3"

	"simpletimer/internal/app"
	"simpletimer/internal/core/bridge"
	"simpletimer/internal/core/model"
	"simpletimer/internal/core/timekeeper"
	"simpletimer/internal/notify"
	"simpletimer/internal/platform"
	"simpletimer/internal/storage"
	"simpletimer/internal/ui/tray"
	"simpletimer/internal/ui/window"
)

const (
	appName   = "Simple Timer"
	appID     = "com.simpletimer.app"
	envPrefix = "SIMPLETIMER"
)

func main() {
	if err := runApp(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runApp(args []string) error {
	var (
		flagset  = flag.NewFlagSet("simpletimer", flag.ExitOnError)
		flConfig = flagset.String(
			"config",
			"",
			"path to settings.yaml (default: user config dir)",
		)
		flHistory = flagset.String(
			"history",
			"",
			"path to the elapse history database; empty disables history",
		)
		flDebug = flagset.Bool(
			"debug",
			false,
			"enable debug logging",
		)
		flPaused = flagset.Bool(
			"paused",
			false,
			"start with the timer paused",
		)
		flCheckRate = flagset.Duration(
			"check-rate",
			0,
			"override how often the timer is polled",
		)
	)
	if err := ff.Parse(flagset, args, ff.WithEnvVarPrefix(envPrefix)); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	logger := logutil.NewServerLogger(*flDebug)

	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		level.Info(logger).Log("msg", "not starting", "err", err)
		return nil
	}
	defer func() {
		_ = lock.Release()
	}()

	settingsPath := *flConfig
	if settingsPath == "" {
		settingsPath, err = storage.DefaultSettingsPath(appName)
		if err != nil {
			return err
		}
	}
	settings, err := storage.LoadSettings(settingsPath, window.DefaultSettings(appName))
	if err != nil {
		level.Warn(logger).Log("msg", "some settings were invalid, using defaults for them", "path", settingsPath, "err", err)
	}
	if *flPaused {
		settings.StartPaused = true
	}
	if *flCheckRate != 0 {
		if err := model.ValidateCheckRate(*flCheckRate); err != nil {
			level.Warn(logger).Log("msg", "ignoring check-rate flag", "err", err)
		} else {
			settings.CheckRate = *flCheckRate
		}
	}

	var recorder app.ElapseRecorder
	if *flHistory != "" {
		history, err := storage.OpenHistory(*flHistory)
		if err != nil {
			return err
		}
		defer history.Close()
		recorder = history
	}

	keeper, err := timekeeper.New(settings.TimerConfig(), clock.DefaultClock{})
	if err != nil {
		level.Warn(logger).Log("msg", "timer settings rejected, using defaults", "err", err)
		defaults := window.DefaultSettings(appName)
		settings.Interval = defaults.Interval
		settings.Policy = defaults.Policy
		settings.WorkDuration = defaults.WorkDuration
		settings.BreakDuration = defaults.BreakDuration
		if keeper, err = timekeeper.New(settings.TimerConfig(), clock.DefaultClock{}); err != nil {
			return fmt.Errorf("creating timer: %w", err)
		}
	}

	autostart, err := platform.NewAutostart(appName)
	if err != nil {
		level.Warn(logger).Log("msg", "autostart unavailable", "err", err)
	} else if err := autostart.Apply(settings.Autostart); err != nil {
		level.Warn(logger).Log("msg", "could not apply autostart", "err", err)
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.SetIcon(theme.MediaPlayIcon())
	fyneApp.Settings().SetTheme(window.Theme(settings.Theme))

	var (
		trayManager *tray.Manager
		bridged     <-chan bridge.Event
		eventBridge = bridge.New(logger, bridge.Config{})
	)
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, appName, 0)
		bridged = eventBridge.Events()
	} else {
		level.Warn(logger).Log("msg", "system tray unsupported on this platform")
	}

	controller, err := app.New(logger, keeper, notify.New(logger, appName), bridged, app.Config{
		CheckRate:    settings.CheckRate,
		Notification: settings.Notification,
		Recorder:     recorder,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	submit := func(cmds ...app.Command) {
		go func() {
			for _, cmd := range cmds {
				if err := controller.Submit(ctx, cmd); err != nil {
					level.Debug(logger).Log("msg", "command dropped", "err", err)
					return
				}
			}
		}()
	}

	var (
		mainWindow *window.Window
		// applied is only touched from the UI goroutine.
		applied = settings
	)
	applySettings := func(updated window.Settings) {
		fyneApp.Settings().SetTheme(window.Theme(updated.Theme))
		if autostart != nil && updated.Autostart != applied.Autostart {
			if err := autostart.Apply(updated.Autostart); err != nil {
				level.Warn(logger).Log("msg", "could not apply autostart", "err", err)
				mainWindow.SetInfo(err.Error())
			}
		}
		submit(timerCommands(applied, updated)...)
		applied = updated
	}

	mainWindow = window.New(fyneApp, appName, settings, window.Callbacks{
		OnPause: func(paused bool) {
			submit(app.CmdPause{Paused: paused})
		},
		OnApply: applySettings,
		OnSave: func(updated window.Settings) {
			applySettings(updated)
			if err := storage.SaveSettings(settingsPath, updated); err != nil {
				level.Error(logger).Log("msg", "could not save settings", "path", settingsPath, "err", err)
				mainWindow.SetInfo("save failed: " + err.Error())
				return
			}
			mainWindow.SetInfo("settings saved")
		},
		OnLoad: func() {
			loaded, err := storage.LoadSettings(settingsPath, window.DefaultSettings(appName))
			if err != nil {
				level.Warn(logger).Log("msg", "loaded settings with errors", "path", settingsPath, "err", err)
			}
			mainWindow.UpdateSettings(loaded)
			applySettings(loaded)
			if err != nil {
				mainWindow.SetInfo("loaded with errors: " + err.Error())
				return
			}
			mainWindow.SetInfo("settings loaded")
		},
		OnNotifyNow: func() {
			submit(app.CmdNotifyNow{})
		},
	})

	events := controller.Subscribe(16)
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				handleEvent(fyneApp, mainWindow, trayManager, event)
			})
		}
	}()

	var runGroup run.Group

	runGroup.Add(func() error {
		listenSignals(ctx, logger)
		return nil
	}, func(error) {
		cancel()
	})

	if trayManager != nil {
		runGroup.Add(func() error {
			return eventBridge.Run(ctx, trayManager.Sources())
		}, func(error) {
			cancel()
		})
	}

	runGroup.Add(func() error {
		return controller.Run(ctx)
	}, func(error) {
		cancel()
	})

	uiDone := make(chan struct{})
	runGroup.Add(func() error {
		<-uiDone
		return nil
	}, func(error) {
		select {
		case <-uiDone:
		default:
			fyne.Do(fyneApp.Quit)
		}
	})

	groupDone := make(chan struct{})
	go func() {
		// fyne needs the main thread
		if err := runGroup.Run(); err != nil {
			level.Error(logger).Log("msg", "running run group", "err", err)
		}
		close(groupDone)
	}()

	mainWindow.Show()
	fyneApp.Run()

	close(uiDone)
	if trayManager != nil {
		trayManager.Close()
	}

	select {
	case <-groupDone:
	case <-time.After(5 * time.Second):
		return errors.New("timed out waiting for shutdown")
	}
	level.Info(logger).Log("msg", "stopped")
	return nil
}

// timerCommands returns the commands that move the controller from previous
// to updated. Unchanged settings produce no command, so the running cycle is
// kept.
func timerCommands(previous, updated window.Settings) []app.Command {
	var cmds []app.Command
	if updated.Interval != previous.Interval {
		cmds = append(cmds, app.CmdSetInterval{Interval: updated.Interval})
	}
	oldPolicy := timekeeper.PolicyFromConfig(previous.TimerConfig())
	newPolicy := timekeeper.PolicyFromConfig(updated.TimerConfig())
	if newPolicy != oldPolicy {
		cmds = append(cmds, app.CmdSetPolicy{Policy: newPolicy})
	}
	if updated.CheckRate != previous.CheckRate {
		cmds = append(cmds, app.CmdSetCheckRate{Rate: updated.CheckRate})
	}
	if updated.Notification != previous.Notification {
		cmds = append(cmds, app.CmdSetNotification{Notification: updated.Notification})
	}
	return cmds
}

func handleEvent(fyneApp fyne.App, mainWindow *window.Window, trayManager *tray.Manager, event app.Event) {
	switch event.Type {
	case app.EventStatus:
		mainWindow.SetStatus(event.Status)
		if trayManager != nil {
			trayManager.SetPaused(!event.Status.Enabled)
			if event.Status.Armed {
				trayManager.SetStatus("next in " + window.FormatRemaining(event.Status.Remaining))
			} else {
				trayManager.SetStatus(window.DescribeStatus(event.Status))
			}
		}
	case app.EventElapsed:
		mainWindow.SetInfo("interval elapsed")
	case app.EventInfo:
		if event.Err != nil {
			mainWindow.SetInfo(fmt.Sprintf("%s: %v", event.Message, event.Err))
			return
		}
		mainWindow.SetInfo(event.Message)
	case app.EventShowWindow:
		mainWindow.Show()
	case app.EventQuit:
		fyneApp.Quit()
	}
}

func listenSignals(ctx context.Context, logger log.Logger) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		level.Debug(logger).Log("msg", "received signal", "signal", sig)
	case <-ctx.Done():
	}
}
