package tray

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/systray"

	"simpletimer/internal/app"
	"simpletimer/internal/core/bridge"
)

const defaultBuffer = 8

// Manager owns the system tray menu and feeds its activations to the bridge.
type Manager struct {
	app        desktop.App
	title      string
	statusItem *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	items      []*fyne.MenuItem

	mu     sync.Mutex
	closed bool
	stop   sync.Once
	done   chan struct{}
	menu   chan bridge.MenuEvent
	icon   chan bridge.IconEvent

	paused      bool
	statusLabel string
}

// New installs the tray menu on app. app may be nil, in which case the
// manager only produces events.
func New(desktopApp desktop.App, title string, buffer int) *Manager {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	manager := &Manager{
		app:   desktopApp,
		title: title,
		done:  make(chan struct{}),
		menu:  make(chan bridge.MenuEvent, buffer),
		icon:  make(chan bridge.IconEvent, buffer),
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	show := fyne.NewMenuItem("Show", manager.menuAction(app.MenuShow))
	manager.pauseItem = fyne.NewMenuItem("Pause", manager.menuAction(app.MenuPause))
	notifyNow := fyne.NewMenuItem("Notify now", manager.menuAction(app.MenuNotify))
	quit := fyne.NewMenuItem("Quit", manager.menuAction(app.MenuQuit))
	quit.IsQuit = true

	manager.items = []*fyne.MenuItem{
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		show,
		manager.pauseItem,
		notifyNow,
		fyne.NewMenuItemSeparator(),
		quit,
	}

	if manager.app != nil {
		manager.app.SetSystemTrayIcon(theme.MediaPlayIcon())
		manager.refreshMenu()
	}
	systray.SetOnTapped(func() {
		manager.pushIcon(bridge.IconEvent{Kind: bridge.IconClick, Button: bridge.ButtonLeft, State: bridge.ButtonUp})
	})
	systray.SetOnSecondaryTapped(func() {
		manager.pushIcon(bridge.IconEvent{Kind: bridge.IconClick, Button: bridge.ButtonRight, State: bridge.ButtonUp})
	})

	return manager
}

// Sources returns the native channels for the bridge. They are closed by Close.
func (manager *Manager) Sources() bridge.Sources {
	return bridge.Sources{Menu: manager.menu, Icon: manager.icon}
}

// SetStatus updates the status label. Call from the UI goroutine.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates the pause item and the tray icon. Call from the UI goroutine.
func (manager *Manager) SetPaused(paused bool) {
	if manager.paused == paused {
		return
	}
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	if manager.app != nil {
		if paused {
			manager.app.SetSystemTrayIcon(theme.MediaPauseIcon())
		} else {
			manager.app.SetSystemTrayIcon(theme.MediaPlayIcon())
		}
	}
	manager.refreshStatus()
}

// Close stops event delivery and closes the source channels.
func (manager *Manager) Close() {
	manager.stop.Do(func() {
		// Unblocks a pending push before taking the lock.
		close(manager.done)

		manager.mu.Lock()
		manager.closed = true
		close(manager.menu)
		close(manager.icon)
		manager.mu.Unlock()

		systray.SetOnTapped(nil)
		systray.SetOnSecondaryTapped(nil)
	})
}

func (manager *Manager) menuAction(id bridge.MenuID) func() {
	return func() {
		manager.pushMenu(bridge.MenuEvent{ID: id})
	}
}

// pushMenu waits for room in the buffer unless the manager is closed, so
// activations are never lost while the bridge is running.
func (manager *Manager) pushMenu(event bridge.MenuEvent) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.closed {
		return
	}
	select {
	case manager.menu <- event:
	case <-manager.done:
	}
}

func (manager *Manager) pushIcon(event bridge.IconEvent) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.closed {
		return
	}
	select {
	case manager.icon <- event:
	case <-manager.done:
	}
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if status == "" {
		status = "starting..."
	}
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.title, manager.items...))
	}
}
