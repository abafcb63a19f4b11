package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to start at login.
type Autostart struct {
	appName  string
	execPath string
}

// NewAutostart returns an Autostart for the running executable.
func NewAutostart(appName string) (*Autostart, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("autostart: locate executable: %w", err)
	}
	return newAutostart(appName, execPath)
}

func newAutostart(appName, execPath string) (*Autostart, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, fmt.Errorf("autostart: app name is empty")
	}
	if execPath == "" {
		return nil, fmt.Errorf("autostart: exec path is empty")
	}
	return &Autostart{appName: appName, execPath: execPath}, nil
}

// Apply enables or disables the login entry. Both directions are idempotent.
func (autostart *Autostart) Apply(enabled bool) error {
	if enabled {
		if err := autostart.enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		return nil
	}
	if err := autostart.disable(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

// slug turns an app name into a file or label friendly form.
func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	return strings.Join(strings.Fields(name), "-")
}
