//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable() error {
	quoted := fmt.Sprintf(`"%s"`, strings.Trim(autostart.execPath, `"`))
	return reg("add", registryRunKey, "/v", autostart.appName, "/t", "REG_SZ", "/d", quoted, "/f")
}

func (autostart *Autostart) disable() error {
	err := reg("delete", registryRunKey, "/v", autostart.appName, "/f")
	if err != nil && strings.Contains(err.Error(), "unable to find") {
		return nil
	}
	return err
}

func reg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}
