//go:build !linux && !darwin && !windows

package platform

import "errors"

var errAutostartUnsupported = errors.New("autostart is not supported on this platform")

func (autostart *Autostart) enable() error {
	return errAutostartUnsupported
}

func (autostart *Autostart) disable() error {
	return nil
}
