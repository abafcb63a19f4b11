//go:build windows

package notify

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gopkg.in/toast.v1"

	"simpletimer/internal/core/model"
)

type toastNotifier struct {
	appName string
	logger  log.Logger
}

func newOsSpecificNotifier(logger log.Logger, appName string) *toastNotifier {
	return &toastNotifier{appName: appName, logger: logger}
}

func (w *toastNotifier) Show(_ context.Context, n model.Notification) error {
	notification := toast.Notification{
		AppID:   appNameOr(n, w.appName),
		Title:   n.Summary,
		Message: n.Body,
		Icon:    n.Icon,
	}

	if n.Sound != "" {
		audio, err := toast.Audio(n.Sound)
		if err != nil {
			level.Warn(w.logger).Log("msg", "unknown notification sound, using default", "sound", n.Sound, "err", err)
		} else {
			notification.Audio = audio
		}
	}

	if duration, err := toast.Duration(toastDuration(n.Timeout)); err == nil {
		notification.Duration = duration
	}

	if err := notification.Push(); err != nil {
		return fmt.Errorf("push toast: %w", err)
	}
	return nil
}
