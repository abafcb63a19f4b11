package notify

import (
	"context"

	"github.com/go-kit/kit/log"

	"simpletimer/internal/core/model"
)

// Notifier displays a desktop notification.
type Notifier interface {
	Show(ctx context.Context, notification model.Notification) error
}

// New returns the notifier for the current OS.
func New(logger log.Logger, appName string) Notifier {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return newOsSpecificNotifier(log.With(logger, "component", "notifier"), appName)
}

// expireTimeout maps a timeout to the freedesktop expire_timeout argument.
func expireTimeout(timeout model.Timeout) int32 {
	switch timeout.Mode {
	case model.TimeoutNever:
		return 0
	case model.TimeoutMilliseconds:
		return int32(timeout.Milliseconds)
	default:
		return -1
	}
}

// toastDuration maps a timeout to the two lengths Windows toasts support.
func toastDuration(timeout model.Timeout) string {
	switch timeout.Mode {
	case model.TimeoutNever:
		return "long"
	case model.TimeoutMilliseconds:
		if timeout.Milliseconds > 7000 {
			return "long"
		}
	}
	return "short"
}

func appNameOr(notification model.Notification, fallback string) string {
	if notification.AppName != "" {
		return notification.AppName
	}
	return fallback
}
