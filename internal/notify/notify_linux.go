//go:build linux

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/godbus/dbus/v5"

	"simpletimer/internal/core/model"
)

const (
	notificationServiceObj       = "/org/freedesktop/Notifications"
	notificationServiceInterface = "org.freedesktop.Notifications"
)

// notificationBus is the part of a session bus connection used to notify.
type notificationBus interface {
	Notify(ctx context.Context, appName string, notification model.Notification) error
	Close() error
}

type dbusNotifier struct {
	appName string
	logger  log.Logger
	dial    func() (notificationBus, error)
}

func newOsSpecificNotifier(logger log.Logger, appName string) *dbusNotifier {
	return &dbusNotifier{appName: appName, logger: logger, dial: dialSessionBus}
}

func (d *dbusNotifier) Show(ctx context.Context, notification model.Notification) error {
	dbusErr := d.sendViaDbus(ctx, notification)
	if dbusErr == nil {
		return nil
	}

	if err := d.sendViaNotifySend(ctx, notification); err != nil {
		return fmt.Errorf("show notification: dbus: %v; notify-send: %w", dbusErr, err)
	}
	return nil
}

func (d *dbusNotifier) sendViaDbus(ctx context.Context, notification model.Notification) error {
	bus, err := d.dial()
	if err != nil {
		level.Debug(d.logger).Log("msg", "could not connect to dbus, will try notify-send", "err", err)
		return fmt.Errorf("connect to session bus: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			level.Debug(d.logger).Log("msg", "could not close dbus connection", "err", err)
		}
	}()

	if err := bus.Notify(ctx, appNameOr(notification, d.appName), notification); err != nil {
		level.Error(d.logger).Log("msg", "could not send notification via dbus", "err", err)
		return err
	}
	return nil
}

type sessionBus struct {
	conn *dbus.Conn
}

func dialSessionBus() (notificationBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return sessionBus{conn: conn}, nil
}

// See: https://specifications.freedesktop.org/notification-spec/notification-spec-latest.html
func (bus sessionBus) Notify(ctx context.Context, appName string, notification model.Notification) error {
	hints := map[string]dbus.Variant{}
	if notification.Timeout.Mode == model.TimeoutNever {
		hints["urgency"] = dbus.MakeVariant(byte(2))
	}

	call := bus.conn.Object(notificationServiceInterface, notificationServiceObj).CallWithContext(ctx,
		notificationServiceInterface+".Notify",
		0,
		appName,
		uint32(0), // replaces_id
		notification.Icon,
		notification.Summary,
		notification.Body,
		[]string{},
		hints,
		expireTimeout(notification.Timeout))
	if call.Err != nil {
		return fmt.Errorf("dbus notify: %w", call.Err)
	}
	return nil
}

func (bus sessionBus) Close() error {
	return bus.conn.Close()
}

func (d *dbusNotifier) sendViaNotifySend(ctx context.Context, notification model.Notification) error {
	notifySend, err := exec.LookPath("notify-send")
	if err != nil {
		return fmt.Errorf("notify-send not installed: %w", err)
	}

	args := []string{"--app-name", appNameOr(notification, d.appName)}
	if notification.Icon != "" {
		args = append(args, "--icon", notification.Icon)
	}
	if timeout := expireTimeout(notification.Timeout); timeout >= 0 {
		args = append(args, "--expire-time", strconv.Itoa(int(timeout)))
	}
	args = append(args, notification.Summary, notification.Body)

	if out, err := exec.CommandContext(ctx, notifySend, args...).CombinedOutput(); err != nil {
		level.Error(d.logger).Log("msg", "could not send notification via notify-send", "output", string(out), "err", err)
		return fmt.Errorf("notify-send: %s: %w", string(out), err)
	}
	return nil
}
