package app

import (
	"context"
	"fmt"
	"time"

	"simpletimer/internal/core/model"
	"simpletimer/internal/core/timekeeper"
)

// Command is a user request applied on the Controller goroutine.
type Command interface {
	apply(ctx context.Context, controller *Controller) (string, error)
}

// CmdPause pauses (true) or resumes (false) the timer.
type CmdPause struct {
	Paused bool
}

// CmdTogglePause flips the pause state.
type CmdTogglePause struct{}

// CmdSetInterval replaces the fixed interval.
type CmdSetInterval struct {
	Interval model.Interval
}

// CmdSetIntervalSeconds replaces the fixed interval, given in seconds.
type CmdSetIntervalSeconds struct {
	Seconds int
}

// CmdSetPolicy switches the tick policy.
type CmdSetPolicy struct {
	Policy timekeeper.Policy
}

// CmdSetCheckRate changes the poll cadence.
type CmdSetCheckRate struct {
	Rate time.Duration
}

// CmdSetNotification replaces the notification content.
type CmdSetNotification struct {
	Notification model.Notification
}

// CmdNotifyNow shows the notification without touching the timer.
type CmdNotifyNow struct{}

func (cmd CmdPause) apply(_ context.Context, controller *Controller) (string, error) {
	controller.keeper.SetEnabled(!cmd.Paused)
	if cmd.Paused {
		return "paused", nil
	}
	return "resumed", nil
}

func (CmdTogglePause) apply(ctx context.Context, controller *Controller) (string, error) {
	return CmdPause{Paused: controller.keeper.Enabled()}.apply(ctx, controller)
}

func (cmd CmdSetInterval) apply(_ context.Context, controller *Controller) (string, error) {
	if err := controller.keeper.SetInterval(cmd.Interval); err != nil {
		return "", err
	}
	return fmt.Sprintf("interval set to %s", controller.keeper.Interval()), nil
}

func (cmd CmdSetIntervalSeconds) apply(_ context.Context, controller *Controller) (string, error) {
	if err := controller.keeper.SetIntervalSeconds(cmd.Seconds); err != nil {
		return "", err
	}
	return fmt.Sprintf("interval set to %s", controller.keeper.Interval()), nil
}

func (cmd CmdSetPolicy) apply(_ context.Context, controller *Controller) (string, error) {
	if err := controller.keeper.SetPolicy(cmd.Policy); err != nil {
		return "", err
	}
	return fmt.Sprintf("policy set to %s", cmd.Policy.Kind), nil
}

func (cmd CmdSetCheckRate) apply(_ context.Context, controller *Controller) (string, error) {
	if err := model.ValidateCheckRate(cmd.Rate); err != nil {
		return "", err
	}
	controller.checkRate = cmd.Rate
	controller.resetTicker = true
	return fmt.Sprintf("check rate set to %s", cmd.Rate), nil
}

func (cmd CmdSetNotification) apply(_ context.Context, controller *Controller) (string, error) {
	controller.notification = cmd.Notification
	return "notification updated", nil
}

func (CmdNotifyNow) apply(ctx context.Context, controller *Controller) (string, error) {
	if err := controller.dispatch(ctx); err != nil {
		return "", err
	}
	return "notification sent", nil
}
