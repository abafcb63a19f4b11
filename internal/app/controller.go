package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/mixer/clock"

	"simpletimer/internal/core/bridge"
	"simpletimer/internal/core/model"
	"simpletimer/internal/core/timekeeper"
	"simpletimer/internal/notify"
)

const (
	defaultCommandBuffer = 8
	dispatchTimeout      = 5 * time.Second
)

// ErrStopped is returned by Submit once the control loop has exited.
var ErrStopped = errors.New("controller stopped")

// ElapseRecorder persists elapses. The status is taken just before the elapse.
type ElapseRecorder interface {
	RecordElapse(ctx context.Context, at time.Time, status timekeeper.Status) error
}

// Config contains runtime options for the Controller.
type Config struct {
	CheckRate    time.Duration
	Notification model.Notification
	Clock        clock.Clock
	Recorder     ElapseRecorder
}

// Controller is the control loop. It is the only goroutine that touches the
// TimeKeeper; every other goroutine talks to it through Submit.
type Controller struct {
	logger       log.Logger
	clock        clock.Clock
	keeper       *timekeeper.TimeKeeper
	notifier     notify.Notifier
	recorder     ElapseRecorder
	bridged      <-chan bridge.Event
	commands     chan Command
	checkRate    time.Duration
	resetTicker  bool
	notification model.Notification

	mu          sync.Mutex
	subscribers []chan Event
	done        chan struct{}
}

// New creates a Controller. bridged may be nil when no tray is available.
func New(logger log.Logger, keeper *timekeeper.TimeKeeper, notifier notify.Notifier, bridged <-chan bridge.Event, config Config) (*Controller, error) {
	if keeper == nil {
		return nil, errors.New("new controller: timekeeper is nil")
	}
	if notifier == nil {
		return nil, errors.New("new controller: notifier is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if config.CheckRate == 0 {
		config.CheckRate = model.DefaultCheckRate
	}
	if err := model.ValidateCheckRate(config.CheckRate); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	if config.Clock == nil {
		config.Clock = clock.DefaultClock{}
	}

	return &Controller{
		logger:       log.With(logger, "component", "controller"),
		clock:        config.Clock,
		keeper:       keeper,
		notifier:     notifier,
		recorder:     config.Recorder,
		bridged:      bridged,
		commands:     make(chan Command, defaultCommandBuffer),
		checkRate:    config.CheckRate,
		notification: config.Notification,
		done:         make(chan struct{}),
	}, nil
}

// Subscribe registers a new observer channel. Status and info events are
// dropped for a subscriber whose buffer is full; window and quit requests
// wait for room.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	controller.subscribers = append(controller.subscribers, ch)
	controller.mu.Unlock()
	return ch
}

// Submit queues a command for the control loop.
func (controller *Controller) Submit(ctx context.Context, cmd Command) error {
	select {
	case <-controller.done:
		return ErrStopped
	default:
	}

	select {
	case controller.commands <- cmd:
		return nil
	case <-controller.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run polls the timer at the check rate and handles bridged events and
// commands until ctx is cancelled. Subscriber channels are closed on return.
// Run may be called once.
func (controller *Controller) Run(ctx context.Context) error {
	defer controller.closeSubscribers()

	ticker := controller.clock.NewTicker(controller.checkRate)
	defer func() {
		ticker.Stop()
	}()

	level.Info(controller.logger).Log("msg", "control loop started", "check_rate", controller.checkRate)
	controller.poll(ctx)

	bridged := controller.bridged
	for {
		select {
		case <-ctx.Done():
			level.Info(controller.logger).Log("msg", "control loop stopped")
			return nil

		case <-ticker.Chan():
			controller.poll(ctx)

		case event, ok := <-bridged:
			if !ok {
				level.Warn(controller.logger).Log("msg", "bridge closed, tray events disabled")
				bridged = nil
				continue
			}
			controller.handleBridged(ctx, event)

		case cmd := <-controller.commands:
			controller.handleCommand(ctx, cmd)
			if controller.resetTicker {
				controller.resetTicker = false
				ticker.Stop()
				ticker = controller.clock.NewTicker(controller.checkRate)
			}
		}
	}
}

// poll runs one tick. Failures after an elapse are reported, never returned,
// so that the loop keeps ticking.
func (controller *Controller) poll(ctx context.Context) {
	before := controller.keeper.Snapshot()
	if controller.keeper.Tick() {
		now := controller.clock.Now()
		level.Info(controller.logger).Log("msg", "interval elapsed", "policy", before.Policy, "phase", before.Phase)

		if err := controller.dispatch(ctx); err != nil {
			controller.emit(ctx, Event{Type: EventInfo, Message: "notification failed", Err: err, At: now})
		}
		controller.record(ctx, now, before)
		controller.emit(ctx, Event{Type: EventElapsed, Status: controller.keeper.Snapshot(), At: now})
	}
	controller.publishStatus(ctx)
}

func (controller *Controller) dispatch(ctx context.Context) error {
	dispatchCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	if err := controller.notifier.Show(dispatchCtx, controller.notification); err != nil {
		level.Error(controller.logger).Log("msg", "could not show notification", "err", err)
		return err
	}
	return nil
}

func (controller *Controller) record(ctx context.Context, at time.Time, status timekeeper.Status) {
	if controller.recorder == nil {
		return
	}
	if err := controller.recorder.RecordElapse(ctx, at, status); err != nil {
		level.Warn(controller.logger).Log("msg", "could not record elapse", "err", err)
	}
}

func (controller *Controller) handleCommand(ctx context.Context, cmd Command) {
	message, err := cmd.apply(ctx, controller)
	now := controller.clock.Now()
	if err != nil {
		level.Warn(controller.logger).Log("msg", "command rejected", "command", fmt.Sprintf("%T", cmd), "err", err)
		controller.emit(ctx, Event{Type: EventInfo, Message: "rejected", Err: err, At: now})
	} else if message != "" {
		level.Debug(controller.logger).Log("msg", "command applied", "result", message)
		controller.emit(ctx, Event{Type: EventInfo, Message: message, At: now})
	}

	// Arm right away so the status shows the new deadline.
	controller.poll(ctx)
}

func (controller *Controller) handleBridged(ctx context.Context, event bridge.Event) {
	switch event.Kind {
	case bridge.KindMenuActivated:
		switch event.Menu.ID {
		case MenuShow:
			controller.emit(ctx, Event{Type: EventShowWindow, At: controller.clock.Now()})
		case MenuPause:
			controller.handleCommand(ctx, CmdTogglePause{})
		case MenuNotify:
			controller.handleCommand(ctx, CmdNotifyNow{})
		case MenuQuit:
			controller.emit(ctx, Event{Type: EventQuit, At: controller.clock.Now()})
		default:
			level.Debug(controller.logger).Log("msg", "ignoring unknown menu item", "id", event.Menu.ID)
		}
	case bridge.KindIconInteraction:
		icon := event.Icon
		if icon.Button == bridge.ButtonLeft && icon.State == bridge.ButtonUp &&
			(icon.Kind == bridge.IconClick || icon.Kind == bridge.IconDoubleClick) {
			controller.emit(ctx, Event{Type: EventShowWindow, At: controller.clock.Now()})
			return
		}
		level.Debug(controller.logger).Log("msg", "ignoring icon event", "event", event)
	}
}

func (controller *Controller) publishStatus(ctx context.Context) {
	controller.emit(ctx, Event{
		Type:   EventStatus,
		Status: controller.keeper.Snapshot(),
		At:     controller.clock.Now(),
	})
}

func (controller *Controller) emit(ctx context.Context, event Event) {
	controller.mu.Lock()
	subscribers := append([]chan Event(nil), controller.subscribers...)
	controller.mu.Unlock()

	for _, ch := range subscribers {
		if event.Type.mustDeliver() {
			select {
			case ch <- event:
			case <-ctx.Done():
			}
			continue
		}
		select {
		case ch <- event:
		default:
		}
	}
}

func (controller *Controller) closeSubscribers() {
	controller.mu.Lock()
	subscribers := controller.subscribers
	controller.subscribers = nil
	controller.mu.Unlock()

	close(controller.done)
	for _, ch := range subscribers {
		close(ch)
	}
}
