package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"golang.org/x/sync/errgroup"
)

// ErrSourceDisconnected is logged when a native source channel is closed.
var ErrSourceDisconnected = errors.New("event source disconnected")

const (
	DefaultCapacity = 16
	maxCapacity     = 64
)

// Config contains options for the Bridge.
type Config struct {
	Capacity int
}

// Sources are the native receivers the bridge drains. They are owned by the
// caller; a nil source is skipped. Closing a source stops only its listener.
type Sources struct {
	Menu <-chan MenuEvent
	Icon <-chan IconEvent
}

// Bridge merges the menu and icon sources into one bounded queue. Each source
// is drained by its own goroutine. Order is kept per source only.
type Bridge struct {
	logger log.Logger
	queue  chan Event
	once   sync.Once
}

// New creates a Bridge. Capacity defaults to DefaultCapacity and is capped.
func New(logger log.Logger, config Config) *Bridge {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if config.Capacity <= 0 {
		config.Capacity = DefaultCapacity
	}
	if config.Capacity > maxCapacity {
		config.Capacity = maxCapacity
	}

	return &Bridge{
		logger: log.With(logger, "component", "bridge"),
		queue:  make(chan Event, config.Capacity),
	}
}

// Events is the consumer side of the queue. It is closed once Run returns.
func (bridge *Bridge) Events() <-chan Event {
	return bridge.queue
}

// Run drains the sources until both are disconnected or ctx is cancelled.
// It may be called once.
func (bridge *Bridge) Run(ctx context.Context, sources Sources) error {
	started := false
	bridge.once.Do(func() { started = true })
	if !started {
		return errors.New("bridge already ran")
	}
	defer close(bridge.queue)

	group, groupCtx := errgroup.WithContext(ctx)
	if sources.Menu != nil {
		group.Go(func() error {
			return listen(groupCtx, bridge, "menu", sources.Menu, func(event MenuEvent) (Event, bool) {
				return MenuActivated(event.ID), true
			})
		})
	}
	if sources.Icon != nil {
		group.Go(func() error {
			return listen(groupCtx, bridge, "icon", sources.Icon, func(event IconEvent) (Event, bool) {
				if event.isNoise() {
					return Event{}, false
				}
				return IconInteraction(event), true
			})
		})
	}

	err := group.Wait()
	level.Debug(bridge.logger).Log("msg", "bridge stopped", "err", err)
	return err
}

// listen forwards one source into the queue. A full queue blocks this
// goroutine only; events are never dropped unless ctx is cancelled.
func listen[T any](ctx context.Context, bridge *Bridge, name string, source <-chan T, normalize func(T) (Event, bool)) error {
	logger := log.With(bridge.logger, "source", name)
	level.Debug(logger).Log("msg", "listener started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-source:
			if !ok {
				level.Warn(logger).Log("msg", "source disconnected, listener stopping", "err", ErrSourceDisconnected)
				return nil
			}
			event, keep := normalize(raw)
			if !keep {
				continue
			}
			select {
			case bridge.queue <- event:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
