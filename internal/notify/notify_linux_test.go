//go:build linux

package notify

import (
	"context"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/require"

	"simpletimer/internal/core/model"
)

type fakeBus struct {
	appNames []string
	closed   int
}

func (bus *fakeBus) Notify(_ context.Context, appName string, _ model.Notification) error {
	bus.appNames = append(bus.appNames, appName)
	return nil
}

func (bus *fakeBus) Close() error {
	bus.closed++
	return nil
}

func TestDbusNotifierClosesEachConnection(t *testing.T) {
	t.Parallel()

	var buses []*fakeBus
	notifier := &dbusNotifier{
		appName: "Simple Timer",
		logger:  log.NewNopLogger(),
		dial: func() (notificationBus, error) {
			bus := &fakeBus{}
			buses = append(buses, bus)
			return bus, nil
		},
	}

	notification := model.DefaultNotification("")
	for i := 0; i < 3; i++ {
		require.NoError(t, notifier.Show(context.Background(), notification))
	}

	require.Len(t, buses, 3)
	for _, bus := range buses {
		require.Equal(t, 1, bus.closed)
		require.Equal(t, []string{"Simple Timer"}, bus.appNames)
	}
}
