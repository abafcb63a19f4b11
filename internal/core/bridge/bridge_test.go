package bridge

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/require"
)

func startBridge(t *testing.T, capacity int, sources Sources) (*Bridge, context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	bridge := New(log.NewNopLogger(), Config{Capacity: capacity})
	done := make(chan error, 1)
	go func() {
		done <- bridge.Run(ctx, sources)
	}()
	t.Cleanup(cancel)
	return bridge, cancel, done
}

func receive(t *testing.T, events <-chan Event) Event {
	t.Helper()

	select {
	case event, ok := <-events:
		require.True(t, ok, "queue closed early")
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for bridged event")
	}
	return Event{}
}

func TestBridgePreservesPerSourceOrder(t *testing.T) {
	t.Parallel()

	const menuCount, iconCount = 20, 20
	menu := make(chan MenuEvent)
	icon := make(chan IconEvent)
	bridge, _, _ := startBridge(t, 4, Sources{Menu: menu, Icon: icon})

	go func() {
		for i := 0; i < menuCount; i++ {
			menu <- MenuEvent{ID: MenuID(fmt.Sprintf("m%d", i))}
		}
	}()
	go func() {
		for i := 0; i < iconCount; i++ {
			button := ButtonLeft
			if i%2 == 1 {
				button = ButtonRight
			}
			icon <- IconEvent{Kind: IconClick, Button: button, State: ButtonState(fmt.Sprintf("s%d", i))}
		}
	}()

	var menuSeen, iconSeen []string
	for i := 0; i < menuCount+iconCount; i++ {
		event := receive(t, bridge.Events())
		switch event.Kind {
		case KindMenuActivated:
			menuSeen = append(menuSeen, string(event.Menu.ID))
		case KindIconInteraction:
			iconSeen = append(iconSeen, string(event.Icon.State))
		}
	}

	for i := range menuSeen {
		require.Equal(t, fmt.Sprintf("m%d", i), menuSeen[i])
	}
	for i := range iconSeen {
		require.Equal(t, fmt.Sprintf("s%d", i), iconSeen[i])
	}
	require.Len(t, menuSeen, menuCount)
	require.Len(t, iconSeen, iconCount)
}

func TestBridgeDoesNotDropUnderBackpressure(t *testing.T) {
	t.Parallel()

	const capacity = 4
	const burst = capacity + 5
	menu := make(chan MenuEvent, burst)
	for i := 0; i < burst; i++ {
		menu <- MenuEvent{ID: MenuID(fmt.Sprintf("%d", i))}
	}
	bridge, _, _ := startBridge(t, capacity, Sources{Menu: menu})

	// Let the listener fill the queue and block before draining.
	require.Eventually(t, func() bool {
		return len(bridge.Events()) == capacity
	}, 5*time.Second, 10*time.Millisecond)

	for i := 0; i < burst; i++ {
		event := receive(t, bridge.Events())
		require.Equal(t, MenuID(fmt.Sprintf("%d", i)), event.Menu.ID)
	}
}

func TestBridgeFiltersPointerMoves(t *testing.T) {
	t.Parallel()

	icon := make(chan IconEvent, 8)
	icon <- IconEvent{Kind: IconMove}
	icon <- IconEvent{Kind: IconEnter}
	icon <- IconEvent{Kind: IconMove}
	icon <- IconEvent{Kind: IconClick, Button: ButtonLeft, State: ButtonDown}
	icon <- IconEvent{Kind: IconMove}
	icon <- IconEvent{Kind: IconClick, Button: ButtonLeft, State: ButtonUp}
	icon <- IconEvent{Kind: IconClick, Button: ButtonRight, State: ButtonUp}
	close(icon)

	bridge, _, done := startBridge(t, 8, Sources{Icon: icon})

	var kinds []IconEventKind
	for event := range bridge.Events() {
		require.Equal(t, KindIconInteraction, event.Kind)
		kinds = append(kinds, event.Icon.Kind)
	}
	require.Equal(t, []IconEventKind{IconEnter, IconClick, IconClick, IconClick}, kinds)
	require.NoError(t, <-done)
}

func TestBridgeSurvivesDisconnectedSource(t *testing.T) {
	t.Parallel()

	menu := make(chan MenuEvent)
	icon := make(chan IconEvent)
	bridge, cancel, done := startBridge(t, 2, Sources{Menu: menu, Icon: icon})

	close(icon)

	menu <- MenuEvent{ID: "show"}
	require.Equal(t, MenuActivated("show"), receive(t, bridge.Events()))
	menu <- MenuEvent{ID: "quit"}
	require.Equal(t, MenuActivated("quit"), receive(t, bridge.Events()))

	select {
	case <-done:
		t.Fatal("bridge stopped while the menu source was still connected")
	default:
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop after cancel")
	}
	_, ok := <-bridge.Events()
	require.False(t, ok, "queue must be closed after shutdown")
}

func TestBridgeStopsWhenAllSourcesClose(t *testing.T) {
	t.Parallel()

	menu := make(chan MenuEvent)
	icon := make(chan IconEvent)
	bridge, _, done := startBridge(t, 1, Sources{Menu: menu, Icon: icon})
	close(menu)
	close(icon)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop")
	}
	_, ok := <-bridge.Events()
	require.False(t, ok)
}

func TestBridgeRunsOnce(t *testing.T) {
	t.Parallel()

	bridge := New(nil, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, bridge.Run(ctx, Sources{}))
	require.Error(t, bridge.Run(ctx, Sources{}))
}

func TestNewClampsCapacity(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultCapacity, cap(New(nil, Config{}).Events()))
	require.Equal(t, maxCapacity, cap(New(nil, Config{Capacity: 1000}).Events()))
	require.Equal(t, 4, cap(New(nil, Config{Capacity: 4}).Events()))
}
