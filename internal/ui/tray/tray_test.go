package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpletimer/internal/app"
	"simpletimer/internal/core/bridge"
)

func TestMenuItemsFeedMenuSource(t *testing.T) {
	manager := New(nil, "Simple Timer", 4)
	defer manager.Close()

	for _, item := range manager.items {
		if item.Action != nil {
			item.Action()
		}
	}

	sources := manager.Sources()
	var got []bridge.MenuID
	for i := 0; i < 4; i++ {
		got = append(got, (<-sources.Menu).ID)
	}
	require.Equal(t, []bridge.MenuID{app.MenuShow, app.MenuPause, app.MenuNotify, app.MenuQuit}, got)
}

func TestPushIconFeedsIconSource(t *testing.T) {
	manager := New(nil, "Simple Timer", 1)
	defer manager.Close()

	click := bridge.IconEvent{Kind: bridge.IconClick, Button: bridge.ButtonLeft, State: bridge.ButtonUp}
	manager.pushIcon(click)
	require.Equal(t, click, <-manager.Sources().Icon)
}

func TestCloseUnblocksPendingPush(t *testing.T) {
	manager := New(nil, "Simple Timer", 1)
	manager.pushMenu(bridge.MenuEvent{ID: app.MenuShow})

	pushed := make(chan struct{})
	go func() {
		manager.pushMenu(bridge.MenuEvent{ID: app.MenuQuit})
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push returned while the buffer was full")
	case <-time.After(50 * time.Millisecond):
	}

	manager.Close()
	<-pushed

	sources := manager.Sources()
	require.Equal(t, bridge.MenuID(app.MenuShow), (<-sources.Menu).ID)
	_, ok := <-sources.Menu
	require.False(t, ok)
	_, ok = <-sources.Icon
	require.False(t, ok)

	// no-op once closed
	manager.pushIcon(bridge.IconEvent{Kind: bridge.IconClick})
	manager.Close()
}

func TestStatusAndPauseLabels(t *testing.T) {
	manager := New(nil, "Simple Timer", 1)
	defer manager.Close()

	manager.SetStatus("next in 00:29:59")
	require.Equal(t, "Status: next in 00:29:59", manager.statusItem.Label)

	manager.SetPaused(true)
	require.Equal(t, "Resume", manager.pauseItem.Label)
	require.Equal(t, "Status: next in 00:29:59 (paused)", manager.statusItem.Label)

	manager.SetPaused(false)
	require.Equal(t, "Pause", manager.pauseItem.Label)
}
