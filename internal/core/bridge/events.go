package bridge

import "fmt"

// Kind tags which source an Event came from.
type Kind string

const (
	KindMenuActivated   Kind = "menu_activated"
	KindIconInteraction Kind = "icon_interaction"
)

// MenuID identifies a tray menu item.
type MenuID string

// IconEventKind is the kind of interaction with the tray icon.
type IconEventKind string

const (
	IconClick       IconEventKind = "click"
	IconDoubleClick IconEventKind = "double_click"
	IconEnter       IconEventKind = "enter"
	IconMove        IconEventKind = "move"
	IconLeave       IconEventKind = "leave"
)

// MouseButton identifies the button of a click.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// ButtonState is the press state of a click.
type ButtonState string

const (
	ButtonUp   ButtonState = "up"
	ButtonDown ButtonState = "down"
)

// MenuEvent is what the native menu source delivers.
type MenuEvent struct {
	ID MenuID
}

// IconEvent is what the native tray icon source delivers.
type IconEvent struct {
	Kind   IconEventKind
	Button MouseButton
	State  ButtonState
}

// Event is a normalized event from either source. Exactly one of Menu or Icon
// is meaningful, selected by Kind.
type Event struct {
	Kind Kind
	Menu MenuEvent
	Icon IconEvent
}

// MenuActivated wraps a menu event.
func MenuActivated(id MenuID) Event {
	return Event{Kind: KindMenuActivated, Menu: MenuEvent{ID: id}}
}

// IconInteraction wraps an icon event.
func IconInteraction(icon IconEvent) Event {
	return Event{Kind: KindIconInteraction, Icon: icon}
}

func (event Event) String() string {
	switch event.Kind {
	case KindMenuActivated:
		return fmt.Sprintf("menu(%s)", event.Menu.ID)
	case KindIconInteraction:
		return fmt.Sprintf("icon(%s %s %s)", event.Icon.Kind, event.Icon.Button, event.Icon.State)
	}
	return "unknown"
}

// isNoise reports high-frequency icon events that are dropped before queuing.
func (icon IconEvent) isNoise() bool {
	return icon.Kind == IconMove
}
