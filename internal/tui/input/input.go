// Package input defines the keypad vocabulary and maps terminal keys onto it.
package input

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Key is a physical keypad button.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyA // accept
	KeyB // cancel
	KeyX
	KeyY
	KeyStart
	KeySelect
	KeyMenu
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyA:
		return "A"
	case KeyB:
		return "B"
	case KeyX:
		return "X"
	case KeyY:
		return "Y"
	case KeyStart:
		return "Start"
	case KeySelect:
		return "Select"
	case KeyMenu:
		return "Menu"
	default:
		return "Unknown"
	}
}

// EventKind distinguishes the first press from held-key repeats.
type EventKind int

const (
	Pressed EventKind = iota
	Released
	Autorepeat
)

// KeyEvent is one input event.
type KeyEvent struct {
	Kind EventKind
	Key  Key
}

// Press builds a Pressed event.
func Press(k Key) KeyEvent { return KeyEvent{Kind: Pressed, Key: k} }

// Repeat builds an Autorepeat event.
func Repeat(k Key) KeyEvent { return KeyEvent{Kind: Autorepeat, Key: k} }

// IsPressed reports a first press of k.
func (e KeyEvent) IsPressed(k Key) bool {
	return e.Kind == Pressed && e.Key == k
}

// IsPressedOrRepeat reports a press or autorepeat of k.
func (e KeyEvent) IsPressedOrRepeat(k Key) bool {
	return (e.Kind == Pressed || e.Kind == Autorepeat) && e.Key == k
}

func (e KeyEvent) String() string {
	switch e.Kind {
	case Autorepeat:
		return fmt.Sprintf("Autorepeat(%s)", e.Key)
	case Released:
		return fmt.Sprintf("Released(%s)", e.Key)
	default:
		return fmt.Sprintf("Pressed(%s)", e.Key)
	}
}

// KeyMap resolves terminal key names to keypad keys. Arrows are fixed.
type KeyMap struct {
	bindings map[string]Key
}

// Bindings lists terminal key names per keypad button.
type Bindings struct {
	Accept []string
	Cancel []string
	X      []string
	Y      []string
	Start  []string
	Select []string
	Menu   []string
}

// NewKeyMap builds a key map. Later groups win on conflicting names.
func NewKeyMap(b Bindings) KeyMap {
	m := KeyMap{bindings: map[string]Key{
		"up":    KeyUp,
		"down":  KeyDown,
		"left":  KeyLeft,
		"right": KeyRight,
	}}
	groups := []struct {
		names []string
		key   Key
	}{
		{b.Menu, KeyMenu},
		{b.Select, KeySelect},
		{b.Start, KeyStart},
		{b.Y, KeyY},
		{b.X, KeyX},
		{b.Cancel, KeyB},
		{b.Accept, KeyA},
	}
	for _, g := range groups {
		for _, name := range g.names {
			m.bindings[name] = g.key
		}
	}
	return m
}

// Lookup returns the keypad key bound to a terminal key name.
func (m KeyMap) Lookup(name string) (Key, bool) {
	k, ok := m.bindings[name]
	return k, ok
}

// FromTeaKey translates a bubbletea key message. Terminals do not report
// releases, and repeats arrive as ordinary presses.
func (m KeyMap) FromTeaKey(msg tea.KeyMsg) (KeyEvent, bool) {
	k, ok := m.Lookup(msg.String())
	if !ok {
		return KeyEvent{}, false
	}
	return Press(k), true
}
