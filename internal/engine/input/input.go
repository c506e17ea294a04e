// Package input translates SDL2 events into viewer input.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/glowview/internal/host"
)

// EventType classifies translated events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventPointer
)

// Event represents a processed input event.
type Event struct {
	Type    EventType
	Key     sdl.Scancode
	Width   int
	Height  int
	Pointer host.PointerEvent
}

// Input handles all input processing.
type Input struct {
	events []Event

	// Last pointer position; SDL wheel events carry no coordinates.
	mouseX, mouseY float64
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and translates them.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := i.translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, ev)
		if ev.Type == EventQuit {
			return true
		}
	}

	return false
}

func (i *Input) translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		i.mouseX, i.mouseY = float64(e.X), float64(e.Y)
		return i.pointer(host.PointerMove, host.ButtonNone), true

	case *sdl.MouseButtonEvent:
		i.mouseX, i.mouseY = float64(e.X), float64(e.Y)
		kind := host.PointerDown
		if e.Type == sdl.MOUSEBUTTONUP {
			kind = host.PointerUp
		}
		return i.pointer(kind, button(e.Button)), true

	case *sdl.MouseWheelEvent:
		y := float64(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		if y == 0 {
			return Event{}, false
		}
		ev := i.pointer(host.PointerWheel, host.ButtonNone)
		ev.Pointer.Wheel = y
		return ev, true
	}

	return Event{}, false
}

func (i *Input) pointer(kind host.PointerKind, b host.Button) Event {
	return Event{
		Type: EventPointer,
		Pointer: host.PointerEvent{
			Kind:   kind,
			Button: b,
			X:      i.mouseX,
			Y:      i.mouseY,
		},
	}
}

func button(b uint8) host.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return host.ButtonPrimary
	case sdl.BUTTON_MIDDLE:
		return host.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return host.ButtonSecondary
	default:
		return host.ButtonNone
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
