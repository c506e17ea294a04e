// Package host defines the page and container collaborators a viewer is
// embedded into, plus an in-memory implementation.
package host

// PointerKind classifies pointer events.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerUp
	PointerMove
	PointerWheel
)

// Button identifies a pointer button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a pointer interaction in container coordinates (logical pixels).
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	X, Y   float64
	// Wheel is the scroll amount for PointerWheel; positive scrolls away from the user.
	Wheel float64
}

// Container is the area a viewer renders into.
type Container interface {
	ID() string
	// Size returns the container size in logical pixels.
	Size() (width, height int)
	// PixelRatio returns device pixels per logical pixel.
	PixelRatio() float64

	// OnResize subscribes to size changes. The returned func unsubscribes.
	OnResize(fn func(width, height int)) (unsubscribe func())
	// OnPointer subscribes to pointer input. The returned func unsubscribes.
	OnPointer(fn func(PointerEvent)) (unsubscribe func())

	// Present shows the frame that was just drawn.
	Present()
}

// Page resolves containers by id.
type Page interface {
	Container(id string) (Container, bool)
}
