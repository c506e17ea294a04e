package viewer

import (
	"github.com/Faultbox/glowview/internal/host"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragOrbit
	dragPan
)

// pointer tracks an active drag between pointer events.
type pointer struct {
	mode  dragMode
	lastX float64
	lastY float64
}

// onPointer maps container pointer input onto the orbit controls: primary
// drag orbits, secondary or middle drag pans, the wheel zooms.
func (v *Viewer) onPointer(ev host.PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.State() != Running || v.controls == nil {
		return
	}

	p := &v.pointer
	switch ev.Kind {
	case host.PointerDown:
		switch ev.Button {
		case host.ButtonPrimary:
			p.mode = dragOrbit
		case host.ButtonSecondary, host.ButtonMiddle:
			p.mode = dragPan
		default:
			return
		}
		p.lastX, p.lastY = ev.X, ev.Y

	case host.PointerMove:
		if p.mode == dragNone {
			return
		}
		dx, dy := ev.X-p.lastX, ev.Y-p.lastY
		p.lastX, p.lastY = ev.X, ev.Y
		if p.mode == dragOrbit {
			v.controls.HandleDrag(dx, dy, v.viewport.Height)
		} else {
			v.controls.HandlePan(dx, dy, v.viewport.Height)
		}

	case host.PointerUp:
		p.mode = dragNone

	case host.PointerWheel:
		v.controls.HandleZoom(ev.Wheel)
	}
}
