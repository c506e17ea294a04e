// Package overlay presents load progress and load failures over the 3D view.
//
// The overlay is a small state machine. Its image is rebuilt only when the
// visible text changes, so per-frame calls are cheap.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/message"
)

// State is what the overlay currently shows.
type State int

const (
	Hidden State = iota
	Loading
	Failed
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is the observable overlay state.
type Snapshot struct {
	State   State
	Percent int
	Text    string
}

// Overlay tracks presentation state. It is used from the render goroutine only.
type Overlay struct {
	printer *message.Printer

	state   State
	percent int
	reason  error
	text    string
	version uint64

	cached        *image.RGBA
	cachedVersion uint64

	// OnChange, when set, is called after every visible change.
	OnChange func(Snapshot)
}

// New creates a hidden overlay with messages in lang (BCP 47, e.g. "de").
func New(lang string) *Overlay {
	return &Overlay{printer: printerFor(lang)}
}

// ShowLoading shows the loading indicator at fraction in [0,1].
func (o *Overlay) ShowLoading(fraction float64) {
	fraction = min(max(fraction, 0), 1)
	percent := int(fraction * 100)
	if o.state == Loading && o.percent == percent {
		return
	}
	o.state = Loading
	o.percent = percent
	o.reason = nil
	o.set(o.printer.Sprintf(msgLoading, percent))
}

// ShowError replaces any indicator with the localized failure message.
// The cause is kept for Reason but never shown.
func (o *Overlay) ShowError(cause error) {
	o.reason = cause
	if o.state == Failed {
		return
	}
	o.state = Failed
	o.set(o.printer.Sprintf(msgFailed))
}

// Hide removes the overlay.
func (o *Overlay) Hide() {
	if o.state == Hidden {
		return
	}
	o.state = Hidden
	o.percent = 0
	o.reason = nil
	o.set("")
}

func (o *Overlay) set(text string) {
	o.text = text
	o.version++
	if o.OnChange != nil {
		o.OnChange(o.Snapshot())
	}
}

// State returns the current state.
func (o *Overlay) State() State { return o.state }

// Visible reports whether anything is shown.
func (o *Overlay) Visible() bool { return o.state != Hidden }

// Text returns the localized text currently shown.
func (o *Overlay) Text() string { return o.text }

// Reason returns the load error behind a Failed state.
func (o *Overlay) Reason() error { return o.reason }

// Version increases on every visible change.
func (o *Overlay) Version() uint64 { return o.version }

// Snapshot returns the current observable state.
func (o *Overlay) Snapshot() Snapshot {
	return Snapshot{State: o.state, Percent: o.percent, Text: o.text}
}

var (
	panelColor = color.RGBA{A: 170}
	barColor   = color.RGBA{R: 0xb8, G: 0x73, B: 0x33, A: 0xff}
	trackColor = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

const (
	padding   = 8
	barHeight = 4
)

// Image returns the overlay rendered at width×height, or nil when hidden.
// The returned image is reused until the overlay or the size changes.
func (o *Overlay) Image(width, height int) *image.RGBA {
	if o.state == Hidden || width <= 0 || height <= 0 {
		return nil
	}
	if o.cached != nil && o.cachedVersion == o.version &&
		o.cached.Rect.Dx() == width && o.cached.Rect.Dy() == height {
		return o.cached
	}

	o.cached = o.render(width, height)
	o.cachedVersion = o.version
	return o.cached
}

func (o *Overlay) render(width, height int) *image.RGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	textW := font.MeasureString(face, o.text).Ceil()
	lineH := metrics.Height.Ceil()

	panelH := lineH + 2*padding
	if o.state == Loading {
		panelH += barHeight + padding
	}
	panel := image.NewRGBA(image.Rect(0, 0, textW+2*padding, panelH))
	draw.Draw(panel, panel.Bounds(), image.NewUniform(panelColor), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  panel,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(padding, padding+metrics.Ascent.Ceil()),
	}
	d.DrawString(o.text)

	if o.state == Loading {
		track := image.Rect(padding, padding+lineH+padding, padding+textW, padding+lineH+padding+barHeight)
		draw.Draw(panel, track, image.NewUniform(trackColor), image.Point{}, draw.Src)
		filled := track
		filled.Max.X = track.Min.X + track.Dx()*o.percent/100
		draw.Draw(panel, filled, image.NewUniform(barColor), image.Point{}, draw.Src)
	}

	// Integer upscale keeps the bitmap glyphs crisp on large surfaces.
	scale := max(1, min(4, min(width, height)/240))
	pw, ph := panel.Bounds().Dx()*scale, panel.Bounds().Dy()*scale
	if pw > width || ph > height {
		scale = 1
		pw, ph = panel.Bounds().Dx(), panel.Bounds().Dy()
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	x0, y0 := (width-pw)/2, (height-ph)/2
	dr := image.Rect(x0, y0, x0+pw, y0+ph)
	xdraw.NearestNeighbor.Scale(dst, dr, panel, panel.Bounds(), xdraw.Over, nil)
	return dst
}
