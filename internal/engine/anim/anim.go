// Package anim samples keyframed animation clips onto scene nodes.
package anim

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glowview/internal/engine/scene"
)

// Path is the node property a channel drives.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpLinear Interpolation = iota
	InterpStep
)

// Channel animates one property of one node. Times are in seconds and sorted.
// Values hold xyz in the first three components for translation and scale,
// and xyzw for rotation quaternions.
type Channel struct {
	Node   *scene.Node
	Path   Path
	Interp Interpolation
	Times  []float32
	Values [][4]float32
}

// Clip is a named set of channels played together.
type Clip struct {
	Name     string
	Channels []Channel
	Duration float32
}

// ComputeDuration sets Duration from the last keyframe of every channel.
func (c *Clip) ComputeDuration() {
	c.Duration = 0
	for _, ch := range c.Channels {
		if n := len(ch.Times); n > 0 && ch.Times[n-1] > c.Duration {
			c.Duration = ch.Times[n-1]
		}
	}
}

// Player advances every clip it holds in lockstep, looping each.
type Player struct {
	clips []*Clip
	time  float32
	speed float32
}

// NewPlayer creates a player for clips. It returns nil when there is nothing to play.
func NewPlayer(clips []*Clip) *Player {
	var playable []*Clip
	for _, c := range clips {
		if c != nil && len(c.Channels) > 0 {
			if c.Duration == 0 {
				c.ComputeDuration()
			}
			playable = append(playable, c)
		}
	}
	if len(playable) == 0 {
		return nil
	}
	p := &Player{clips: playable, speed: 1}
	p.apply()
	return p
}

// Clips returns the clips being played.
func (p *Player) Clips() []*Clip { return p.clips }

// Time returns the accumulated playback time in seconds.
func (p *Player) Time() float32 { return p.time }

// SetSpeed sets the playback rate multiplier.
func (p *Player) SetSpeed(s float32) { p.speed = s }

// Update advances playback by dt seconds and writes sampled values to nodes.
func (p *Player) Update(dt float32) {
	p.time += dt * p.speed
	p.apply()
}

func (p *Player) apply() {
	for _, c := range p.clips {
		t := p.time
		if c.Duration > 0 {
			t = float32(math.Mod(float64(t), float64(c.Duration)))
			if t < 0 {
				t += c.Duration
			}
		}
		for i := range c.Channels {
			c.Channels[i].applyAt(t)
		}
	}
}

func (ch *Channel) applyAt(t float32) {
	if ch.Node == nil || len(ch.Times) == 0 || len(ch.Values) < len(ch.Times) {
		return
	}
	v := ch.Sample(t)
	switch ch.Path {
	case PathTranslation:
		ch.Node.Translation = mgl32.Vec3{v[0], v[1], v[2]}
	case PathScale:
		ch.Node.Scale = mgl32.Vec3{v[0], v[1], v[2]}
	case PathRotation:
		ch.Node.Rotation = quat(v)
	}
}

// Sample returns the channel value at time t, clamped to the keyframe range.
func (ch *Channel) Sample(t float32) [4]float32 {
	n := len(ch.Times)
	if t <= ch.Times[0] {
		return ch.Values[0]
	}
	if t >= ch.Times[n-1] {
		return ch.Values[n-1]
	}

	// First key strictly after t.
	next := sort.Search(n, func(i int) bool { return ch.Times[i] > t })
	prev := next - 1
	if ch.Interp == InterpStep {
		return ch.Values[prev]
	}

	t0, t1 := ch.Times[prev], ch.Times[next]
	f := float32(0)
	if t1 > t0 {
		f = (t - t0) / (t1 - t0)
	}

	a, b := ch.Values[prev], ch.Values[next]
	if ch.Path == PathRotation {
		q := mgl32.QuatSlerp(quat(a), quat(b), f)
		return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
	}
	return [4]float32{
		a[0] + f*(b[0]-a[0]),
		a[1] + f*(b[1]-a[1]),
		a[2] + f*(b[2]-a[2]),
		0,
	}
}

func quat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}.Normalize()
}
