package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitControls orbits a Perspective camera around a pivot using spherical
// coordinates. Input moves goal values immediately; the camera follows the
// goals through critically damped springs.
type OrbitControls struct {
	camera *Perspective

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPolar    float64 // radians from +Y
	MaxPolar    float64

	// Sensitivity
	RotateSpeed float64
	ZoomSpeed   float64
	PanSpeed    float64

	// Damping spring angular frequency; higher settles faster.
	Frequency float64

	AutoRotate      bool
	AutoRotateSpeed float64 // 2.0 is one revolution per 30s

	goal    orbitState
	current orbitState
	vel     orbitState
}

type orbitState struct {
	azimuth  float64
	polar    float64
	distance float64
	target   [3]float64
}

// NewOrbitControls creates controls driving cam. The initial orbit is
// derived from the camera's current position and target.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	o := &OrbitControls{
		camera:          cam,
		MinDistance:     2,
		MaxDistance:     10,
		MinPolar:        0.1,
		MaxPolar:        math.Pi / 1.5,
		RotateSpeed:     1,
		ZoomSpeed:       1,
		PanSpeed:        1,
		Frequency:       6,
		AutoRotateSpeed: 2,
	}

	offset := cam.Position.Sub(cam.Target)
	d := float64(offset.Len())
	s := orbitState{
		distance: d,
		target:   [3]float64{float64(cam.Target[0]), float64(cam.Target[1]), float64(cam.Target[2])},
	}
	if d > 0 {
		s.azimuth = math.Atan2(float64(offset.X()), float64(offset.Z()))
		s.polar = math.Acos(clamp(float64(offset.Y())/d, -1, 1))
	}
	o.goal = s
	o.clampGoal()
	o.current = o.goal
	o.apply()
	return o
}

// Camera returns the driven camera.
func (o *OrbitControls) Camera() *Perspective { return o.camera }

// Azimuth returns the rendered horizontal angle in radians.
func (o *OrbitControls) Azimuth() float64 { return o.current.azimuth }

// Polar returns the rendered angle from the vertical axis in radians.
func (o *OrbitControls) Polar() float64 { return o.current.polar }

// Distance returns the rendered distance from the pivot.
func (o *OrbitControls) Distance() float64 { return o.current.distance }

// GoalAzimuth returns the azimuth the camera is settling towards.
func (o *OrbitControls) GoalAzimuth() float64 { return o.goal.azimuth }

// GoalDistance returns the distance the camera is settling towards.
func (o *OrbitControls) GoalDistance() float64 { return o.goal.distance }

// GoalPolar returns the polar angle the camera is settling towards.
func (o *OrbitControls) GoalPolar() float64 { return o.goal.polar }

// HandleDrag orbits by a pointer delta in pixels over a viewport of the given height.
func (o *OrbitControls) HandleDrag(dx, dy float64, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float64(viewportHeight)
	o.goal.azimuth -= 2 * math.Pi * dx / h * o.RotateSpeed
	o.goal.polar -= 2 * math.Pi * dy / h * o.RotateSpeed
	o.clampGoal()
}

// HandleZoom dollies by wheel steps; positive delta moves closer.
func (o *OrbitControls) HandleZoom(delta float64) {
	o.goal.distance *= math.Pow(0.95, o.ZoomSpeed*delta)
	o.clampGoal()
}

// HandlePan moves the pivot in the camera plane by a pointer delta in pixels.
func (o *OrbitControls) HandlePan(dx, dy float64, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	// World units per pixel at the pivot distance.
	fov := float64(mgl32.DegToRad(o.camera.FOV))
	unit := 2 * o.goal.distance * math.Tan(fov/2) / float64(viewportHeight) * o.PanSpeed

	sinA, cosA := math.Sincos(o.goal.azimuth)
	right := [3]float64{cosA, 0, -sinA}
	up := [3]float64{0, 1, 0}
	for i := 0; i < 3; i++ {
		o.goal.target[i] += -dx*unit*right[i] + dy*unit*up[i]
	}
}

// Update advances autorotation and the damping springs by dt seconds and
// writes the result into the camera.
func (o *OrbitControls) Update(dt float64) {
	if dt <= 0 {
		o.apply()
		return
	}
	if o.AutoRotate {
		o.goal.azimuth -= 2 * math.Pi / 60 * o.AutoRotateSpeed * dt
	}

	spring := harmonica.NewSpring(dt, o.Frequency, 1.0)
	o.current.azimuth, o.vel.azimuth = spring.Update(o.current.azimuth, o.vel.azimuth, o.goal.azimuth)
	o.current.polar, o.vel.polar = spring.Update(o.current.polar, o.vel.polar, o.goal.polar)
	o.current.distance, o.vel.distance = spring.Update(o.current.distance, o.vel.distance, o.goal.distance)
	for i := 0; i < 3; i++ {
		o.current.target[i], o.vel.target[i] = spring.Update(o.current.target[i], o.vel.target[i], o.goal.target[i])
	}

	o.apply()
}

// Reset snaps to the given orbit with no residual motion.
func (o *OrbitControls) Reset(azimuth, polar, distance float64) {
	o.goal = orbitState{azimuth: azimuth, polar: polar, distance: distance}
	o.clampGoal()
	o.current = o.goal
	o.vel = orbitState{}
	o.apply()
}

func (o *OrbitControls) clampGoal() {
	o.goal.polar = clamp(o.goal.polar, o.MinPolar, o.MaxPolar)
	o.goal.distance = clamp(o.goal.distance, o.MinDistance, o.MaxDistance)
}

func (o *OrbitControls) apply() {
	s := o.current
	sinP, cosP := math.Sincos(s.polar)
	sinA, cosA := math.Sincos(s.azimuth)
	target := mgl32.Vec3{float32(s.target[0]), float32(s.target[1]), float32(s.target[2])}
	offset := mgl32.Vec3{
		float32(s.distance * sinP * sinA),
		float32(s.distance * cosP),
		float32(s.distance * sinP * cosA),
	}
	o.camera.LookAt(target.Add(offset), target)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
