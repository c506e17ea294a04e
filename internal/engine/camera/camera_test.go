package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewPerspectiveDefaults(t *testing.T) {
	c := NewPerspective()
	if c.FOV != 45 || c.Near != 0.1 || c.Far != 1000 {
		t.Errorf("lens = fov %f near %f far %f", c.FOV, c.Near, c.Far)
	}
	want := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 1000)
	if !c.Projection().ApproxEqual(want) {
		t.Error("projection does not match default lens")
	}
}

func TestSetAspectKeepsFOV(t *testing.T) {
	c := NewPerspective()
	c.SetAspect(800.0 / 600.0)
	c.SetAspect(400.0 / 300.0)

	if c.Aspect != float32(400.0/300.0) {
		t.Errorf("aspect = %f", c.Aspect)
	}
	if c.FOV != 45 {
		t.Errorf("FOV changed to %f", c.FOV)
	}

	c.SetAspect(0)
	if c.Aspect != float32(400.0/300.0) {
		t.Error("zero aspect must be ignored")
	}
}

func settle(o *OrbitControls, seconds float64) {
	const step = 1.0 / 60
	for t := 0.0; t < seconds; t += step {
		o.Update(step)
	}
}

func TestOrbitFromCameraPosition(t *testing.T) {
	c := NewPerspective()
	o := NewOrbitControls(c)

	if math.Abs(o.Distance()-5) > 1e-6 {
		t.Errorf("distance = %f, want 5", o.Distance())
	}
	if math.Abs(o.Polar()-math.Pi/2) > 1e-6 {
		t.Errorf("polar = %f, want pi/2", o.Polar())
	}
	if math.Abs(o.Azimuth()) > 1e-6 {
		t.Errorf("azimuth = %f, want 0", o.Azimuth())
	}
}

func TestZoomClampedAndDamped(t *testing.T) {
	o := NewOrbitControls(NewPerspective())

	for i := 0; i < 200; i++ {
		o.HandleZoom(1)
	}
	if o.GoalDistance() != o.MinDistance {
		t.Errorf("goal distance = %f, want clamp %f", o.GoalDistance(), o.MinDistance)
	}

	// One short step moves part of the way, not all of it.
	o.Update(1.0 / 60)
	if o.Distance() <= o.MinDistance || o.Distance() >= 5 {
		t.Errorf("distance after one step = %f, want strictly between %f and 5", o.Distance(), o.MinDistance)
	}

	settle(o, 5)
	if math.Abs(o.Distance()-o.MinDistance) > 1e-3 {
		t.Errorf("distance after settling = %f, want %f", o.Distance(), o.MinDistance)
	}

	for i := 0; i < 500; i++ {
		o.HandleZoom(-1)
	}
	if o.GoalDistance() != o.MaxDistance {
		t.Errorf("goal distance = %f, want clamp %f", o.GoalDistance(), o.MaxDistance)
	}
}

func TestDampingDoesNotOvershoot(t *testing.T) {
	o := NewOrbitControls(NewPerspective())
	o.HandleDrag(-200, 0, 600) // azimuth goal increases

	goal := o.GoalAzimuth()
	prev := o.Azimuth()
	for i := 0; i < 600; i++ {
		o.Update(1.0 / 60)
		if o.Azimuth() > goal+1e-9 {
			t.Fatalf("azimuth overshot goal: %f > %f", o.Azimuth(), goal)
		}
		if o.Azimuth() < prev-1e-9 {
			t.Fatalf("azimuth moved backwards at step %d", i)
		}
		prev = o.Azimuth()
	}
	if math.Abs(o.Azimuth()-goal) > 1e-3 {
		t.Errorf("azimuth = %f, want %f", o.Azimuth(), goal)
	}
}

func TestPolarClamp(t *testing.T) {
	o := NewOrbitControls(NewPerspective())
	o.HandleDrag(0, 10000, 600)
	if o.GoalPolar() != o.MinPolar {
		t.Errorf("polar goal = %f, want %f", o.GoalPolar(), o.MinPolar)
	}
	o.HandleDrag(0, -10000, 600)
	if o.GoalPolar() != o.MaxPolar {
		t.Errorf("polar goal = %f, want %f", o.GoalPolar(), o.MaxPolar)
	}
}

func TestAutoRotate(t *testing.T) {
	o := NewOrbitControls(NewPerspective())
	o.AutoRotate = true
	o.AutoRotateSpeed = 2

	o.Update(1)
	want := -2 * math.Pi / 60 * 2
	if math.Abs(o.GoalAzimuth()-want) > 1e-9 {
		t.Errorf("goal azimuth after 1s = %f, want %f", o.GoalAzimuth(), want)
	}

	// Interaction does not stop the accumulation.
	o.HandleDrag(10, 0, 600)
	before := o.GoalAzimuth()
	o.Update(0.5)
	if math.Abs(o.GoalAzimuth()-(before-2*math.Pi/60)) > 1e-9 {
		t.Errorf("autorotation did not keep accumulating during interaction")
	}
}

func TestCameraStaysOnSphere(t *testing.T) {
	c := NewPerspective()
	o := NewOrbitControls(c)
	o.AutoRotate = true
	settle(o, 3)

	d := c.Position.Sub(c.Target).Len()
	if math.Abs(float64(d)-o.Distance()) > 1e-3 {
		t.Errorf("camera distance %f != orbit distance %f", d, o.Distance())
	}
}

func TestPanMovesTarget(t *testing.T) {
	c := NewPerspective()
	o := NewOrbitControls(c)

	o.HandlePan(0, 100, 600)
	settle(o, 5)

	if c.Target.Y() <= 0 {
		t.Errorf("target y = %f, want > 0 after panning up", c.Target.Y())
	}
}
