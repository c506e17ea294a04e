package overlay

import (
	"errors"
	"strings"
	"testing"
)

func TestOverlayTransitions(t *testing.T) {
	o := New("en")
	if o.Visible() {
		t.Fatal("new overlay should be hidden")
	}

	var seen []Snapshot
	o.OnChange = func(s Snapshot) { seen = append(seen, s) }

	o.ShowLoading(0)
	o.ShowLoading(0.004) // same percent, no change
	o.ShowLoading(0.5)
	o.ShowLoading(1)
	o.Hide()

	want := []struct {
		state   State
		percent int
	}{
		{Loading, 0},
		{Loading, 50},
		{Loading, 100},
		{Hidden, 0},
	}
	if len(seen) != len(want) {
		t.Fatalf("changes = %d, want %d: %+v", len(seen), len(want), seen)
	}
	for i, w := range want {
		if seen[i].State != w.state || seen[i].Percent != w.percent {
			t.Errorf("change %d = %+v, want %v %d%%", i, seen[i], w.state, w.percent)
		}
	}
	if seen[2].Text != "Loading model... 100%" {
		t.Errorf("text = %q", seen[2].Text)
	}
}

func TestOverlayClampsProgress(t *testing.T) {
	o := New("en")
	o.ShowLoading(-1)
	if o.Snapshot().Percent != 0 {
		t.Errorf("percent = %d, want 0", o.Snapshot().Percent)
	}
	o.ShowLoading(7)
	if o.Snapshot().Percent != 100 {
		t.Errorf("percent = %d, want 100", o.Snapshot().Percent)
	}
}

func TestOverlayError(t *testing.T) {
	o := New("en")
	o.ShowLoading(0.3)

	cause := errors.New("connection refused")
	o.ShowError(cause)

	if o.State() != Failed {
		t.Fatalf("state = %v, want failed", o.State())
	}
	if !errors.Is(o.Reason(), cause) {
		t.Errorf("reason = %v", o.Reason())
	}
	if strings.Contains(o.Text(), "refused") {
		t.Errorf("failure text leaks cause: %q", o.Text())
	}
}

func TestOverlayLocalized(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "Could not load model"},
		{"de", "Modell konnte nicht geladen werden"},
		{"de-AT", "Modell konnte nicht geladen werden"},
		{"es", "No se pudo cargar el modelo"},
		{"xx-invalid", "Could not load model"},
		{"ja", "Could not load model"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			o := New(tt.lang)
			o.ShowError(errors.New("boom"))
			if o.Text() != tt.want {
				t.Errorf("text = %q, want %q", o.Text(), tt.want)
			}
		})
	}
}

func TestOverlayImage(t *testing.T) {
	o := New("en")
	if img := o.Image(640, 480); img != nil {
		t.Fatal("hidden overlay should have no image")
	}

	o.ShowLoading(0.5)
	img := o.Image(640, 480)
	if img == nil {
		t.Fatal("loading overlay has no image")
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("image size = %v", b)
	}
	if a := img.RGBAAt(320, 240).A; a == 0 {
		t.Error("center pixel is transparent")
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Error("corner pixel is not transparent")
	}

	if again := o.Image(640, 480); again != img {
		t.Error("unchanged overlay rebuilt its image")
	}
	o.ShowLoading(0.9)
	if again := o.Image(640, 480); again == img {
		t.Error("changed overlay reused its image")
	}
}
