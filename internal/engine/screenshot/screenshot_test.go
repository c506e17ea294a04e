package screenshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := New(dir, "")

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 0xb8, G: 0x73, B: 0x33, A: 0xff})

	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	name, err := c.Save(img, at)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "glowview_2024-03-01_12-30-00.000.png"); name != want {
		t.Errorf("filename = %q, want %q", name, want)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	if r, g, b, _ := got.At(1, 1).RGBA(); r>>8 != 0xb8 || g>>8 != 0x73 || b>>8 != 0x33 {
		t.Errorf("pixel = %v", got.At(1, 1))
	}
}
