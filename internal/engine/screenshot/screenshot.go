// Package screenshot saves rendered frames as PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capture writes screenshots into a directory with a common file prefix.
type Capture struct {
	outputDir string
	prefix    string
}

// New creates a capture handler. An empty outputDir writes to the working
// directory.
func New(outputDir, prefix string) *Capture {
	if prefix == "" {
		prefix = "glowview"
	}
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// Filename returns the path a capture taken at t is written to.
func (c *Capture) Filename(t time.Time) string {
	name := fmt.Sprintf("%s_%s.png", c.prefix, t.Format("2006-01-02_15-04-05.000"))
	if c.outputDir != "" {
		name = filepath.Join(c.outputDir, name)
	}
	return name
}

// Save encodes img as PNG and returns the file written.
func (c *Capture) Save(img image.Image, t time.Time) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename(t)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, file.Close()
}
