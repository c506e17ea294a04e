package main

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/viewer"
)

// pickModel shows a native file dialog. It returns "" when the user cancels.
func pickModel() (string, error) {
	filename, err := dialog.File().
		Filter("glTF Binary", "glb").
		Filter("All Files", "*").
		Title("Open Model").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	return filename, err
}

// openModel lets the user pick another model and reloads the viewer with it.
// It does not block the render loop.
func openModel(v *viewer.Viewer, log *zap.Logger) {
	go func() {
		path, err := pickModel()
		if err != nil {
			log.Warn("file dialog failed", zap.Error(err))
			return
		}
		if path == "" {
			return
		}
		if err := v.Reload(path); err != nil {
			log.Warn("reload failed", zap.Error(err))
		}
	}()
}
