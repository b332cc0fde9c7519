package upscale

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestSetLogger(t *testing.T) {
	if Logger() == nil {
		t.Fatal("default logger is nil")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger must be silent")
	}

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello")
	if buf.Len() == 0 {
		t.Fatal("custom logger not used")
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nil must restore the silent logger")
	}
}
