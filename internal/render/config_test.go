package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadThemeDefaultsWhenUnset(t *testing.T) {
	t.Setenv("RENDER_THEME_PATH", "")

	theme, err := LoadTheme()
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	if theme.Stage.Width != 1600 || theme.Stage.Height != 1000 {
		t.Fatalf("unexpected default stage size: %dx%d", theme.Stage.Width, theme.Stage.Height)
	}
	if theme.Node.BaseSize != 120 {
		t.Fatalf("unexpected default base size: %d", theme.Node.BaseSize)
	}
}

func TestLoadThemeOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	content := "stage:\n  width: 800\n  height: 600\n  background: \"#000000\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write theme file: %v", err)
	}
	t.Setenv("RENDER_THEME_PATH", path)

	theme, err := LoadTheme()
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	if theme.Stage.Width != 800 || theme.Stage.Height != 600 {
		t.Fatalf("overlay did not apply: %dx%d", theme.Stage.Width, theme.Stage.Height)
	}
	// Untouched values keep their defaults.
	if theme.Node.LabelSize != 22 {
		t.Fatalf("default label size lost: %v", theme.Node.LabelSize)
	}
}

func TestLoadThemeRejectsBadDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte("stage:\n  width: -5\n"), 0o644); err != nil {
		t.Fatalf("write theme file: %v", err)
	}
	t.Setenv("RENDER_THEME_PATH", path)

	if _, err := LoadTheme(); err == nil {
		t.Fatalf("expected error for negative width")
	}
}

func TestParseHexColor(t *testing.T) {
	fallback := color.NRGBA{R: 1, G: 2, B: 3, A: 255}

	got := ParseHexColor("#FF8000", fallback)
	want := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	if got != want {
		t.Fatalf("parse: want=%+v got=%+v", want, got)
	}

	if got := ParseHexColor("not-a-color", fallback); got != fallback {
		t.Fatalf("fallback not used: %+v", got)
	}
	if got := ParseHexColor("#FFF", fallback); got != fallback {
		t.Fatalf("short form should fall back: %+v", got)
	}
}
