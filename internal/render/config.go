package render

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme controls how a stage composition is drawn. Values come from the
// YAML file at RENDER_THEME_PATH; anything unset falls back to the
// built-in defaults.
type Theme struct {
	Stage struct {
		Width      int    `yaml:"width"`
		Height     int    `yaml:"height"`
		Background string `yaml:"background"`
		Grid       string `yaml:"grid"`
		GridStep   int    `yaml:"grid_step"`
	} `yaml:"stage"`
	Node struct {
		BaseSize          int     `yaml:"base_size"`
		LabelColor        string  `yaml:"label_color"`
		LabelSize         float64 `yaml:"label_size"`
		Placeholder       string  `yaml:"placeholder"`
		PlaceholderBorder string  `yaml:"placeholder_border"`
	} `yaml:"node"`
	FontPath string `yaml:"font"`
}

func DefaultTheme() Theme {
	var t Theme
	t.Stage.Width = 1600
	t.Stage.Height = 1000
	t.Stage.Background = "#1E1E24"
	t.Stage.Grid = "#2A2A33"
	t.Stage.GridStep = 100
	t.Node.BaseSize = 120
	t.Node.LabelColor = "#FFFFFF"
	t.Node.LabelSize = 22
	t.Node.Placeholder = "#44444E"
	t.Node.PlaceholderBorder = "#9A9AA5"
	return t
}

// LoadTheme reads the theme file named by RENDER_THEME_PATH, overlaying
// it on the defaults. An unset path yields the defaults.
func LoadTheme() (Theme, error) {
	t := DefaultTheme()
	path := strings.TrimSpace(os.Getenv("RENDER_THEME_PATH"))
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read theme file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse theme file: %w", err)
	}
	if t.Stage.Width <= 0 || t.Stage.Height <= 0 {
		return t, fmt.Errorf("theme stage dimensions must be positive")
	}
	return t, nil
}

// ParseHexColor parses "#RRGGBB" into an opaque color. Invalid input
// falls back to fallback.
func ParseHexColor(s string, fallback color.NRGBA) color.NRGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return fallback
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}
}
