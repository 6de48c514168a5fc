package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Style controls the look of a rendered chart. Any field left empty in a
// style file keeps its default.
type Style struct {
	Font struct {
		Family string `yaml:"family"` // Font family for labels and ticks
		Size   int    `yaml:"size"`   // Base font size in pixels
	} `yaml:"font"`
	Colors struct {
		Background    string `yaml:"background"`
		GridLine      string `yaml:"grid_line"`
		Text          string `yaml:"text"`
		Muted         string `yaml:"muted"`           // Tick labels and owners
		Bar           string `yaml:"bar"`             // Pending activities
		BarInProgress string `yaml:"bar_in_progress"` // In-progress activities
		BarCompleted  string `yaml:"bar_completed"`   // Completed activities
		Conflict      string `yaml:"conflict"`        // Bars and arrows in a violated dependency
		Arrow         string `yaml:"arrow"`           // Satisfied dependency arrows
	} `yaml:"colors"`
	Layout struct {
		HeaderHeight int `yaml:"header_height"` // Height of the tick label band
		LabelWidth   int `yaml:"label_width"`   // Width of the activity name column
		BarRadius    int `yaml:"bar_radius"`    // Corner radius of bars
		ArrowWidth   int `yaml:"arrow_width"`   // Stroke width of dependency arrows
	} `yaml:"layout"`
}

// DefaultStyle returns the built-in light theme.
func DefaultStyle() Style {
	var s Style
	s.Font.Family = "Helvetica, Arial, sans-serif"
	s.Font.Size = 12
	s.Colors.Background = "#ffffff"
	s.Colors.GridLine = "#e5e7eb"
	s.Colors.Text = "#1f2937"
	s.Colors.Muted = "#6b7280"
	s.Colors.Bar = "#3b82f6"
	s.Colors.BarInProgress = "#f59e0b"
	s.Colors.BarCompleted = "#22c55e"
	s.Colors.Conflict = "#ef4444"
	s.Colors.Arrow = "#64748b"
	s.Layout.HeaderHeight = 32
	s.Layout.LabelWidth = 180
	s.Layout.BarRadius = 4
	s.Layout.ArrowWidth = 2
	return s
}

// LoadStyle reads a YAML style file over the defaults. An empty path or a
// missing file yields DefaultStyle.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	if path == "" {
		return style, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return style, nil
		}
		return Style{}, fmt.Errorf("reading style file: %w", err)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return Style{}, fmt.Errorf("parsing style file: %w", err)
	}
	return style, nil
}
