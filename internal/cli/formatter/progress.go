package formatter

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// RenderProgress draws the share of completed activities, e.g.
// [██████░░░░]  60%. The fill turns from red to yellow to green.
func RenderProgress(pct float64, width int) string {
	pct = max(0, min(pct, 1))
	fill := ColorGreen
	switch {
	case pct < 0.33:
		fill = ColorRed
	case pct < 0.66:
		fill = ColorYellow
	}
	bar := progress.New(
		progress.WithWidth(max(width, 2)),
		progress.WithSolidFill(string(fill)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(ColorDim)
	return fmt.Sprintf("[%s] %3.0f%%", bar.ViewAs(pct), pct*100)
}
