package timeline

import (
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

// Chart bundles everything a renderer needs for one snapshot.
type Chart struct {
	Grid     Grid
	Layout   Layout
	Rows     []domain.Activity
	Bars     []Bar
	Statuses []scheduler.DependencyStatus
	Paths    []Path
}

// Height is the canvas height of the rows.
func (c Chart) Height() float64 {
	return c.Layout.Height(len(c.Rows))
}

// Conflicts returns the violated dependencies.
func (c Chart) Conflicts() []scheduler.DependencyStatus {
	return scheduler.Conflicting(c.Statuses)
}

// BuildChart computes grid, rows, bars and paths in one pass.
func BuildChart(activities []domain.Activity, deps []domain.Dependency, widthPx float64, cfg GridConfig, l Layout) Chart {
	rows := RowOrder(activities)
	statuses := scheduler.EvaluateDependencies(rows, deps)
	g := ComputeGrid(rows, widthPx, cfg)
	return Chart{
		Grid:     g,
		Layout:   l,
		Rows:     rows,
		Bars:     LayoutBars(g, rows, statuses, l),
		Statuses: statuses,
		Paths:    PlanPaths(g, rows, statuses, l),
	}
}
