package timeline

import (
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

// Layout holds the vertical geometry of chart rows.
type Layout struct {
	RowHeight     float64
	BarHeight     float64
	MilestoneSize float64
	// Stub is how far a dependency path leaves and enters a bar horizontally
	// before turning.
	Stub float64
}

// DefaultLayout matches a 48px row with a centred 24px bar.
func DefaultLayout() Layout {
	return Layout{
		RowHeight:     48,
		BarHeight:     24,
		MilestoneSize: 16,
		Stub:          12,
	}
}

// RowCenter is the y coordinate of the middle of row i.
func (l Layout) RowCenter(i int) float64 {
	return float64(i)*l.RowHeight + l.RowHeight/2
}

// Height is the canvas height needed for n rows.
func (l Layout) Height(n int) float64 {
	return float64(n) * l.RowHeight
}

// Bar is the placed shape of one activity.
type Bar struct {
	ActivityID string
	Name       string
	Owner      string
	Status     domain.ActivityStatus
	Row        int
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Milestone  bool
	Conflict   bool
}

// CenterX is the horizontal midpoint; for milestones, the diamond centre.
func (b Bar) CenterX() float64 {
	return b.X + b.Width/2
}

// CenterY is the vertical midpoint.
func (b Bar) CenterY() float64 {
	return b.Y + b.Height/2
}

// RowOrder sorts activities into their chart rows.
func RowOrder(activities []domain.Activity) []domain.Activity {
	return scheduler.Sorted(activities)
}

// LayoutBars places one bar or milestone per row. Activities at either end
// of a violated dependency are flagged for highlighting.
func LayoutBars(g Grid, rows []domain.Activity, statuses []scheduler.DependencyStatus, l Layout) []Bar {
	if g.IsEmpty() {
		return nil
	}
	conflicted := scheduler.ConflictedActivities(statuses)
	bars := make([]Bar, 0, len(rows))
	for i, a := range rows {
		b := Bar{
			ActivityID: a.ID,
			Name:       a.Name,
			Owner:      a.Owner,
			Status:     a.Status,
			Row:        i,
			Conflict:   conflicted[a.ID],
		}
		x := g.DateToPosition(a.StartDate)
		if a.IsSingleDay() {
			b.Milestone = true
			b.Width = l.MilestoneSize
			b.Height = l.MilestoneSize
			b.X = x - l.MilestoneSize/2
			b.Y = l.RowCenter(i) - l.MilestoneSize/2
		} else {
			b.X = x
			b.Width = g.DateToPosition(a.EffectiveEnd()) - x
			b.Height = l.BarHeight
			b.Y = l.RowCenter(i) - l.BarHeight/2
		}
		bars = append(bars, b)
	}
	return bars
}
