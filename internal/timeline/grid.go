// Package timeline turns a set of activities into chart geometry: the
// calendar grid along the x axis, row placement, bar shapes and orthogonal
// dependency paths. Everything here is pure and recomputed on demand.
package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Scale is the granularity of grid ticks.
type Scale string

const (
	ScaleDays   Scale = "days"
	ScaleWeeks  Scale = "weeks"
	ScaleMonths Scale = "months"
	ScaleYears  Scale = "years"
)

// GridConfig holds the tunable layout constants. Thresholds are in pixels
// per day and must strictly decrease from days to months.
type GridConfig struct {
	DaysAbove    float64
	WeeksAbove   float64
	MonthsAbove  float64
	MinTickWidth float64
	BufferDays   int
	PadUnits     int
}

// DefaultGridConfig returns the thresholds used for pixel canvases.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		DaysAbove:    20,
		WeeksAbove:   5,
		MonthsAbove:  1,
		MinTickWidth: 40,
		BufferDays:   2,
		PadUnits:     1,
	}
}

// TerminalGridConfig returns thresholds tuned for character cells, where a
// "pixel" is one terminal column. A scale is chosen only when its tick
// labels ("Jan 2", "W01 Jan 1", "Jan 2006") fit between ticks.
func TerminalGridConfig() GridConfig {
	return GridConfig{
		DaysAbove:    6,
		WeeksAbove:   1.5,
		MonthsAbove:  0.3,
		MinTickWidth: 1,
		BufferDays:   1,
		PadUnits:     0,
	}
}

// Validate checks that thresholds partition the density space.
func (c GridConfig) Validate() error {
	if !(c.DaysAbove > c.WeeksAbove && c.WeeksAbove > c.MonthsAbove && c.MonthsAbove >= 0) {
		return fmt.Errorf("grid thresholds must satisfy days_above > weeks_above > months_above >= 0 (got %g, %g, %g)",
			c.DaysAbove, c.WeeksAbove, c.MonthsAbove)
	}
	if c.MinTickWidth <= 0 {
		return fmt.Errorf("grid min_tick_width must be positive (got %g)", c.MinTickWidth)
	}
	if c.BufferDays < 0 || c.PadUnits < 0 {
		return fmt.Errorf("grid buffer_days and pad_units must not be negative")
	}
	return nil
}

// ScaleFor picks the tick granularity for a density in pixels per day.
func (c GridConfig) ScaleFor(pixelsPerDay float64) Scale {
	switch {
	case pixelsPerDay > c.DaysAbove:
		return ScaleDays
	case pixelsPerDay > c.WeeksAbove:
		return ScaleWeeks
	case pixelsPerDay > c.MonthsAbove:
		return ScaleMonths
	default:
		return ScaleYears
	}
}

// Tick is one labelled grid line.
type Tick struct {
	Date  time.Time
	Label string
	X     float64
}

// Grid is the computed time axis.
type Grid struct {
	Scale         Scale
	Ticks         []Tick
	PixelsPerDay  float64
	PixelsPerTick float64
	TotalWidth    float64
}

// IsEmpty reports whether there was nothing to lay out.
func (g Grid) IsEmpty() bool {
	return len(g.Ticks) == 0
}

// Start is the first tick date.
func (g Grid) Start() time.Time {
	if g.IsEmpty() {
		return time.Time{}
	}
	return g.Ticks[0].Date
}

// End is the last tick date.
func (g Grid) End() time.Time {
	if g.IsEmpty() {
		return time.Time{}
	}
	return g.Ticks[len(g.Ticks)-1].Date
}

// ComputeGrid builds the time axis for the activities at the given width.
// It returns an empty grid when there are no activities or no width.
func ComputeGrid(activities []domain.Activity, widthPx float64, cfg GridConfig) Grid {
	if len(activities) == 0 || widthPx <= 0 {
		return Grid{}
	}

	minDate := domain.Day(activities[0].StartDate)
	maxDate := domain.Day(activities[0].EffectiveEnd())
	for _, a := range activities[1:] {
		if s := domain.Day(a.StartDate); s.Before(minDate) {
			minDate = s
		}
		if e := domain.Day(a.EffectiveEnd()); e.After(maxDate) {
			maxDate = e
		}
	}

	bufferedMin := domain.AddDays(minDate, -cfg.BufferDays)
	bufferedMax := domain.AddDays(maxDate, cfg.BufferDays)
	spanDays := float64(domain.DaysBetween(bufferedMin, bufferedMax))
	if spanDays < 1 {
		spanDays = 1
	}
	pixelsPerDay := widthPx / spanDays
	scale := cfg.ScaleFor(pixelsPerDay)

	first := step(floorTo(minDate, scale), scale, -cfg.PadUnits)
	last := step(ceilTo(maxDate, scale), scale, cfg.PadUnits)
	if !last.After(first) {
		last = step(first, scale, 1)
	}

	var ticks []Tick
	for t := first; !t.After(last); t = step(t, scale, 1) {
		ticks = append(ticks, Tick{Date: t, Label: TickLabel(t, scale)})
	}

	ppt := math.Max(widthPx/float64(len(ticks)), cfg.MinTickWidth)
	g := Grid{
		Scale:         scale,
		Ticks:         ticks,
		PixelsPerDay:  pixelsPerDay,
		PixelsPerTick: ppt,
		TotalWidth:    ppt * float64(len(ticks)),
	}
	for i := range g.Ticks {
		g.Ticks[i].X = g.DateToPosition(g.Ticks[i].Date)
	}
	return g
}

// DateToPosition maps a date to an x offset. Dates outside the grid clamp
// to the nearest edge.
func (g Grid) DateToPosition(t time.Time) float64 {
	if g.IsEmpty() {
		return 0
	}
	span := dayOffset(g.Start(), g.End())
	if span <= 0 {
		return 0
	}
	return clamp01(dayOffset(g.Start(), t)/span) * g.TotalWidth
}

// PositionToDate maps an x offset back to the nearest calendar day.
func (g Grid) PositionToDate(x float64) time.Time {
	if g.IsEmpty() || g.TotalWidth <= 0 {
		return time.Time{}
	}
	days := clamp01(x/g.TotalWidth) * dayOffset(g.Start(), g.End())
	return domain.AddDays(g.Start(), int(math.Round(days)))
}

// dayOffset is the signed distance from 'from' to t in days, fractional
// for times of day. Unix seconds keep it exact across centuries.
func dayOffset(from, t time.Time) float64 {
	return float64(t.Unix()-from.Unix()) / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// DayWidth is the number of pixels one calendar day occupies.
func (g Grid) DayWidth() float64 {
	if g.IsEmpty() {
		return 0
	}
	days := dayOffset(g.Start(), g.End())
	if days <= 0 {
		return 0
	}
	return g.TotalWidth / days
}

// TickLabel formats a tick date for its scale.
func TickLabel(t time.Time, scale Scale) string {
	switch scale {
	case ScaleDays:
		return t.Format("Jan 2")
	case ScaleWeeks:
		_, week := t.ISOWeek()
		return fmt.Sprintf("W%02d %s", week, t.Format("Jan 2"))
	case ScaleMonths:
		return t.Format("Jan 2006")
	default:
		return t.Format("2006")
	}
}

// floorTo returns the calendar boundary at or before t: midnight, Monday,
// the first of the month or January 1st.
func floorTo(t time.Time, scale Scale) time.Time {
	t = domain.Day(t)
	switch scale {
	case ScaleWeeks:
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset)
	case ScaleMonths:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case ScaleYears:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

func ceilTo(t time.Time, scale Scale) time.Time {
	f := floorTo(t, scale)
	if f.Equal(domain.Day(t)) {
		return f
	}
	return step(f, scale, 1)
}

// step moves a boundary by n units of the scale.
func step(t time.Time, scale Scale, n int) time.Time {
	switch scale {
	case ScaleWeeks:
		return t.AddDate(0, 0, 7*n)
	case ScaleMonths:
		return t.AddDate(0, n, 0)
	case ScaleYears:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
