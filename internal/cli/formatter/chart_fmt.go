package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantry/internal/timeline"
)

// DefaultLabelWidth is the width of the activity name column.
const DefaultLabelWidth = 20

// ChartOptions controls terminal chart rendering.
type ChartOptions struct {
	LabelWidth int
	// Selected highlights the row of this activity id.
	Selected string
	// Marker draws a pointer column at this date, e.g. during a drag.
	Marker *time.Time
}

// ChartColumns is the number of terminal columns left for the time axis
// once the label column and row prefix are taken out of termWidth.
func ChartColumns(termWidth, labelWidth int) int {
	if labelWidth <= 0 {
		labelWidth = DefaultLabelWidth
	}
	return max(termWidth-labelWidth-rowPrefixWidth-2, 10)
}

const rowPrefixWidth = 3

type cellKind int

const (
	cellEmpty cellKind = iota
	cellGrid
	cellBar
	cellMarker
)

type cell struct {
	r    rune
	kind cellKind
}

// FormatChart draws c as rows of block characters on a character grid. The
// chart is expected to have been built with one pixel per terminal column,
// typically from timeline.TerminalGridConfig.
func FormatChart(c timeline.Chart, opts ChartOptions) string {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = DefaultLabelWidth
	}
	if len(c.Rows) == 0 || c.Grid.IsEmpty() {
		return Dim("No activities.")
	}

	cols := int(math.Ceil(c.Grid.TotalWidth)) + 1
	indent := strings.Repeat(" ", opts.LabelWidth+rowPrefixWidth)

	var b strings.Builder
	b.WriteString(indent + StyleDim.Render(tickHeader(c.Grid, cols)) + "\n")
	b.WriteString(indent + StyleDim.Render(tickRuler(c.Grid, cols)) + "\n")

	markerCol := -1
	if opts.Marker != nil {
		markerCol = column(c.Grid.DateToPosition(*opts.Marker), cols)
	}

	for _, bar := range c.Bars {
		prefix, label := "  ", padRight(Truncate(bar.Name, opts.LabelWidth), opts.LabelWidth)
		if bar.ActivityID == opts.Selected {
			prefix = StyleHeader.Render("▸ ")
			label = StyleSelected.Render(label)
		}
		b.WriteString(prefix + label + " ")

		style := StatusStyle(bar.Status)
		if bar.Conflict {
			style = StyleRed
		}
		b.WriteString(renderCells(rowCells(c.Grid, bar, cols, markerCol), style))
		if bar.Conflict {
			b.WriteString(" " + StyleRed.Render("⚠"))
		}
		b.WriteString("\n")
	}

	conflicts := len(c.Conflicts())
	summary := fmt.Sprintf("%d activities · %d dependencies · scale %s", len(c.Rows), len(c.Statuses), c.Grid.Scale)
	b.WriteString("\n" + Dim(summary))
	if conflicts > 0 {
		b.WriteString(Dim(" · ") + StyleRed.Render(fmt.Sprintf("%d conflicts", conflicts)))
	}
	return b.String()
}

func rowCells(g timeline.Grid, bar timeline.Bar, cols, markerCol int) []cell {
	cells := make([]cell, cols)
	for i := range cells {
		cells[i] = cell{r: ' '}
	}
	for _, t := range g.Ticks {
		if x := column(t.X, cols); x >= 0 {
			cells[x] = cell{r: '·', kind: cellGrid}
		}
	}
	if markerCol >= 0 {
		cells[markerCol] = cell{r: '┆', kind: cellMarker}
	}

	if bar.Milestone {
		if x := column(bar.CenterX(), cols); x >= 0 {
			cells[x] = cell{r: '◆', kind: cellBar}
		}
		return cells
	}
	start := column(bar.X, cols)
	end := column(bar.X+bar.Width, cols)
	if end <= start {
		end = start + 1
	}
	for x := start; x < end && x < cols; x++ {
		cells[x] = cell{r: '█', kind: cellBar}
	}
	return cells
}

// renderCells styles runs of equal kind together to keep escape sequences short.
func renderCells(cells []cell, barStyle lipgloss.Style) string {
	var b strings.Builder
	var run []rune
	kind := cellEmpty
	flush := func() {
		if len(run) == 0 {
			return
		}
		switch kind {
		case cellBar:
			b.WriteString(barStyle.Render(string(run)))
		case cellGrid:
			b.WriteString(StyleDim.Render(string(run)))
		case cellMarker:
			b.WriteString(StylePurple.Render(string(run)))
		default:
			b.WriteString(string(run))
		}
		run = run[:0]
	}
	for _, c := range cells {
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		run = append(run, c.r)
	}
	flush()
	return strings.TrimRight(b.String(), " ")
}

// tickHeader places tick labels at their columns, skipping labels that would
// overlap the previous one.
func tickHeader(g timeline.Grid, cols int) string {
	line := []rune(strings.Repeat(" ", cols))
	next := 0
	for _, t := range g.Ticks {
		x := column(t.X, cols)
		if x < next {
			continue
		}
		label := []rune(t.Label)
		if x+len(label) > cols {
			break
		}
		copy(line[x:], label)
		next = x + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func tickRuler(g timeline.Grid, cols int) string {
	line := []rune(strings.Repeat("─", cols))
	for _, t := range g.Ticks {
		if x := column(t.X, cols); x >= 0 {
			line[x] = '┬'
		}
	}
	return string(line)
}

func column(x float64, cols int) int {
	c := int(math.Round(x))
	if c < 0 || c >= cols {
		return -1
	}
	return c
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
