package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantry/internal/domain"
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Padding(1, 2)

// RenderBox frames content, with an upper-case title when one is given.
func RenderBox(title, content string) string {
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom describes t relative to now in whole calendar days:
// "Today", "In 3d", "2w ago", "In 4mo".
func RelativeDateFrom(t, now time.Time) string {
	days := domain.DaysBetween(domain.Day(now), domain.Day(t))
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	}

	n := days
	if n < 0 {
		n = -n
	}
	var span string
	switch {
	case n < 14:
		span = fmt.Sprintf("%dd", n)
	case n < 60:
		span = fmt.Sprintf("%dw", n/7)
	default:
		span = fmt.Sprintf("%dmo", n/30)
	}
	if days > 0 {
		return "In " + span
	}
	return span + " ago"
}

// DateRange is "2024-01-01 → 2024-01-10", or "◆ 2024-01-10" for a
// single-day activity.
func DateRange(start time.Time, end *time.Time) string {
	if end == nil || domain.Day(*end).Equal(domain.Day(start)) {
		return "◆ " + domain.FormatDay(start)
	}
	return domain.FormatDay(start) + " → " + domain.FormatDay(*end)
}

// Days is a signed day count: "+3d", "-1d", "0d".
func Days(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%dd", n)
	}
	return fmt.Sprintf("%dd", n)
}

func TruncID(id string) string {
	return StyleDim.Render(id[:min(8, len(id))])
}

// Truncate shortens s to max runes, the last being an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
