package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

// FormatConflicts lists violated dependencies as "source → target".
func FormatConflicts(conflicts []scheduler.DependencyStatus, acts []domain.Activity) string {
	if len(conflicts) == 0 {
		return StyleGreen.Render("✔ No conflicts.")
	}
	names := activityNames(acts)
	byID := make(map[string]domain.Activity, len(acts))
	for _, a := range acts {
		byID[a.ID] = a
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%d conflicts", len(conflicts))) + "\n")
	for _, c := range conflicts {
		d := c.Dependency
		fmt.Fprintf(&b, "%s %s %s %s  %s\n",
			StyleRed.Render("⚠"),
			Bold(names.get(d.SourceID)),
			StylePurple.Render("─"+string(d.Type)+"→"),
			Bold(names.get(d.TargetID)),
			Dim(conflictDetail(byID[d.SourceID], byID[d.TargetID], d.Type)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// conflictDetail names the two dates the dependency type compares.
func conflictDetail(from, to domain.Activity, t domain.DependencyType) string {
	var left, right string
	switch t {
	case domain.FinishToStart:
		left, right = "ends "+domain.FormatDay(from.EffectiveEnd()), "starts "+domain.FormatDay(to.StartDate)
	case domain.FinishToFinish:
		left, right = "ends "+domain.FormatDay(from.EffectiveEnd()), "ends "+domain.FormatDay(to.EffectiveEnd())
	case domain.StartToStart:
		left, right = "starts "+domain.FormatDay(from.StartDate), "starts "+domain.FormatDay(to.StartDate)
	case domain.StartToFinish:
		left, right = "starts "+domain.FormatDay(from.StartDate), "ends "+domain.FormatDay(to.EffectiveEnd())
	default:
		return t.Long()
	}
	return fmt.Sprintf("%s, %s", left, right)
}

// FormatFixResult summarises a date resolution.
func FormatFixResult(res *scheduler.Resolution, acts []domain.Activity, dryRun bool) string {
	if !res.Changed() {
		return StyleGreen.Render("✔ Schedule already satisfies every dependency.")
	}
	names := activityNames(acts)
	rows := make([][]string, 0, len(res.Changes))
	for _, c := range res.Changes {
		rows = append(rows, []string{
			Bold(names.get(c.ActivityID)),
			Dim(DateRange(c.OldStart, c.OldEnd)),
			DateRange(c.NewStart, c.NewEnd),
			StyleYellow.Render(Days(c.ShiftDays())),
		})
	}

	title := fmt.Sprintf("Moved %d activities", len(res.Changes))
	if dryRun {
		title = fmt.Sprintf("Would move %d activities (dry run)", len(res.Changes))
	}
	return Header(title) + "\n" + RenderTable([]string{"ACTIVITY", "FROM", "TO", "SHIFT"}, rows)
}

// FormatDateChange renders one committed drag or shift.
func FormatDateChange(name string, c *scheduler.DateChange) string {
	if c == nil {
		return Dim(fmt.Sprintf("%s unchanged.", name))
	}
	return fmt.Sprintf("%s %s: %s %s %s",
		StyleGreen.Render("✔"),
		Bold(name),
		Dim(DateRange(c.OldStart, c.OldEnd)),
		Dim("→"),
		DateRange(c.NewStart, c.NewEnd))
}
