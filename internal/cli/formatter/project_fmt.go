package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

// FormatProjectList renders projects as a table.
func FormatProjectList(projects []*domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			StyleHeader.Render(p.DisplayID()),
			Bold(p.Name),
			Dim(Truncate(p.Description, 40)),
			TruncID(p.ID),
		})
	}
	return RenderTable([]string{"ID", "NAME", "DESCRIPTION", "UUID"}, rows)
}

// ProjectDetail is the data shown by "project show".
type ProjectDetail struct {
	Project    *domain.Project
	Activities []domain.Activity
	Statuses   []scheduler.DependencyStatus
	Now        time.Time
}

// FormatProjectDetail renders a project summary box followed by its
// activity table.
func FormatProjectDetail(d ProjectDetail) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("%s  %s", StyleHeader.Render(d.Project.DisplayID()), Bold(d.Project.Name)))
	if d.Project.Description != "" {
		lines = append(lines, Dim(d.Project.Description))
	}
	lines = append(lines, "")

	if len(d.Activities) == 0 {
		lines = append(lines, Dim("No activities yet."))
		return RenderBox("Project", strings.Join(lines, "\n"))
	}

	start, end := span(d.Activities)
	completed := 0
	for _, a := range d.Activities {
		if a.Status == domain.ActivityCompleted {
			completed++
		}
	}
	conflicts := len(scheduler.Conflicting(d.Statuses))

	lines = append(lines,
		fmt.Sprintf("%s %s → %s  %s",
			Dim("Span:"), domain.FormatDay(start), domain.FormatDay(end),
			Dim("("+RelativeDateFrom(end, d.Now)+")")),
		fmt.Sprintf("%s %d activities, %d dependencies", Dim("Size:"), len(d.Activities), len(d.Statuses)),
		fmt.Sprintf("%s %s", Dim("Done:"), RenderProgress(float64(completed)/float64(len(d.Activities)), 20)),
	)
	if conflicts > 0 {
		lines = append(lines, StyleRed.Render(fmt.Sprintf("⚠ %d conflicting dependencies", conflicts)))
	} else {
		lines = append(lines, StyleGreen.Render("✔ no conflicts"))
	}

	conflicted := scheduler.ConflictedActivities(d.Statuses)
	return RenderBox("Project", strings.Join(lines, "\n")) + "\n\n" + FormatActivityTable(d.Activities, conflicted)
}

// FormatActivityTable renders activities in the given order with 1-based
// row numbers, which the CLI accepts as activity references.
func FormatActivityTable(acts []domain.Activity, conflicted map[string]bool) string {
	rows := make([][]string, 0, len(acts))
	for i, a := range acts {
		name := a.Name
		if conflicted[a.ID] {
			name = StyleRed.Render(name + " ⚠")
		}
		owner := a.Owner
		if owner == "" {
			owner = Dim("--")
		}
		rows = append(rows, []string{
			Dim(strconv.Itoa(i + 1)),
			name,
			owner,
			StatusPill(a.Status),
			DateRange(a.StartDate, a.EndDate),
			strconv.Itoa(a.DurationDays() + 1),
			TruncID(a.ID),
		})
	}
	return RenderTable([]string{"#", "ACTIVITY", "OWNER", "STATUS", "DATES", "DAYS", "ID"}, rows)
}

// FormatDependencyTable renders dependencies with their derived state.
func FormatDependencyTable(statuses []scheduler.DependencyStatus, acts []domain.Activity) string {
	names := activityNames(acts)
	rows := make([][]string, 0, len(statuses))
	for i, s := range statuses {
		state := StyleGreen.Render("ok")
		switch {
		case s.Inert:
			state = Dim("inert")
		case s.Conflict:
			state = StyleRed.Render("conflict")
		}
		rows = append(rows, []string{
			Dim(strconv.Itoa(i + 1)),
			names.get(s.Dependency.SourceID),
			StylePurple.Render(string(s.Dependency.Type)),
			names.get(s.Dependency.TargetID),
			state,
			TruncID(s.Dependency.ID),
		})
	}
	return RenderTable([]string{"#", "FROM", "TYPE", "TO", "STATE", "ID"}, rows)
}

func span(acts []domain.Activity) (time.Time, time.Time) {
	start, end := acts[0].StartDate, acts[0].EffectiveEnd()
	for _, a := range acts[1:] {
		if a.StartDate.Before(start) {
			start = a.StartDate
		}
		if e := a.EffectiveEnd(); e.After(end) {
			end = e
		}
	}
	return start, end
}

type nameIndex map[string]string

func activityNames(acts []domain.Activity) nameIndex {
	idx := make(nameIndex, len(acts))
	for _, a := range acts {
		idx[a.ID] = a.Name
	}
	return idx
}

// get falls back to the short id for activities outside the set.
func (n nameIndex) get(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return TruncID(id)
}
