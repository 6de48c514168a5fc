package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/alexanderramin/gantry/internal/timeline"
)

type sample struct {
	acts   []domain.Activity
	deps   []domain.Dependency
	design domain.Activity
	build  domain.Activity
	launch domain.Activity
}

func newSample() sample {
	design := *testutil.NewTestActivity("p", "Design", testutil.WithDates("2024-01-01", "2024-01-10"))
	build := *testutil.NewTestActivity("p", "Build", testutil.WithDates("2024-01-05", "2024-01-15"),
		testutil.WithStatus(domain.ActivityInProgress), testutil.WithOwner("ana"))
	launch := *testutil.NewTestActivity("p", "Launch", testutil.WithMilestone("2024-01-20"))
	dep := *testutil.NewTestDependency("p", design.ID, build.ID, domain.FinishToStart)
	return sample{
		acts:   []domain.Activity{design, build, launch},
		deps:   []domain.Dependency{dep},
		design: design,
		build:  build,
		launch: launch,
	}
}

func (s sample) chart(width float64) timeline.Chart {
	return timeline.BuildChart(s.acts, s.deps, width, timeline.TerminalGridConfig(), timeline.DefaultLayout())
}

func TestFormatChart(t *testing.T) {
	s := newSample()
	out := FormatChart(s.chart(60), ChartOptions{})

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, lines[1], "┬")
	assert.Contains(t, lines[2], "Design")
	assert.Contains(t, lines[2], "█")
	assert.Contains(t, lines[2], "⚠", "both ends of a violated dependency are flagged")
	assert.Contains(t, lines[3], "Build")
	assert.Contains(t, lines[3], "⚠")
	assert.Contains(t, lines[4], "Launch")
	assert.Contains(t, lines[4], "◆")
	assert.NotContains(t, lines[4], "⚠")
	assert.Contains(t, out, "3 activities · 1 dependencies")
	assert.Contains(t, out, "1 conflicts")
}

func TestFormatChart_SelectionAndMarker(t *testing.T) {
	s := newSample()
	marker := testutil.Day("2024-01-12")
	out := FormatChart(s.chart(60), ChartOptions{Selected: s.build.ID, Marker: &marker})

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Build") {
			assert.True(t, strings.HasPrefix(line, "▸ "), "selected row carries the cursor: %q", line)
		}
		if strings.Contains(line, "Design") {
			assert.True(t, strings.HasPrefix(line, "  "))
		}
	}
	assert.Contains(t, out, "┆")
}

func TestFormatChart_Empty(t *testing.T) {
	assert.Equal(t, "No activities.", FormatChart(timeline.Chart{}, ChartOptions{}))
}

func TestTickHeader_SkipsOverlappingLabels(t *testing.T) {
	g := timeline.Grid{Ticks: []timeline.Tick{
		{Label: "Jan", X: 0},
		{Label: "Feb", X: 2},
		{Label: "Mar", X: 10},
		{Label: "Apr", X: 19},
	}}
	assert.Equal(t, "Jan       Mar", tickHeader(g, 20))
}

func TestChartColumns(t *testing.T) {
	assert.Equal(t, 75, ChartColumns(100, 20))
	assert.Equal(t, 10, ChartColumns(20, 20), "never narrower than ten columns")
	assert.Equal(t, ChartColumns(100, DefaultLabelWidth), ChartColumns(100, 0))
}

func TestFormatActivityTable(t *testing.T) {
	s := newSample()
	out := FormatActivityTable(s.acts, map[string]bool{s.design.ID: true})

	assert.Contains(t, out, "ACTIVITY")
	assert.Contains(t, out, "Design ⚠")
	assert.Contains(t, out, "2024-01-05 → 2024-01-15")
	assert.Contains(t, out, "◆ 2024-01-20")
	assert.Contains(t, out, "● In Progress")
	assert.Contains(t, out, "ana")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[2], "1"))
	assert.True(t, strings.HasPrefix(lines[4], "3"))
}

func TestFormatDependencyTable(t *testing.T) {
	s := newSample()
	orphan := *testutil.NewTestDependency("p", s.launch.ID, "gone", domain.StartToStart)
	statuses := scheduler.EvaluateDependencies(s.acts, append(s.deps, orphan))

	out := FormatDependencyTable(statuses, s.acts)
	assert.Contains(t, out, "conflict")
	assert.Contains(t, out, "inert")
	assert.Contains(t, out, "gone")
	assert.Contains(t, out, "SS")
}

func TestFormatProjectDetail(t *testing.T) {
	s := newSample()
	s.acts[2].Status = domain.ActivityCompleted
	p := testutil.NewTestProject("Web", testutil.WithShortID("WEB01"), testutil.WithDescription("Relaunch"))

	out := FormatProjectDetail(ProjectDetail{
		Project:    p,
		Activities: s.acts,
		Statuses:   scheduler.EvaluateDependencies(s.acts, s.deps),
		Now:        testutil.Day("2024-01-10"),
	})
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "Relaunch")
	assert.Contains(t, out, "2024-01-01 → 2024-01-20")
	assert.Contains(t, out, "In 10d")
	assert.Contains(t, out, "33%")
	assert.Contains(t, out, "1 conflicting dependencies")

	empty := FormatProjectDetail(ProjectDetail{Project: p, Now: time.Now()})
	assert.Contains(t, empty, "No activities yet.")
}

func TestFormatProjectList(t *testing.T) {
	p := testutil.NewTestProject("Web", testutil.WithShortID("WEB01"))
	out := FormatProjectList([]*domain.Project{p})
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, p.ID[:8])
}

func TestFormatConflicts(t *testing.T) {
	s := newSample()
	conflicts := scheduler.Conflicting(scheduler.EvaluateDependencies(s.acts, s.deps))

	out := FormatConflicts(conflicts, s.acts)
	assert.Contains(t, out, "1 CONFLICTS")
	assert.Contains(t, out, "Design ─FS→ Build")
	assert.Contains(t, out, "ends 2024-01-10, starts 2024-01-05")

	assert.Contains(t, FormatConflicts(nil, s.acts), "No conflicts.")
}

func TestFormatFixResult(t *testing.T) {
	s := newSample()
	res, err := scheduler.Resolve(s.acts, s.deps)
	require.NoError(t, err)

	dry := FormatFixResult(res, s.acts, true)
	assert.Contains(t, dry, "WOULD MOVE 1 ACTIVITIES (DRY RUN)")
	assert.Contains(t, dry, "Build")
	assert.Contains(t, dry, "2024-01-11 → 2024-01-21")
	assert.Contains(t, dry, "+6d")

	assert.Contains(t, FormatFixResult(res, s.acts, false), "MOVED 1 ACTIVITIES")
	assert.Contains(t, FormatFixResult(&scheduler.Resolution{}, s.acts, false), "already satisfies")
}

func TestFormatDateChange(t *testing.T) {
	assert.Equal(t, "Design unchanged.", FormatDateChange("Design", nil))
	out := FormatDateChange("Design", &scheduler.DateChange{
		OldStart: testutil.Day("2024-01-01"),
		NewStart: testutil.Day("2024-01-03"),
	})
	assert.Contains(t, out, "◆ 2024-01-01 → ◆ 2024-01-03")
}

func TestHelpers(t *testing.T) {
	end := testutil.Day("2024-01-10")
	assert.Equal(t, "2024-01-01 → 2024-01-10", DateRange(testutil.Day("2024-01-01"), &end))
	assert.Equal(t, "◆ 2024-01-10", DateRange(end, &end))
	assert.Equal(t, "+3d", Days(3))
	assert.Equal(t, "-1d", Days(-1))
	assert.Equal(t, "0d", Days(0))
	assert.Equal(t, "Desi…", Truncate("Design", 5))
	assert.Equal(t, "Design", Truncate("Design", 6))
	assert.Equal(t, "…", Truncate("Design", 1))
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestRenderProgress(t *testing.T) {
	full := RenderProgress(1.5, 10)
	assert.Contains(t, full, "██████████")
	assert.Contains(t, full, "] 100%")
	assert.Contains(t, RenderProgress(-1, 4), "░░░░")
	assert.Contains(t, RenderProgress(0.5, 10), " 50%")
}
