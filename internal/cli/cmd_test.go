package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/alexanderramin/gantry/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	projRepo := repository.NewSQLiteProjectRepo(database)
	actRepo := repository.NewSQLiteActivityRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	uow := testutil.NewTestUoW(database)

	return &App{
		Projects:     service.NewProjectService(projRepo),
		Activities:   service.NewActivityService(actRepo),
		Dependencies: service.NewDependencyService(depRepo, uow),
		Schedule: service.NewScheduleService(actRepo, depRepo, uow, service.ScheduleConfig{
			IdleTimeout: time.Minute,
		}),
		Plans:  service.NewPlanService(projRepo, actRepo, depRepo, uow),
		Config: config.Default(),
	}
}

type seeded struct {
	project               *domain.Project
	design, build, launch *domain.Activity
	dep                   *domain.Dependency
}

// seedWebsite stores WEB01 with Design (Jan 1-10), Build (Jan 5-15) and a
// Launch milestone on Jan 20. Build depends finish-to-start on Design, which
// the seeded dates violate.
func seedWebsite(t *testing.T, app *App) seeded {
	t.Helper()
	ctx := context.Background()

	p := testutil.NewTestProject("Website", testutil.WithShortID("WEB01"))
	require.NoError(t, app.Projects.Create(ctx, p))

	s := seeded{project: p}
	s.design = testutil.NewTestActivity(p.ID, "Design", testutil.WithDates("2024-01-01", "2024-01-10"))
	s.build = testutil.NewTestActivity(p.ID, "Build", testutil.WithDates("2024-01-05", "2024-01-15"))
	s.launch = testutil.NewTestActivity(p.ID, "Launch", testutil.WithMilestone("2024-01-20"))
	for _, a := range []*domain.Activity{s.design, s.build, s.launch} {
		require.NoError(t, app.Activities.Create(ctx, a))
	}
	s.dep = testutil.NewTestDependency(p.ID, s.design.ID, s.build.ID, domain.FinishToStart)
	require.NoError(t, app.Dependencies.Create(ctx, s.dep))
	return s
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func getActivity(t *testing.T, app *App, id string) *domain.Activity {
	t.Helper()
	a, err := app.Activities.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

// --- Root ---

func TestRootCmd_NonInteractivePrintsHelp(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "fix")
}

func TestParseGlobalFlags(t *testing.T) {
	o := ParseGlobalFlags([]string{"chart", "WEB01", "--db", "/tmp/x.db", "-v", "--width", "80", "--log-format=json"})
	assert.Equal(t, "/tmp/x.db", o.DBPath)
	assert.True(t, o.Verbose)
	assert.Equal(t, "json", o.LogFormat)

	cfg := config.Default()
	o.Apply(cfg)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "chatty"
	_, err := NewLogger(&bytes.Buffer{}, cfg)
	require.Error(t, err)
}

// --- Project ---

func TestProjectCmd_Lifecycle(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")

	out, err = executeCmd(t, app, "project", "add", "--id", "app02", "--name", "Mobile app")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Mobile app [APP02]")

	out, err = executeCmd(t, app, "project", "rename", "APP02", "Phone app")
	require.NoError(t, err)
	assert.Contains(t, out, "Mobile app → Phone app")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "APP02")
	assert.Contains(t, out, "Phone app")

	out, err = executeCmd(t, app, "project", "remove", "APP02")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed project APP02")
}

func TestProjectCmd_RemoveNeedsForceWithActivities(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	_, err := executeCmd(t, app, "project", "remove", "WEB01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = executeCmd(t, app, "project", "remove", "WEB01", "--force")
	require.NoError(t, err)
	projects, err := app.Projects.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectCmd_Show(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	out, err := executeCmd(t, app, "project", "show")
	require.NoError(t, err, "the only project is used when none is named")
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "2024-01-01 → 2024-01-20")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "◆ 2024-01-20")
}

func TestResolveProject_AmbiguousWithoutArgument(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)
	_, err := executeCmd(t, app, "project", "add", "--id", "APP02", "--name", "Second")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "conflicts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project is required")
}

// --- Activity ---

func TestActivityCmd_AddAndList(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	out, err := executeCmd(t, app, "activity", "add", "WEB01",
		"--name", "QA", "--start", "2024-01-16", "--end", "2024-01-18", "--owner", "li")
	require.NoError(t, err)
	assert.Contains(t, out, "Added QA to WEB01 (2024-01-16 → 2024-01-18)")

	out, err = executeCmd(t, app, "act", "list", s.project.ShortID)
	require.NoError(t, err)
	assert.Contains(t, out, "QA")
	assert.Contains(t, out, "li")
	assert.Contains(t, out, "Design ⚠", "conflicting activities are flagged")
	assert.NotContains(t, out, "Launch ⚠")
}

func TestActivityCmd_AddMilestoneAndBadDate(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	out, err := executeCmd(t, app, "activity", "add", "WEB01", "--name", "Review", "--start", "2024-01-12")
	require.NoError(t, err)
	assert.Contains(t, out, "◆ 2024-01-12")

	_, err = executeCmd(t, app, "activity", "add", "WEB01", "--name", "Bad", "--start", "12/01/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")

	_, err = executeCmd(t, app, "activity", "add", "WEB01", "--name", "Backwards",
		"--start", "2024-01-12", "--end", "2024-01-02")
	require.Error(t, err, "end before start is rejected")
}

func TestActivityCmd_Set(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	_, err := executeCmd(t, app, "activity", "set", "WEB01", "Build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")

	_, err = executeCmd(t, app, "activity", "set", "WEB01", "Build", "--milestone", "--end", "2024-01-20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	out, err := executeCmd(t, app, "activity", "set", "WEB01", "Build", "--status", "in-progress", "--owner", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Build")
	a := getActivity(t, app, s.build.ID)
	assert.Equal(t, domain.ActivityInProgress, a.Status)
	assert.Equal(t, "ana", a.Owner)

	_, err = executeCmd(t, app, "activity", "set", "WEB01", "Build", "--milestone")
	require.NoError(t, err)
	assert.Nil(t, getActivity(t, app, s.build.ID).EndDate)
}

func TestActivityCmd_RenameAndRemove(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	out, err := executeCmd(t, app, "activity", "rename", "WEB01", "Launch", "Go live")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch → Go live")
	assert.Equal(t, "Go live", getActivity(t, app, s.launch.ID).Name)

	out, err = executeCmd(t, app, "activity", "remove", "WEB01", "Design")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed Design")

	deps, err := app.Dependencies.ListByProject(context.Background(), s.project.ID)
	require.NoError(t, err)
	assert.Empty(t, deps, "dependencies of a removed activity go with it")
}

func TestActivityCmd_Shift(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	out, err := executeCmd(t, app, "activity", "shift", "WEB01", "Build", "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-05 → 2024-01-15")
	assert.Contains(t, out, "2024-01-07 → 2024-01-17")
	assert.Contains(t, out, "gantry fix WEB01", "the move leaves Build starting before Design ends")

	a := getActivity(t, app, s.build.ID)
	assert.Equal(t, testutil.Day("2024-01-07"), a.StartDate)
	assert.Equal(t, testutil.Day("2024-01-17"), *a.EndDate)
}

func TestActivityCmd_ShiftRejectsInvertedDates(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	_, err := executeCmd(t, app, "activity", "shift", "WEB01", "Design", "--days", "20", "--mode", "start")
	require.Error(t, err)
	assert.Equal(t, testutil.Day("2024-01-01"), getActivity(t, app, s.design.ID).StartDate)

	_, err = executeCmd(t, app, "activity", "shift", "WEB01", "Design", "--days", "1", "--mode", "sideways")
	require.Error(t, err)
}

func TestActivityCmd_ShiftByRowNumber(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	out, err := executeCmd(t, app, "activity", "shift", "WEB01", "3", "--days", "2")
	require.NoError(t, err, "row 3 is the Launch milestone")
	assert.Contains(t, out, "◆ 2024-01-22")
	assert.Equal(t, testutil.Day("2024-01-22"), getActivity(t, app, s.launch.ID).StartDate)

	_, err = executeCmd(t, app, "activity", "shift", "WEB01", "3", "--days", "-1", "--mode", "end")
	require.Error(t, err, "a milestone's end cannot move before its start")
}

// --- Dependencies ---

func TestDepCmd_AddListRetypeRemove(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	out, err := executeCmd(t, app, "dep", "add", "WEB01", "Launch", "Build", "--type", "ss")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Launch ─SS→ Build")
	assert.Contains(t, out, "violate", "Build starts before Launch")

	out, err = executeCmd(t, app, "dep", "list", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "FS")
	assert.Contains(t, out, "SS")
	assert.Contains(t, out, "conflict")

	out, err = executeCmd(t, app, "dep", "retype", "WEB01", "1", "FF")
	require.NoError(t, err)
	assert.Contains(t, out, "FS → FF")

	out, err = executeCmd(t, app, "dep", "remove", "WEB01", s.dep.ID[:6])
	require.NoError(t, err)
	assert.Contains(t, out, "Removed dependency")

	deps, err := app.Dependencies.ListByProject(context.Background(), s.project.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, domain.StartToStart, deps[0].Type)
}

func TestDepCmd_Errors(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	_, err := executeCmd(t, app, "dep", "add", "WEB01", "Build", "Launch", "--type", "XX")
	require.Error(t, err)

	_, err = executeCmd(t, app, "dep", "add", "WEB01", "Build", "Build")
	require.Error(t, err, "self dependency")

	_, err = executeCmd(t, app, "dep", "remove", "WEB01", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

// --- Schedule ---

func TestConflictsCmd(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	out, err := executeCmd(t, app, "conflicts", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "1 conflicts")
	assert.Contains(t, out, "Design ─FS→ Build")
	assert.Contains(t, out, "ends 2024-01-10, starts 2024-01-05")
}

func TestFixCmd_DryRunThenApply(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)

	out, err := executeCmd(t, app, "fix", "WEB01", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would move 1 activities (dry run)")
	assert.Contains(t, out, "2024-01-11 → 2024-01-21")
	assert.Contains(t, out, "+6d")
	assert.Equal(t, testutil.Day("2024-01-05"), getActivity(t, app, s.build.ID).StartDate)

	out, err = executeCmd(t, app, "fix", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved 1 activities")
	a := getActivity(t, app, s.build.ID)
	assert.Equal(t, testutil.Day("2024-01-11"), a.StartDate)
	assert.Equal(t, testutil.Day("2024-01-21"), *a.EndDate, "duration is kept")

	out, err = executeCmd(t, app, "conflicts", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "No conflicts.")

	out, err = executeCmd(t, app, "fix", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "already satisfies")
}

func TestFixCmd_CycleNamesActivities(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	_, err := executeCmd(t, app, "dep", "add", "WEB01", "Build", "Design")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "fix", "WEB01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
	assert.Contains(t, err.Error(), "Design")
	assert.Contains(t, err.Error(), "Build")
	assert.Equal(t, testutil.Day("2024-01-05"), getActivity(t, app, s.build.ID).StartDate, "nothing is written")
}

func TestChartCmd_Terminal(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	out, err := executeCmd(t, app, "chart", "--width", "90")
	require.NoError(t, err)
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "◆")
	assert.Contains(t, out, "3 activities · 1 dependencies")
	assert.Contains(t, out, "1 conflicts")
}

func TestChartCmd_SVG(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	out, err := executeCmd(t, app, "chart", "WEB01", "--svg", "-", "--width", "800")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Design")

	path := filepath.Join(t.TempDir(), "chart.svg")
	out, err = executeCmd(t, app, "chart", "WEB01", "--svg", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote chart to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
}

func TestChartCmd_StyleFileErrors(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bar_fill: [unclosed"), 0o644))
	_, err := executeCmd(t, app, "chart", "--svg", "-", "--style", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "style")
}

func TestGraphCmd(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	out, err := executeCmd(t, app, "graph", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, "Design")

	_, err = executeCmd(t, app, "graph", "WEB01", "--format", "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-o FILE")

	_, err = executeCmd(t, app, "graph", "WEB01", "--format", "gif")
	require.Error(t, err)
}

// --- Plans ---

const cliPlan = `{
  "project": {"short_id": "SITE02", "name": "Site"},
  "activities": [
    {"name": "Copy", "start_date": "2024-02-01", "end_date": "2024-02-05"},
    {"name": "Layout", "start_date": "2024-02-03", "end_date": "2024-02-08"}
  ],
  "dependencies": [{"source": "Copy", "target": "Layout", "type": "FS"}]
}`

func TestImportExportCmd(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(in, []byte(cliPlan), 0o644))

	out, err := executeCmd(t, app, "import", in)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported Site [SITE02]: 2 activities, 1 dependencies")

	_, err = executeCmd(t, app, "import", in)
	require.Error(t, err, "short ID already taken")

	exported := filepath.Join(dir, "out.json")
	_, err = executeCmd(t, app, "export", "SITE02", "-o", exported)
	require.NoError(t, err)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	var plan importer.Plan
	require.NoError(t, json.Unmarshal(data, &plan))
	assert.Equal(t, "SITE02", plan.Project.ShortID)
	assert.Len(t, plan.Activities, 2)
	assert.Len(t, plan.Dependencies, 1)

	out, err = executeCmd(t, app, "export", "SITE02")
	require.NoError(t, err)
	assert.Contains(t, out, `"short_id": "SITE02"`)
}

func TestImportCmd_InvalidPlan(t *testing.T) {
	app := testApp(t)
	in := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"project": {"name": "No id"}}`), 0o644))

	_, err := executeCmd(t, app, "import", in)
	require.Error(t, err)

	projects, err := app.Projects.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestServeCmd(t *testing.T) {
	app := testApp(t)

	bad := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("bar_height: [1"), 0o644))
	_, err := executeCmd(t, app, "serve", "--style", bad)
	require.Error(t, err, "a malformed style file stops the server before it listens")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := NewRootCmd(app)
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})
	assert.NoError(t, root.ExecuteContext(ctx), "a cancelled context shuts the server down cleanly")
}
