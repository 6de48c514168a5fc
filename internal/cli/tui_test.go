package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/teatest"
	"github.com/alexanderramin/gantry/internal/testutil"
)

// TestDriver wraps teatest.Driver with access to the chart editor.
type TestDriver struct {
	*teatest.Driver
}

func newTestDriver(t *testing.T, app *App, s seeded) *TestDriver {
	t.Helper()
	ctx := context.Background()
	sess, err := app.Schedule.EditSession(ctx, s.project.ID)
	require.NoError(t, err)

	d := teatest.New(t, newChartModel(ctx, app, s.project, sess), teatest.WithSize(120, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) chart() *chartModel {
	return d.Model.(*chartModel)
}

func (d *TestDriver) Dragging() bool {
	return d.chart().sess.Editor.State() == scheduler.StateDragging
}

func TestChartModel_RendersProject(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	assert.True(t, d.ViewContains("WEB01"))
	assert.True(t, d.ViewContains("▸ Design"), "first row is selected")
	assert.True(t, d.ViewContains("1 conflicts"))
	assert.True(t, d.ViewContains("drag start"))
}

func TestChartModel_SelectionFollowsRows(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressDown()
	assert.Equal(t, s.build.ID, d.chart().selected)
	assert.True(t, d.ViewContains("▸ Build"))

	d.PressRepeat(5, d.PressDown)
	assert.Equal(t, s.launch.ID, d.chart().selected, "selection stops at the last row")

	d.PressKey('k')
	assert.Equal(t, s.build.ID, d.chart().selected)
}

func TestChartModel_MoveDragCommitsOnEnter(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressDown()
	d.PressKey('m')
	require.True(t, d.Dragging())
	assert.True(t, d.ViewContains("[dragging]"))

	d.PressRepeat(3, d.PressRight)
	assert.True(t, d.ViewContains("┆"), "pointer marker is drawn while dragging")
	assert.Equal(t, testutil.Day("2024-01-05"), getActivity(t, app, s.build.ID).StartDate,
		"nothing is stored before release")

	d.PressEnter()
	assert.False(t, d.Dragging())
	a := getActivity(t, app, s.build.ID)
	assert.Equal(t, testutil.Day("2024-01-08"), a.StartDate)
	assert.Equal(t, testutil.Day("2024-01-18"), *a.EndDate)
	assert.True(t, d.ViewContains("2024-01-08 → 2024-01-18"))
}

func TestChartModel_EscAbortsDrag(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('e')
	d.PressRepeat(4, d.PressRight)
	got, _ := d.chart().sess.Editor.Activity(s.design.ID)
	assert.Equal(t, testutil.Day("2024-01-14"), *got.EndDate, "provisional end")

	d.PressEsc()
	assert.False(t, d.Dragging())
	got, _ = d.chart().sess.Editor.Activity(s.design.ID)
	assert.Equal(t, testutil.Day("2024-01-10"), *got.EndDate)
	assert.Equal(t, testutil.Day("2024-01-10"), *getActivity(t, app, s.design.ID).EndDate)
	assert.True(t, d.ViewContains("Drag cancelled."))
}

func TestChartModel_StartCannotPassEnd(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('s')
	d.PressRepeat(9, d.PressRight)
	got, _ := d.chart().sess.Editor.Activity(s.design.ID)
	assert.Equal(t, testutil.Day("2024-01-10"), got.StartDate)

	d.PressRight()
	got, _ = d.chart().sess.Editor.Activity(s.design.ID)
	assert.Equal(t, testutil.Day("2024-01-10"), got.StartDate, "rejected update leaves the last accepted dates")
	assert.True(t, d.ViewContains("cannot pass the end"))

	d.PressEnter()
	assert.Equal(t, testutil.Day("2024-01-10"), getActivity(t, app, s.design.ID).StartDate)
}

func TestChartModel_ReleaseWithoutChangeWritesNothing(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('m')
	d.PressRight()
	d.PressLeft()
	d.PressEnter()
	assert.True(t, d.ViewContains("Design unchanged."))
	assert.False(t, d.Dragging())
}

func TestChartModel_IdleTickExpiresDrag(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('m')
	d.PressRight()
	d.Send(idleTickMsg(time.Now()))
	assert.True(t, d.Dragging(), "recent input keeps the drag alive")

	d.Send(idleTickMsg(time.Now().Add(time.Hour)))
	assert.False(t, d.Dragging())
	assert.True(t, d.ViewContains("abandoned"))
	assert.Equal(t, testutil.Day("2024-01-01"), getActivity(t, app, s.design.ID).StartDate)
}

func TestChartModel_FixDates(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('f')
	assert.True(t, d.ViewContains("Moved 1 activities."))
	assert.False(t, d.ViewContains("conflicts"), "no conflict count once resolved")
	assert.Equal(t, testutil.Day("2024-01-11"), getActivity(t, app, s.build.ID).StartDate)
}

func TestChartModel_AddFormCancel(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('a')
	require.NotNil(t, d.chart().form)
	assert.True(t, d.ViewContains("Activity name"))
	assert.Equal(t, "2024-01-11", d.chart().formVals.start, "defaults to the day after the selected activity")

	d.PressEsc()
	assert.Nil(t, d.chart().form)
	assert.True(t, d.ViewContains("Cancelled."))
}

func TestChartModel_AddActivity(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	m := d.chart()
	m.addActivity(&activityFormValues{name: " QA ", start: "2024-01-16", end: "2024-01-18", owner: "li"})
	assert.True(t, d.ViewContains("Added QA (2024-01-16 → 2024-01-18)"))
	assert.True(t, d.ViewContains("▸ QA"), "the new activity is selected")

	acts, err := app.Activities.ListByProject(context.Background(), s.project.ID)
	require.NoError(t, err)
	assert.Len(t, acts, 4)

	m.addActivity(&activityFormValues{name: "Bad", start: "tomorrow"})
	assert.True(t, m.statusErr)
}

func TestChartModel_Quit(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}

func TestChartModel_CtrlCDuringDragAborts(t *testing.T) {
	app := testApp(t)
	s := seedWebsite(t, app)
	d := newTestDriver(t, app, s)

	d.PressKey('m')
	d.PressRight()
	d.PressCtrlC()
	assert.True(t, d.Quitting)
	assert.Equal(t, testutil.Day("2024-01-01"), getActivity(t, app, s.design.ID).StartDate)
}

func TestTUICmd_RunsChartModel(t *testing.T) {
	app := testApp(t)
	seedWebsite(t, app)

	var got tea.Model
	app.RunTUI = func(m tea.Model) error {
		got = m
		return nil
	}
	_, err := executeCmd(t, app, "tui", "WEB01")
	require.NoError(t, err)
	require.IsType(t, &chartModel{}, got)
	assert.Equal(t, "WEB01", got.(*chartModel).project.ShortID)

	got = nil
	app.IsInteractive = func() bool { return true }
	_, err = executeCmd(t, app)
	require.NoError(t, err, "a single project opens without asking")
	assert.NotNil(t, got)
}

func TestTUICmd_UnknownProject(t *testing.T) {
	app := testApp(t)
	app.RunTUI = func(tea.Model) error { return nil }
	_, err := executeCmd(t, app, "tui", "NOPE01")
	require.Error(t, err)
}
