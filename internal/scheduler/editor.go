package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// DragMode selects which dates a drag changes.
type DragMode string

const (
	DragStart DragMode = "start"
	DragEnd   DragMode = "end"
	DragMove  DragMode = "move"
)

// ParseDragMode validates a mode string.
func ParseDragMode(s string) (DragMode, error) {
	switch DragMode(s) {
	case DragStart, DragEnd, DragMove:
		return DragMode(s), nil
	}
	return "", fmt.Errorf("%w: %q (expected start, end or move)", ErrInvalidDragMode, s)
}

// DefaultIdleTimeout is how long a drag may go without updates before
// ExpireIdle abandons it.
const DefaultIdleTimeout = 30 * time.Second

var (
	ErrDragInProgress  = errors.New("a drag is already in progress")
	ErrNotDragging     = errors.New("no drag in progress")
	ErrInvalidDragMode = errors.New("invalid drag mode")
	ErrActivityUnknown = errors.New("activity not in editor snapshot")
)

// EditorState is the drag state machine position.
type EditorState int

const (
	StateIdle EditorState = iota
	StateDragging
)

func (s EditorState) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// DateCommitter persists the final date change of a drag.
type DateCommitter interface {
	CommitDates(ctx context.Context, change DateChange) error
}

// DateCommitterFunc adapts a function to DateCommitter.
type DateCommitterFunc func(ctx context.Context, change DateChange) error

func (f DateCommitterFunc) CommitDates(ctx context.Context, change DateChange) error {
	return f(ctx, change)
}

type dragSession struct {
	activityID string
	mode       DragMode
	anchor     time.Time
	origStart  time.Time
	origEnd    *time.Time
	lastInput  time.Time
}

// Editor is the interactive drag/resize state machine over a snapshot of
// activities. It moves idle -> dragging -> idle; accepted updates are applied
// provisionally to the snapshot and committed once on Release.
//
// An Editor is not safe for concurrent use. A second StartDrag while a drag
// is active is ignored and reports ErrDragInProgress.
type Editor struct {
	activities  []domain.Activity
	index       map[string]int
	drag        *dragSession
	now         func() time.Time
	idleTimeout time.Duration
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithClock overrides the clock used for idle expiry.
func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) { e.now = now }
}

// WithIdleTimeout overrides DefaultIdleTimeout. Zero disables expiry.
func WithIdleTimeout(d time.Duration) EditorOption {
	return func(e *Editor) { e.idleTimeout = d }
}

// NewEditor copies activities into a new editor snapshot.
func NewEditor(activities []domain.Activity, opts ...EditorOption) *Editor {
	e := &Editor{
		activities:  make([]domain.Activity, len(activities)),
		index:       make(map[string]int, len(activities)),
		now:         time.Now,
		idleTimeout: DefaultIdleTimeout,
	}
	for i, a := range activities {
		e.activities[i] = a.Clone()
		e.index[a.ID] = i
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current state.
func (e *Editor) State() EditorState {
	if e.drag != nil {
		return StateDragging
	}
	return StateIdle
}

// Dragging returns the id and mode of the active drag.
func (e *Editor) Dragging() (string, DragMode, bool) {
	if e.drag == nil {
		return "", "", false
	}
	return e.drag.activityID, e.drag.mode, true
}

// Activities returns a copy of the snapshot including provisional dates.
func (e *Editor) Activities() []domain.Activity {
	out := make([]domain.Activity, len(e.activities))
	for i, a := range e.activities {
		out[i] = a.Clone()
	}
	return out
}

// Activity returns a copy of one activity including provisional dates.
func (e *Editor) Activity(id string) (domain.Activity, bool) {
	i, ok := e.index[id]
	if !ok {
		return domain.Activity{}, false
	}
	return e.activities[i].Clone(), true
}

// Replace swaps in a fresh snapshot. Rejected while a drag is active.
func (e *Editor) Replace(activities []domain.Activity) error {
	if e.drag != nil {
		return ErrDragInProgress
	}
	*e = *NewEditor(activities, WithClock(e.now), WithIdleTimeout(e.idleTimeout))
	return nil
}

// StartDrag anchors a drag of the given activity at the pointer date.
func (e *Editor) StartDrag(activityID string, mode DragMode, pointer time.Time) error {
	if e.drag != nil {
		return ErrDragInProgress
	}
	if _, err := ParseDragMode(string(mode)); err != nil {
		return err
	}
	i, ok := e.index[activityID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrActivityUnknown, activityID)
	}
	a := e.activities[i]
	e.drag = &dragSession{
		activityID: activityID,
		mode:       mode,
		anchor:     domain.Day(pointer),
		origStart:  domain.Day(a.StartDate),
		origEnd:    cloneTime(a.EndDate),
		lastInput:  e.now(),
	}
	return nil
}

// Update moves the pointer. It returns true when the proposed dates were
// accepted; updates that would put the start after the end are silently
// dropped and return false.
func (e *Editor) Update(pointer time.Time) bool {
	if e.drag == nil {
		return false
	}
	d := e.drag
	d.lastInput = e.now()
	delta := domain.DaysBetween(d.anchor, pointer)
	a := &e.activities[e.index[d.activityID]]

	switch d.mode {
	case DragStart:
		start := domain.AddDays(d.origStart, delta)
		if a.EndDate != nil && start.After(domain.Day(*a.EndDate)) {
			return false
		}
		a.StartDate = start

	case DragEnd:
		anchorEnd := d.origStart
		if d.origEnd != nil {
			anchorEnd = domain.Day(*d.origEnd)
		}
		end := domain.AddDays(anchorEnd, delta)
		if end.Before(domain.Day(a.StartDate)) {
			return false
		}
		a.EndDate = &end

	case DragMove:
		a.StartDate = domain.AddDays(d.origStart, delta)
		if d.origEnd != nil {
			a.EndDate = domain.DayPtr(domain.AddDays(*d.origEnd, delta))
		}
	}
	return true
}

// Release ends the drag and commits the last accepted dates exactly once.
// Nothing is written when the dates did not change; the returned change is
// nil in that case. If the commit fails the provisional dates are reverted.
func (e *Editor) Release(ctx context.Context, committer DateCommitter) (*DateChange, error) {
	if e.drag == nil {
		return nil, ErrNotDragging
	}
	d := e.drag
	a := e.activities[e.index[d.activityID]]
	e.drag = nil

	if domain.Day(a.StartDate).Equal(d.origStart) && sameEnd(a, d) {
		// An end-drag back onto a milestone's anchor leaves EndDate set to
		// the start; restore the nil end so the milestone stays one.
		e.revert(d)
		return nil, nil
	}

	change := DateChange{
		ActivityID: d.activityID,
		OldStart:   d.origStart,
		OldEnd:     cloneTime(d.origEnd),
		NewStart:   domain.Day(a.StartDate),
		NewEnd:     cloneTime(a.EndDate),
	}
	if err := committer.CommitDates(ctx, change); err != nil {
		e.revert(d)
		return nil, fmt.Errorf("committing drag of %s: %w", d.activityID, err)
	}
	return &change, nil
}

// Abort ends the drag and restores the dates captured by StartDrag.
// Aborting while idle is a no-op.
func (e *Editor) Abort() {
	if e.drag == nil {
		return
	}
	e.revert(e.drag)
	e.drag = nil
}

// ExpireIdle aborts a drag that has seen no input for longer than the idle
// timeout, so a lost pointer release cannot leave the editor stuck.
// Reports whether a drag was expired.
func (e *Editor) ExpireIdle(now time.Time) bool {
	if e.drag == nil || e.idleTimeout <= 0 {
		return false
	}
	if now.Sub(e.drag.lastInput) < e.idleTimeout {
		return false
	}
	e.Abort()
	return true
}

func (e *Editor) revert(d *dragSession) {
	a := &e.activities[e.index[d.activityID]]
	a.StartDate = d.origStart
	a.EndDate = cloneTime(d.origEnd)
}

// sameEnd compares effective ends, so a nil end and an end on the start
// day count as equal.
func sameEnd(a domain.Activity, d *dragSession) bool {
	orig := d.origStart
	if d.origEnd != nil {
		orig = domain.Day(*d.origEnd)
	}
	return domain.Day(a.EffectiveEnd()).Equal(orig)
}
