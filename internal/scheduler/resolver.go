package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

// DateRange is a resolved pair of dates. End is nil for milestones that
// never had an end date.
type DateRange struct {
	Start time.Time
	End   *time.Time
}

// DateChange is a proposed mutation of one activity's dates, handed to the
// store for persistence.
type DateChange struct {
	ActivityID string
	OldStart   time.Time
	OldEnd     *time.Time
	NewStart   time.Time
	NewEnd     *time.Time
}

// ShiftDays is how far the start moved.
func (c DateChange) ShiftDays() int {
	return domain.DaysBetween(c.OldStart, c.NewStart)
}

// Resolution is the output of Resolve.
type Resolution struct {
	// Order is the topological processing order of every activity.
	Order []string
	// Dates holds the resolved dates of every activity, moved or not.
	Dates map[string]DateRange
	// Changes lists only the activities that moved, in Order.
	Changes []DateChange
}

// Changed reports whether any activity moved.
func (r *Resolution) Changed() bool {
	return len(r.Changes) > 0
}

// Apply returns copies of activities with the resolved dates written in.
func (r *Resolution) Apply(activities []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, len(activities))
	for i, a := range activities {
		a = a.Clone()
		if dr, ok := r.Dates[a.ID]; ok {
			a.StartDate = dr.Start
			a.EndDate = cloneTime(dr.End)
		}
		out[i] = a
	}
	return out
}

// CycleError is returned by Resolve when the dependency graph cannot be
// topologically ordered. ActivityIDs holds the activities left unordered,
// sorted for stable messages.
type CycleError struct {
	ActivityIDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among %d activities: %s",
		len(e.ActivityIDs), strings.Join(e.ActivityIDs, ", "))
}

// ErrorCode reports CYCLE so callers can branch with errors.Is/GetCode.
func (e *CycleError) ErrorCode() gerrors.Code {
	return gerrors.ErrCodeCycle
}

type edge struct {
	from, to string
	typ      domain.DependencyType
}

// Resolve delays activities until every dependency is satisfied.
//
// The graph is ordered with Kahn's algorithm (FIFO, seeded in input order).
// Walking that order, each activity starts at the latest of its own start and
// every constraint implied by its already-resolved predecessors:
//
//	FS  predEnd + 1 day
//	FF  predEnd - duration
//	SS  predStart
//	SF  predStart - duration
//
// Durations are preserved and nothing ever moves earlier. Dependencies that
// reference unknown activities are ignored. A self-loop or unknown type is
// rejected as invalid input, and a cycle yields *CycleError with no changes.
func Resolve(activities []domain.Activity, deps []domain.Dependency) (*Resolution, error) {
	byID := indexActivities(activities)

	var edges []edge
	for _, d := range deps {
		if d.SourceID == d.TargetID {
			return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "dependency %s: activity %s cannot depend on itself", d.ID, d.SourceID)
		}
		if !d.Type.Valid() {
			return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "dependency %s: unknown type %q", d.ID, d.Type)
		}
		if _, ok := byID[d.SourceID]; !ok {
			continue
		}
		if _, ok := byID[d.TargetID]; !ok {
			continue
		}
		edges = append(edges, edge{from: d.SourceID, to: d.TargetID, typ: d.Type})
	}

	order, err := topologicalOrder(activities, edges)
	if err != nil {
		return nil, err
	}

	incoming := make(map[string][]edge)
	for _, e := range edges {
		incoming[e.to] = append(incoming[e.to], e)
	}

	res := &Resolution{
		Order: order,
		Dates: make(map[string]DateRange, len(activities)),
	}
	for _, id := range order {
		a := byID[id]
		duration := a.DurationDays()
		origStart := domain.Day(a.StartDate)

		start := origStart
		for _, e := range incoming[id] {
			pred := res.Dates[e.from]
			if c := constraintStart(pred, e.typ, duration); c.After(start) {
				start = c
			}
		}

		var end *time.Time
		if a.EndDate != nil {
			end = domain.DayPtr(domain.AddDays(start, duration))
		}
		res.Dates[id] = DateRange{Start: start, End: end}

		if !start.Equal(origStart) {
			res.Changes = append(res.Changes, DateChange{
				ActivityID: id,
				OldStart:   origStart,
				OldEnd:     cloneTime(a.EndDate),
				NewStart:   start,
				NewEnd:     cloneTime(end),
			})
		}
	}
	return res, nil
}

// constraintStart is the earliest start a successor of the given duration
// may take under one incoming dependency.
func constraintStart(pred DateRange, t domain.DependencyType, duration int) time.Time {
	predStart := pred.Start
	predEnd := pred.Start
	if pred.End != nil {
		predEnd = *pred.End
	}
	switch t {
	case domain.FinishToStart:
		return domain.AddDays(predEnd, 1)
	case domain.FinishToFinish:
		return domain.AddDays(predEnd, -duration)
	case domain.StartToStart:
		return predStart
	case domain.StartToFinish:
		return domain.AddDays(predStart, -duration)
	}
	return time.Time{}
}

// topologicalOrder runs Kahn's algorithm. Zero in-degree activities are
// queued in input order so the result is deterministic; every id is emitted
// at most once.
func topologicalOrder(activities []domain.Activity, edges []edge) ([]string, error) {
	inDegree := make(map[string]int, len(activities))
	successors := make(map[string][]string)
	for _, a := range activities {
		inDegree[a.ID] = 0
	}
	for _, e := range edges {
		inDegree[e.to]++
		successors[e.from] = append(successors[e.from], e.to)
	}

	queue := make([]string, 0, len(activities))
	for _, a := range activities {
		if inDegree[a.ID] == 0 {
			queue = append(queue, a.ID)
		}
	}

	visited := make(map[string]bool, len(activities))
	order := make([]string, 0, len(activities))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)

		for _, next := range successors[id] {
			inDegree[next]--
			if inDegree[next] == 0 && !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	if len(order) < len(inDegree) {
		var remaining []string
		for id := range inDegree {
			if !visited[id] {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{ActivityIDs: remaining}
	}
	return order, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
