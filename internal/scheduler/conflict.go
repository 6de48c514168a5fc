package scheduler

import (
	"github.com/alexanderramin/gantry/internal/domain"
)

// DetectConflict reports whether the dependency of type t from "from" to
// "to" is violated by the activities' current dates:
//
//	FS  from.end   > to.start
//	FF  from.end   > to.end
//	SS  from.start > to.start
//	SF  from.start > to.end
//
// A missing end date is read as the start date. Unknown types never conflict.
func DetectConflict(from, to domain.Activity, t domain.DependencyType) bool {
	fromStart, fromEnd := domain.Day(from.StartDate), domain.Day(from.EffectiveEnd())
	toStart, toEnd := domain.Day(to.StartDate), domain.Day(to.EffectiveEnd())

	switch t {
	case domain.FinishToStart:
		return fromEnd.After(toStart)
	case domain.FinishToFinish:
		return fromEnd.After(toEnd)
	case domain.StartToStart:
		return fromStart.After(toStart)
	case domain.StartToFinish:
		return fromStart.After(toEnd)
	default:
		return false
	}
}

// DependencyStatus is a dependency annotated with its derived state.
type DependencyStatus struct {
	Dependency domain.Dependency
	// Conflict is true when the current dates violate the dependency.
	Conflict bool
	// Inert marks dependencies whose source or target is not in the
	// activity set. They are drawn nowhere and never conflict.
	Inert bool
}

// EvaluateDependencies derives the conflict flag for every dependency
// against the given activity snapshot, preserving input order.
func EvaluateDependencies(activities []domain.Activity, deps []domain.Dependency) []DependencyStatus {
	byID := indexActivities(activities)
	statuses := make([]DependencyStatus, 0, len(deps))
	for _, d := range deps {
		from, okFrom := byID[d.SourceID]
		to, okTo := byID[d.TargetID]
		if !okFrom || !okTo {
			statuses = append(statuses, DependencyStatus{Dependency: d, Inert: true})
			continue
		}
		statuses = append(statuses, DependencyStatus{
			Dependency: d,
			Conflict:   DetectConflict(from, to, d.Type),
		})
	}
	return statuses
}

// Conflicting filters statuses down to the violated dependencies.
func Conflicting(statuses []DependencyStatus) []DependencyStatus {
	var out []DependencyStatus
	for _, s := range statuses {
		if s.Conflict {
			out = append(out, s)
		}
	}
	return out
}

// ConflictedActivities returns the ids of every activity at either end of a
// violated dependency.
func ConflictedActivities(statuses []DependencyStatus) map[string]bool {
	ids := make(map[string]bool)
	for _, s := range statuses {
		if s.Conflict {
			ids[s.Dependency.SourceID] = true
			ids[s.Dependency.TargetID] = true
		}
	}
	return ids
}

func indexActivities(activities []domain.Activity) map[string]domain.Activity {
	byID := make(map[string]domain.Activity, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
	}
	return byID
}
