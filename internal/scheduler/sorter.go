package scheduler

import (
	"sort"

	"github.com/alexanderramin/gantry/internal/domain"
)

// CanonicalSort orders activities into chart rows by the deterministic rules:
// 1. Start date: earliest first
// 2. End date: earliest effective end first (milestones before bars on the same day)
// 3. Name: lexical ascending
// 4. ID: lexical ascending
func CanonicalSort(activities []domain.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]

		// 1. Start date
		startA, startB := domain.Day(a.StartDate), domain.Day(b.StartDate)
		if !startA.Equal(startB) {
			return startA.Before(startB)
		}

		// 2. Effective end
		endA, endB := domain.Day(a.EffectiveEnd()), domain.Day(b.EffectiveEnd())
		if !endA.Equal(endB) {
			return endA.Before(endB)
		}

		// 3. Name
		if a.Name != b.Name {
			return a.Name < b.Name
		}

		// 4. ID
		return a.ID < b.ID
	})
}

// Sorted returns a sorted copy, leaving the input untouched.
func Sorted(activities []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, len(activities))
	copy(out, activities)
	CanonicalSort(out)
	return out
}
