package domain

import (
	"strings"
	"time"

	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

// Activity is a schedulable unit of work shown as one chart row. An
// activity without an end date is a single-day milestone.
type Activity struct {
	ID        string
	ProjectID string
	Name      string
	Owner     string
	Status    ActivityStatus
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSingleDay reports whether the activity renders as a milestone diamond.
func (a *Activity) IsSingleDay() bool {
	return a.EndDate == nil || Day(*a.EndDate).Equal(Day(a.StartDate))
}

// EffectiveEnd returns the end date, falling back to the start date for
// milestones.
func (a *Activity) EffectiveEnd() time.Time {
	if a.EndDate == nil {
		return a.StartDate
	}
	return *a.EndDate
}

// DurationDays is the number of calendar days between start and effective end.
func (a *Activity) DurationDays() int {
	return DaysBetween(a.StartDate, a.EffectiveEnd())
}

// SetDates normalises both dates to day granularity and rejects an end
// before the start.
func (a *Activity) SetDates(start time.Time, end *time.Time) error {
	start = Day(start)
	var normEnd *time.Time
	if end != nil {
		normEnd = DayPtr(*end)
		if normEnd.Before(start) {
			return gerrors.New(gerrors.ErrCodeInvalidInput,
				"end date %s is before start date %s", FormatDay(*normEnd), FormatDay(start))
		}
	}
	a.StartDate = start
	a.EndDate = normEnd
	return nil
}

// Validate checks the fields required before an activity is stored.
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "activity name is required")
	}
	if a.StartDate.IsZero() {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "activity %q: start date is required", a.Name)
	}
	if a.Status != "" && !ValidActivityStatuses[string(a.Status)] {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "activity %q: invalid status %q", a.Name, a.Status)
	}
	if a.EndDate != nil && Day(*a.EndDate).Before(Day(a.StartDate)) {
		return gerrors.New(gerrors.ErrCodeInvalidInput,
			"activity %q: end date %s is before start date %s",
			a.Name, FormatDay(*a.EndDate), FormatDay(a.StartDate))
	}
	return nil
}

// Clone returns a copy whose EndDate pointer is not shared with a.
func (a Activity) Clone() Activity {
	if a.EndDate != nil {
		end := *a.EndDate
		a.EndDate = &end
	}
	return a
}
