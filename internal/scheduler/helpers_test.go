package scheduler

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

func d(s string) time.Time {
	t, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// act builds an activity; an empty end makes it a milestone.
func act(id, name, start, end string) domain.Activity {
	a := domain.Activity{ID: id, Name: name, StartDate: d(start), Status: domain.ActivityPending}
	if end != "" {
		e := d(end)
		a.EndDate = &e
	}
	return a
}

func milestone(id, name, start string) domain.Activity {
	return act(id, name, start, "")
}

func dep(id, from, to string, t domain.DependencyType) domain.Dependency {
	return domain.Dependency{ID: id, SourceID: from, TargetID: to, Type: t}
}

func ids(acts []domain.Activity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.ID
	}
	return out
}
