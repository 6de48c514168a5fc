package timeline

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

func act(id, start, end string) domain.Activity {
	a := domain.Activity{ID: id, Name: id, StartDate: d(start)}
	if end != "" {
		e := d(end)
		a.EndDate = &e
	}
	return a
}
