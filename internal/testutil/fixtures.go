package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Day parses a YYYY-MM-DD literal and panics on malformed input.
func Day(s string) time.Time {
	t, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Activity options
type ActivityOption func(*domain.Activity)

// WithDates sets both dates from YYYY-MM-DD strings; an empty end makes a
// milestone.
func WithDates(start, end string) ActivityOption {
	return func(a *domain.Activity) {
		a.StartDate = Day(start)
		a.EndDate = nil
		if end != "" {
			e := Day(end)
			a.EndDate = &e
		}
	}
}

func WithMilestone(on string) ActivityOption {
	return func(a *domain.Activity) {
		a.StartDate = Day(on)
		a.EndDate = nil
	}
}

func WithStatus(s domain.ActivityStatus) ActivityOption {
	return func(a *domain.Activity) {
		a.Status = s
	}
}

func WithOwner(owner string) ActivityOption {
	return func(a *domain.Activity) {
		a.Owner = owner
	}
}

func WithActivityID(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.ID = id
	}
}

// NewTestActivity builds a five-day pending activity starting 2025-01-06.
func NewTestActivity(projectID, name string, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC().Truncate(time.Second)
	end := Day("2025-01-10")
	a := &domain.Activity{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Status:    domain.ActivityPending,
		StartDate: Day("2025-01-06"),
		EndDate:   &end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func NewTestDependency(projectID, sourceID, targetID string, t domain.DependencyType) *domain.Dependency {
	return &domain.Dependency{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		SourceID:  sourceID,
		TargetID:  targetID,
		Type:      t,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}
