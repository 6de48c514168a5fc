package service

import (
	"context"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/render"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/timeline"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a short ID (any case), a full id or a unique id prefix.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type ActivityService interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	// Resolve accepts a 1-based chart row number, a full id, a unique id
	// prefix or an exact name within the project.
	Resolve(ctx context.Context, projectID, ref string) (*domain.Activity, error)
	// ListByProject returns activities in chart row order.
	ListByProject(ctx context.Context, projectID string) ([]domain.Activity, error)
	Rename(ctx context.Context, id, name string) error
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type DependencyService interface {
	Create(ctx context.Context, d *domain.Dependency) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	UpdateType(ctx context.Context, id string, t domain.DependencyType) error
	Delete(ctx context.Context, id string) error
}

type ScheduleService interface {
	Chart(ctx context.Context, projectID string, widthPx float64) (*timeline.Chart, error)
	// ChartSVG renders the chart, consulting the chart cache first.
	ChartSVG(ctx context.Context, projectID string, widthPx float64, style render.Style) ([]byte, error)
	Conflicts(ctx context.Context, projectID string) ([]scheduler.DependencyStatus, error)
	// FixDates resolves the project's schedule and, unless dryRun, writes
	// every change in one transaction.
	FixDates(ctx context.Context, projectID string, dryRun bool) (*scheduler.Resolution, error)
	EditSession(ctx context.Context, projectID string) (*EditSession, error)
	// Shift runs a complete drag of days whole days on one activity.
	Shift(ctx context.Context, activityID string, mode scheduler.DragMode, days int) (*scheduler.DateChange, error)
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Project         *domain.Project
	ActivityCount   int
	DependencyCount int
}

type PlanService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	Import(ctx context.Context, data []byte) (*ImportResult, error)
	Export(ctx context.Context, projectID string) (*importer.Plan, error)
}
