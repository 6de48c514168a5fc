package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	// UpdateDates writes only the two date columns, leaving name, owner and
	// status untouched.
	UpdateDates(ctx context.Context, id string, start time.Time, end *time.Time) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	GetByID(ctx context.Context, id string) (*domain.Dependency, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	// ListByActivity returns dependencies where the activity is either end.
	ListByActivity(ctx context.Context, activityID string) ([]domain.Dependency, error)
	Update(ctx context.Context, d *domain.Dependency) error
	Delete(ctx context.Context, id string) error
}
