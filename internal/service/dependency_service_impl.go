package service

import (
	"context"
	"time"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/google/uuid"
)

type dependencyService struct {
	deps repository.DependencyRepo
	uow  db.UnitOfWork
}

func NewDependencyService(deps repository.DependencyRepo, uow db.UnitOfWork) DependencyService {
	return &dependencyService{deps: deps, uow: uow}
}

// Create checks that both endpoints exist in the dependency's project before
// inserting. A dependency that would currently be violated is accepted; the
// conflict shows up on the chart.
func (s *dependencyService) Create(ctx context.Context, d *domain.Dependency) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Type == "" {
		d.Type = domain.FinishToStart
	}
	if err := d.Validate(); err != nil {
		return err
	}
	d.CreatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		for _, id := range []string{d.SourceID, d.TargetID} {
			a, err := txActivities.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if d.ProjectID == "" {
				d.ProjectID = a.ProjectID
			}
			if a.ProjectID != d.ProjectID {
				return gerrors.New(gerrors.ErrCodeInvalidInput,
					"activity %s belongs to a different project", id)
			}
		}

		existing, err := txDeps.ListByActivity(ctx, d.SourceID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.SourceID == d.SourceID && e.TargetID == d.TargetID && e.Type == d.Type {
				return gerrors.New(gerrors.ErrCodeInvalidInput, "dependency already exists")
			}
		}
		return txDeps.Create(ctx, d)
	})
}

func (s *dependencyService) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	return s.deps.ListByProject(ctx, projectID)
}

func (s *dependencyService) UpdateType(ctx context.Context, id string, t domain.DependencyType) error {
	d, err := s.deps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.Type = t
	if err := d.Validate(); err != nil {
		return err
	}
	return s.deps.Update(ctx, d)
}

func (s *dependencyService) Delete(ctx context.Context, id string) error {
	return s.deps.Delete(ctx, id)
}
