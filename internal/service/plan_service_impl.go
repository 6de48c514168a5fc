package service

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/gantry/internal/db"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/repository"
)

type planService struct {
	projects   repository.ProjectRepo
	activities repository.ActivityRepo
	deps       repository.DependencyRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewPlanService(
	projects repository.ProjectRepo,
	activities repository.ActivityRepo,
	deps repository.DependencyRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		projects:   projects,
		activities: activities,
		deps:       deps,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *planService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.Import(ctx, data)
}

// Import validates the plan fully before touching the store, then writes
// the project, its activities and its dependencies in one transaction.
func (s *planService) Import(ctx context.Context, data []byte) (result *ImportResult, err error) {
	uc := startUseCase(s.observer, "import-plan", nil)
	defer func() {
		if result != nil {
			uc.fields["project"] = result.Project.DisplayID()
			uc.fields["activities"] = result.ActivityCount
			uc.fields["dependencies"] = result.DependencyCount
		}
		uc.end(ctx, err)
	}()

	plan, err := importer.ParsePlan(data)
	if err != nil {
		return nil, err
	}
	if errs := importer.ValidatePlan(plan); len(errs) > 0 {
		return nil, &importer.ValidationError{Errors: errs}
	}

	converted, err := importer.Convert(plan)
	if err != nil {
		return nil, fmt.Errorf("converting plan: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		if _, err := txProjects.GetByShortID(ctx, converted.Project.ShortID); err == nil {
			return gerrors.New(gerrors.ErrCodeInvalidInput, "project %s already exists", converted.Project.ShortID)
		} else if !gerrors.Is(err, gerrors.ErrCodeNotFound) {
			return err
		}

		if err := txProjects.Create(ctx, converted.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, a := range converted.Activities {
			if err := txActivities.Create(ctx, a); err != nil {
				return fmt.Errorf("creating activity %q: %w", a.Name, err)
			}
		}
		for _, d := range converted.Dependencies {
			if err := txDeps.Create(ctx, d); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:         converted.Project,
		ActivityCount:   len(converted.Activities),
		DependencyCount: len(converted.Dependencies),
	}, nil
}

func (s *planService) Export(ctx context.Context, projectID string) (*importer.Plan, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	acts, deps, err := loadSnapshot(ctx, s.activities, s.deps, projectID)
	if err != nil {
		return nil, err
	}
	return importer.Export(p, acts, deps), nil
}
