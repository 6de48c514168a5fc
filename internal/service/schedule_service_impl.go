package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/cache"
	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
	"github.com/alexanderramin/gantry/internal/render"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/timeline"
)

// ScheduleConfig carries chart geometry and editor settings. Zero values
// fall back to the timeline defaults.
type ScheduleConfig struct {
	Grid   timeline.GridConfig
	Layout timeline.Layout

	// IdleTimeout of zero disables drag expiry in edit sessions.
	IdleTimeout time.Duration

	// Cache stores rendered SVGs; nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
}

type scheduleService struct {
	activities repository.ActivityRepo
	deps       repository.DependencyRepo
	uow        db.UnitOfWork
	cfg        ScheduleConfig
	observer   UseCaseObserver
}

func NewScheduleService(
	activities repository.ActivityRepo,
	deps repository.DependencyRepo,
	uow db.UnitOfWork,
	cfg ScheduleConfig,
	observers ...UseCaseObserver,
) ScheduleService {
	if cfg.Grid == (timeline.GridConfig{}) {
		cfg.Grid = timeline.DefaultGridConfig()
	}
	if cfg.Layout == (timeline.Layout{}) {
		cfg.Layout = timeline.DefaultLayout()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	return &scheduleService{
		activities: activities,
		deps:       deps,
		uow:        uow,
		cfg:        cfg,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func loadSnapshot(ctx context.Context, activities repository.ActivityRepo, deps repository.DependencyRepo, projectID string) ([]domain.Activity, []domain.Dependency, error) {
	acts, err := activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading activities: %w", err)
	}
	ds, err := deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading dependencies: %w", err)
	}
	return acts, ds, nil
}

func (s *scheduleService) Chart(ctx context.Context, projectID string, widthPx float64) (*timeline.Chart, error) {
	acts, deps, err := loadSnapshot(ctx, s.activities, s.deps, projectID)
	if err != nil {
		return nil, err
	}
	c := timeline.BuildChart(acts, deps, widthPx, s.cfg.Grid, s.cfg.Layout)
	return &c, nil
}

func (s *scheduleService) ChartSVG(ctx context.Context, projectID string, widthPx float64, style render.Style) (svg []byte, err error) {
	uc := startUseCase(s.observer, "chart-svg", map[string]any{"project": projectID, "cache": "miss"})
	defer func() { uc.end(ctx, err) }()
	fields := uc.fields

	acts, deps, err := loadSnapshot(ctx, s.activities, s.deps, projectID)
	if err != nil {
		return nil, err
	}

	key := cache.Key("chart-svg", acts, deps, widthPx, s.cfg.Grid, s.cfg.Layout, style)
	if data, ok, cerr := s.cfg.Cache.Get(ctx, key); cerr == nil && ok {
		fields["cache"] = "hit"
		return data, nil
	} else if cerr != nil {
		fields["cache"] = "error"
		fields["cache_error"] = cerr.Error()
	}

	c := timeline.BuildChart(acts, deps, widthPx, s.cfg.Grid, s.cfg.Layout)
	svg = render.SVG(c, style)
	if cerr := s.cfg.Cache.Set(ctx, key, svg, s.cfg.CacheTTL); cerr != nil {
		fields["cache_error"] = cerr.Error()
	}
	return svg, nil
}

func (s *scheduleService) Conflicts(ctx context.Context, projectID string) ([]scheduler.DependencyStatus, error) {
	acts, deps, err := loadSnapshot(ctx, s.activities, s.deps, projectID)
	if err != nil {
		return nil, err
	}
	return scheduler.Conflicting(scheduler.EvaluateDependencies(scheduler.Sorted(acts), deps)), nil
}

// FixDates reads the snapshot, resolves it and writes every change inside a
// single transaction: either all moved activities are stored or none are.
// A cycle aborts before any write.
func (s *scheduleService) FixDates(ctx context.Context, projectID string, dryRun bool) (res *scheduler.Resolution, err error) {
	uc := startUseCase(s.observer, "fix-dates", map[string]any{"project": projectID, "dry_run": dryRun})
	defer func() {
		if res != nil {
			uc.fields["changes"] = len(res.Changes)
		}
		uc.end(ctx, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		acts, deps, err := loadSnapshot(ctx, txActivities, repository.NewSQLiteDependencyRepo(tx), projectID)
		if err != nil {
			return err
		}

		resolved, err := scheduler.Resolve(acts, deps)
		if err != nil {
			return fmt.Errorf("resolving schedule: %w", err)
		}
		if !dryRun {
			for _, c := range resolved.Changes {
				if err := txActivities.UpdateDates(ctx, c.ActivityID, c.NewStart, c.NewEnd); err != nil {
					return fmt.Errorf("moving activity %s: %w", c.ActivityID, err)
				}
			}
		}
		res = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *scheduleService) EditSession(ctx context.Context, projectID string) (*EditSession, error) {
	acts, deps, err := loadSnapshot(ctx, s.activities, s.deps, projectID)
	if err != nil {
		return nil, err
	}
	return &EditSession{
		ProjectID:    projectID,
		Editor:       scheduler.NewEditor(acts, scheduler.WithIdleTimeout(s.cfg.IdleTimeout)),
		Dependencies: deps,
		Committer:    s.committer(),
		grid:         s.cfg.Grid,
		layout:       s.cfg.Layout,
		reload: func(ctx context.Context) ([]domain.Activity, []domain.Dependency, error) {
			return loadSnapshot(ctx, s.activities, s.deps, projectID)
		},
	}, nil
}

// Shift drives the editor through start, one update and release, so a
// scripted shift obeys the same rules as an interactive drag.
func (s *scheduleService) Shift(ctx context.Context, activityID string, mode scheduler.DragMode, days int) (*scheduler.DateChange, error) {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	acts, err := s.activities.ListByProject(ctx, a.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	ed := scheduler.NewEditor(acts, scheduler.WithIdleTimeout(0))
	anchor := a.StartDate
	if mode == scheduler.DragEnd {
		anchor = a.EffectiveEnd()
	}
	if err := ed.StartDrag(activityID, mode, anchor); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "starting shift")
	}
	if !ed.Update(domain.AddDays(anchor, days)) {
		ed.Abort()
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput,
			"shifting %s of %q by %d days would put its start after its end", mode, a.Name, days)
	}
	return ed.Release(ctx, s.committer())
}

// committer persists a released drag through a tx-scoped activity repo.
func (s *scheduleService) committer() scheduler.DateCommitter {
	return scheduler.DateCommitterFunc(func(ctx context.Context, c scheduler.DateChange) error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return repository.NewSQLiteActivityRepo(tx).UpdateDates(ctx, c.ActivityID, c.NewStart, c.NewEnd)
		})
	})
}
