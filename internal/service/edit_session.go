package service

import (
	"context"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/timeline"
)

// EditSession pairs an editor over one project's snapshot with the
// dependencies to evaluate against it and a committer that stores released
// drags.
type EditSession struct {
	ProjectID    string
	Editor       *scheduler.Editor
	Dependencies []domain.Dependency
	Committer    scheduler.DateCommitter

	grid   timeline.GridConfig
	layout timeline.Layout
	reload func(ctx context.Context) ([]domain.Activity, []domain.Dependency, error)
}

// Chart lays out the editor's current state, provisional dates included,
// so conflicts show up while a drag is still in progress.
func (s *EditSession) Chart(widthPx float64, cfg timeline.GridConfig) timeline.Chart {
	if cfg == (timeline.GridConfig{}) {
		cfg = s.grid
	}
	return timeline.BuildChart(s.Editor.Activities(), s.Dependencies, widthPx, cfg, s.layout)
}

// Release commits the active drag.
func (s *EditSession) Release(ctx context.Context) (*scheduler.DateChange, error) {
	return s.Editor.Release(ctx, s.Committer)
}

// Reload replaces the snapshot with the stored state. It fails while a drag
// is active.
func (s *EditSession) Reload(ctx context.Context) error {
	if s.Editor.State() == scheduler.StateDragging {
		return scheduler.ErrDragInProgress
	}
	acts, deps, err := s.reload(ctx)
	if err != nil {
		return err
	}
	if err := s.Editor.Replace(acts); err != nil {
		return err
	}
	s.Dependencies = deps
	return nil
}
