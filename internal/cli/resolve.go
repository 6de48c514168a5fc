package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// resolveProject resolves an optional PROJECT argument. Without one, the
// only stored project is used.
func resolveProject(ctx context.Context, app *App, args []string) (*domain.Project, error) {
	if len(args) > 0 && args[0] != "" {
		return app.Projects.Resolve(ctx, args[0])
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(projects) {
	case 0:
		return nil, fmt.Errorf("no projects yet; create one with 'gantry project add' or 'gantry import'")
	case 1:
		return projects[0], nil
	default:
		return nil, fmt.Errorf("project is required (%d projects exist, see 'gantry project list')", len(projects))
	}
}

// resolveActivity resolves PROJECT and ACTIVITY arguments; ACTIVITY may be a
// row number, an id or id prefix, or a name.
func resolveActivity(ctx context.Context, app *App, projectRef, activityRef string) (*domain.Project, *domain.Activity, error) {
	p, err := app.Projects.Resolve(ctx, projectRef)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Activities.Resolve(ctx, p.ID, activityRef)
	if err != nil {
		return nil, nil, err
	}
	return p, a, nil
}

func parseDayFlag(name, value string) (time.Time, error) {
	d, err := domain.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
