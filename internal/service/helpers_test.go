package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/testutil"
)

func setupRepos(t *testing.T) (
	repository.ProjectRepo,
	repository.ActivityRepo,
	repository.DependencyRepo,
	db.UnitOfWork,
) {
	projects, activities, deps, uow, _ := setupReposWithDB(t)
	return projects, activities, deps, uow
}

func setupReposWithDB(t *testing.T) (
	repository.ProjectRepo,
	repository.ActivityRepo,
	repository.DependencyRepo,
	db.UnitOfWork,
	*sql.DB,
) {
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteActivityRepo(database),
		repository.NewSQLiteDependencyRepo(database),
		testutil.NewTestUoW(database),
		database
}

// seedProject stores a project and the given activities.
func seedProject(t *testing.T, projects repository.ProjectRepo, activities repository.ActivityRepo, name string, acts ...*domain.Activity) *domain.Project {
	t.Helper()
	ctx := context.Background()
	p := testutil.NewTestProject(name)
	require.NoError(t, projects.Create(ctx, p))
	for _, a := range acts {
		a.ProjectID = p.ID
		require.NoError(t, activities.Create(ctx, a))
	}
	return p
}

func seedDep(t *testing.T, deps repository.DependencyRepo, projectID string, from, to *domain.Activity, typ domain.DependencyType) *domain.Dependency {
	t.Helper()
	d := testutil.NewTestDependency(projectID, from.ID, to.ID, typ)
	require.NoError(t, deps.Create(context.Background(), d))
	return d
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return UseCaseEvent{}
	}
	return r.events[len(r.events)-1]
}
