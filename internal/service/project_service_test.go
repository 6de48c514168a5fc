package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
	"github.com/alexanderramin/gantry/internal/testutil"
)

func TestProjectService_Create_ValidShortID(t *testing.T) {
	projects, _, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)

	proj := &domain.Project{Name: "Website Relaunch", ShortID: "web01"}
	require.NoError(t, svc.Create(ctx, proj))
	assert.NotEmpty(t, proj.ID, "UUID should be generated")
	assert.Equal(t, "WEB01", proj.ShortID, "short ID is upper-cased")

	fetched, err := svc.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website Relaunch", fetched.Name)
}

func TestProjectService_Create_Invalid(t *testing.T) {
	projects, _, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)

	err := svc.Create(ctx, &domain.Project{Name: "X", ShortID: "W1"})
	require.Error(t, err)
	assert.True(t, gerrors.Is(err, gerrors.ErrCodeInvalidInput))

	err = svc.Create(ctx, &domain.Project{Name: " ", ShortID: "WEB01"})
	require.Error(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectService_Resolve(t *testing.T) {
	projects, _, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)

	p1 := testutil.NewTestProject("Alpha", testutil.WithShortID("ALP01"))
	p1.ID = "abc11111-0000-0000-0000-000000000000"
	p2 := testutil.NewTestProject("Beta", testutil.WithShortID("BET01"))
	p2.ID = "abc22222-0000-0000-0000-000000000000"
	require.NoError(t, projects.Create(ctx, p1))
	require.NoError(t, projects.Create(ctx, p2))

	tests := []struct {
		ref    string
		wantID string
		code   gerrors.Code
	}{
		{"alp01", p1.ID, ""},
		{"BET01", p2.ID, ""},
		{p2.ID, p2.ID, ""},
		{"abc1", p1.ID, ""},
		{"abc", "", gerrors.ErrCodeInvalidInput},
		{"zzz", "", gerrors.ErrCodeNotFound},
		{"", "", gerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := svc.Resolve(ctx, tt.ref)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, gerrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	projects, activities, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)

	p := seedProject(t, projects, activities, "Gamma", testutil.NewTestActivity("", "Kickoff"))

	p.Name = "Gamma Prime"
	require.NoError(t, svc.Update(ctx, p))
	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gamma Prime", got.Name)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.GetByID(ctx, p.ID)
	assert.True(t, gerrors.Is(err, gerrors.ErrCodeNotFound))

	acts, err := activities.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, acts, "activities cascade with the project")
}
