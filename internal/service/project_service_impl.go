package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := normalize(p); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "project ID is required")
	}

	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil || !gerrors.Is(err, gerrors.ErrCodeNotFound) {
		return p, err
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	var found *domain.Project
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
		if !strings.HasPrefix(p.ID, ref) {
			continue
		}
		if found != nil {
			return nil, gerrors.New(gerrors.ErrCodeInvalidInput,
				"project ID prefix %q matches both %s and %s", ref, found.DisplayID(), p.DisplayID())
		}
		found = p
	}
	if found == nil {
		return nil, gerrors.NotFound("project", ref)
	}
	return found, nil
}

// normalize upper-cases the short ID and validates the result.
func normalize(p *domain.Project) error {
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	p.Name = strings.TrimSpace(p.Name)
	return p.Validate()
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := normalize(p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// Delete removes the project; activities and dependencies go with it via
// the foreign key cascade.
func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}
