package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/google/uuid"
)

type activityService struct {
	activities repository.ActivityRepo
}

func NewActivityService(activities repository.ActivityRepo) ActivityService {
	return &activityService{activities: activities}
}

func (s *activityService) Create(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = domain.ActivityPending
	}
	if err := a.SetDates(a.StartDate, a.EndDate); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.activities.Create(ctx, a)
}

func (s *activityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *activityService) Resolve(ctx context.Context, projectID, ref string) (*domain.Activity, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "activity reference is required")
	}
	rows, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(rows) {
			return nil, gerrors.New(gerrors.ErrCodeNotFound, "row %d out of range (project has %d activities)", n, len(rows))
		}
		return &rows[n-1], nil
	}

	for i := range rows {
		if rows[i].ID == ref {
			return &rows[i], nil
		}
	}

	var matches []int
	for i := range rows {
		if strings.HasPrefix(rows[i].ID, ref) || rows[i].Name == ref {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return nil, gerrors.NotFound("activity", ref)
	case 1:
		return &rows[matches[0]], nil
	default:
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput,
			"activity reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func (s *activityService) ListByProject(ctx context.Context, projectID string) ([]domain.Activity, error) {
	acts, err := s.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	scheduler.CanonicalSort(acts)
	return acts, nil
}

func (s *activityService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "activity name is required")
	}
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.Name = name
	a.UpdatedAt = time.Now().UTC()
	return s.activities.Update(ctx, a)
}

func (s *activityService) Update(ctx context.Context, a *domain.Activity) error {
	if err := a.SetDates(a.StartDate, a.EndDate); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	a.UpdatedAt = time.Now().UTC()
	return s.activities.Update(ctx, a)
}

func (s *activityService) Delete(ctx context.Context, id string) error {
	return s.activities.Delete(ctx, id)
}
