package importer

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/google/uuid"
)

// Converted is a plan turned into domain objects ready for persistence.
type Converted struct {
	Project      *domain.Project
	Activities   []*domain.Activity
	Dependencies []*domain.Dependency
}

// Convert transforms a validated Plan into domain objects with fresh IDs.
// Call ValidatePlan first; Convert assumes the plan is valid.
func Convert(plan *Plan) (*Converted, error) {
	now := time.Now().UTC().Truncate(time.Second)

	project := &domain.Project{
		ID:          uuid.New().String(),
		ShortID:     strings.ToUpper(plan.Project.ShortID),
		Name:        plan.Project.Name,
		Description: plan.Project.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	out := &Converted{Project: project}
	for i, a := range plan.Activities {
		start, err := domain.ParseDay(a.StartDate)
		if err != nil {
			return nil, fmt.Errorf("activities[%d]: %w", i, err)
		}
		act := &domain.Activity{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Name:      a.Name,
			Owner:     a.Owner,
			Status:    domain.ActivityStatus(cmp.Or(a.Status, string(domain.ActivityPending))),
			CreatedAt: now,
			UpdatedAt: now,
		}
		var end *time.Time
		if a.EndDate != nil && *a.EndDate != "" {
			e, err := domain.ParseDay(*a.EndDate)
			if err != nil {
				return nil, fmt.Errorf("activities[%d]: %w", i, err)
			}
			end = &e
		}
		if err := act.SetDates(start, end); err != nil {
			return nil, fmt.Errorf("activities[%d]: %w", i, err)
		}
		out.Activities = append(out.Activities, act)
	}

	refs, _ := buildRefIndex(plan.Activities)
	for i, d := range plan.Dependencies {
		src, err := refs.resolve(d.Source)
		if err != nil {
			return nil, fmt.Errorf("dependencies[%d].source: %w", i, err)
		}
		tgt, err := refs.resolve(d.Target)
		if err != nil {
			return nil, fmt.Errorf("dependencies[%d].target: %w", i, err)
		}
		typ := domain.FinishToStart
		if d.Type != "" {
			if typ, err = domain.ParseDependencyType(d.Type); err != nil {
				return nil, fmt.Errorf("dependencies[%d].type: %w", i, err)
			}
		}
		out.Dependencies = append(out.Dependencies, &domain.Dependency{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			SourceID:  out.Activities[src].ID,
			TargetID:  out.Activities[tgt].ID,
			Type:      typ,
			CreatedAt: now,
		})
	}
	return out, nil
}

// Export builds a plan from stored entities. Activities are written in chart
// row order and dependencies reference them by position, so the output can
// be re-imported as-is. Dependencies whose ends are not in activities are
// dropped.
func Export(project *domain.Project, activities []domain.Activity, deps []domain.Dependency) *Plan {
	rows := scheduler.Sorted(activities)
	pos := make(map[string]int, len(rows))

	plan := &Plan{
		Project: ProjectPlan{
			ShortID:     project.ShortID,
			Name:        project.Name,
			Description: project.Description,
		},
		Activities: make([]ActivityPlan, 0, len(rows)),
	}
	for i, a := range rows {
		pos[a.ID] = i
		ap := ActivityPlan{
			Name:      a.Name,
			Owner:     a.Owner,
			Status:    string(a.Status),
			StartDate: domain.FormatDay(a.StartDate),
		}
		if a.EndDate != nil {
			end := domain.FormatDay(*a.EndDate)
			ap.EndDate = &end
		}
		plan.Activities = append(plan.Activities, ap)
	}
	for _, d := range deps {
		src, okS := pos[d.SourceID]
		tgt, okT := pos[d.TargetID]
		if !okS || !okT {
			continue
		}
		plan.Dependencies = append(plan.Dependencies, DependencyPlan{
			Source: strconv.Itoa(src),
			Target: strconv.Itoa(tgt),
			Type:   string(d.Type),
		})
	}
	return plan
}
