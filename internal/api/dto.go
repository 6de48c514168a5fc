package api

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/timeline"
)

type projectDTO struct {
	ID          string `json:"id"`
	ShortID     string `json:"short_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toProjectDTO(p *domain.Project) projectDTO {
	return projectDTO{ID: p.ID, ShortID: p.ShortID, Name: p.Name, Description: p.Description}
}

type tickDTO struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
}

type barDTO struct {
	ActivityID string  `json:"activity_id"`
	Name       string  `json:"name"`
	Owner      string  `json:"owner,omitempty"`
	Status     string  `json:"status"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	Row        int     `json:"row"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Milestone  bool    `json:"milestone"`
	Conflict   bool    `json:"conflict"`
}

type pointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type pathDTO struct {
	DependencyID string     `json:"dependency_id"`
	SourceID     string     `json:"source_id"`
	TargetID     string     `json:"target_id"`
	Type         string     `json:"type"`
	D            string     `json:"d"`
	Points       []pointDTO `json:"points"`
	Conflict     bool       `json:"conflict"`
	Backward     bool       `json:"backward"`
}

type dependencyDTO struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Type     string `json:"type"`
	Conflict bool   `json:"conflict"`
}

type chartDTO struct {
	Project      projectDTO      `json:"project"`
	Scale        string          `json:"scale"`
	Width        float64         `json:"width"`
	Height       float64         `json:"height"`
	PixelsPerDay float64         `json:"pixels_per_day"`
	Ticks        []tickDTO       `json:"ticks"`
	Bars         []barDTO        `json:"bars"`
	Paths        []pathDTO       `json:"paths"`
	Conflicts    []dependencyDTO `json:"conflicts"`
}

func toChartDTO(p *domain.Project, c *timeline.Chart) chartDTO {
	out := chartDTO{
		Project:      toProjectDTO(p),
		Scale:        string(c.Grid.Scale),
		Width:        c.Grid.TotalWidth,
		Height:       c.Height(),
		PixelsPerDay: c.Grid.PixelsPerDay,
		Ticks:        make([]tickDTO, 0, len(c.Grid.Ticks)),
		Bars:         make([]barDTO, 0, len(c.Bars)),
		Paths:        make([]pathDTO, 0, len(c.Paths)),
		Conflicts:    make([]dependencyDTO, 0),
	}
	for _, t := range c.Grid.Ticks {
		out.Ticks = append(out.Ticks, tickDTO{Date: domain.FormatDay(t.Date), Label: t.Label, X: t.X})
	}
	for i, b := range c.Bars {
		a := c.Rows[i]
		bar := barDTO{
			ActivityID: b.ActivityID,
			Name:       b.Name,
			Owner:      b.Owner,
			Status:     string(b.Status),
			StartDate:  domain.FormatDay(a.StartDate),
			Row:        b.Row,
			X:          b.X,
			Y:          b.Y,
			Width:      b.Width,
			Height:     b.Height,
			Milestone:  b.Milestone,
			Conflict:   b.Conflict,
		}
		if a.EndDate != nil {
			end := domain.FormatDay(*a.EndDate)
			bar.EndDate = &end
		}
		out.Bars = append(out.Bars, bar)
	}
	for _, p := range c.Paths {
		pd := pathDTO{
			DependencyID: p.DependencyID,
			SourceID:     p.SourceID,
			TargetID:     p.TargetID,
			Type:         string(p.Type),
			D:            p.D(),
			Points:       make([]pointDTO, 0, len(p.Points)),
			Conflict:     p.Conflict,
			Backward:     p.Backward,
		}
		for _, pt := range p.Points {
			pd.Points = append(pd.Points, pointDTO{X: pt.X, Y: pt.Y})
		}
		out.Paths = append(out.Paths, pd)
	}
	for _, s := range c.Conflicts() {
		out.Conflicts = append(out.Conflicts, toDependencyDTO(s))
	}
	return out
}

func toDependencyDTO(s scheduler.DependencyStatus) dependencyDTO {
	return dependencyDTO{
		ID:       s.Dependency.ID,
		SourceID: s.Dependency.SourceID,
		TargetID: s.Dependency.TargetID,
		Type:     string(s.Dependency.Type),
		Conflict: s.Conflict,
	}
}

type changeDTO struct {
	ActivityID string  `json:"activity_id"`
	OldStart   string  `json:"old_start"`
	OldEnd     *string `json:"old_end,omitempty"`
	NewStart   string  `json:"new_start"`
	NewEnd     *string `json:"new_end,omitempty"`
	ShiftDays  int     `json:"shift_days"`
}

type fixDTO struct {
	DryRun  bool        `json:"dry_run"`
	Order   []string    `json:"order"`
	Changes []changeDTO `json:"changes"`
}

func toFixDTO(res *scheduler.Resolution, dryRun bool) fixDTO {
	out := fixDTO{DryRun: dryRun, Order: res.Order, Changes: make([]changeDTO, 0, len(res.Changes))}
	for _, c := range res.Changes {
		out.Changes = append(out.Changes, changeDTO{
			ActivityID: c.ActivityID,
			OldStart:   domain.FormatDay(c.OldStart),
			OldEnd:     formatDayPtr(c.OldEnd),
			NewStart:   domain.FormatDay(c.NewStart),
			NewEnd:     formatDayPtr(c.NewEnd),
			ShiftDays:  c.ShiftDays(),
		})
	}
	return out
}

func formatDayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDay(*t)
	return &s
}
