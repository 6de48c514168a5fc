package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

// ValidationError carries every problem found in a plan.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "plan validation failed (%d errors):", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// ErrorCode implements errors.Coder.
func (e *ValidationError) ErrorCode() gerrors.Code {
	return gerrors.ErrCodeInvalidInput
}

// ValidatePlan checks the plan for semantic errors before conversion.
// Returns all validation errors found.
func ValidatePlan(plan *Plan) []error {
	var errs []error

	errs = append(errs, validateProject(&plan.Project)...)
	errs = append(errs, validateActivities(plan.Activities)...)

	refs, refErrs := buildRefIndex(plan.Activities)
	errs = append(errs, refErrs...)
	errs = append(errs, validateDependencies(plan.Dependencies, refs)...)

	return errs
}

func validateProject(p *ProjectPlan) []error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if err := domain.CheckShortID(strings.ToUpper(p.ShortID)); err != nil {
		errs = append(errs, fmt.Errorf("project.short_id: %w", err))
	}
	return errs
}

func validateActivities(acts []ActivityPlan) []error {
	var errs []error
	for i, a := range acts {
		prefix := fmt.Sprintf("activities[%d]", i)

		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if a.Status != "" && !domain.ValidActivityStatuses[a.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, a.Status))
		}

		start, startErr := domain.ParseDay(a.StartDate)
		if a.StartDate == "" {
			errs = append(errs, fmt.Errorf("%s.start_date is required", prefix))
		} else if startErr != nil {
			errs = append(errs, fmt.Errorf("%s.start_date: %w", prefix, startErr))
		}

		if a.EndDate != nil && *a.EndDate != "" {
			end, err := domain.ParseDay(*a.EndDate)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.end_date: %w", prefix, err))
			} else if startErr == nil && end.Before(start) {
				errs = append(errs, fmt.Errorf("%s.end_date %q is before start_date %q", prefix, *a.EndDate, a.StartDate))
			}
		}
	}
	return errs
}

// refIndex resolves dependency endpoints to activity positions.
type refIndex struct {
	byRef  map[string]int
	byName map[string][]int
	count  int
}

func buildRefIndex(acts []ActivityPlan) (refIndex, []error) {
	idx := refIndex{
		byRef:  make(map[string]int),
		byName: make(map[string][]int),
		count:  len(acts),
	}
	var errs []error
	for i, a := range acts {
		if a.Ref != "" {
			if _, dup := idx.byRef[a.Ref]; dup {
				errs = append(errs, fmt.Errorf("activities[%d].ref: duplicate ref %q", i, a.Ref))
			} else {
				idx.byRef[a.Ref] = i
			}
		}
		idx.byName[a.Name] = append(idx.byName[a.Name], i)
	}
	return idx, errs
}

func (idx refIndex) resolve(ref string) (int, error) {
	if i, ok := idx.byRef[ref]; ok {
		return i, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 || n >= idx.count {
			return 0, fmt.Errorf("index %d out of range (have %d activities)", n, idx.count)
		}
		return n, nil
	}
	switch matches := idx.byName[ref]; len(matches) {
	case 0:
		return 0, fmt.Errorf("ref %q not found in activities", ref)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("name %q is ambiguous (%d activities share it)", ref, len(matches))
	}
}

func validateDependencies(deps []DependencyPlan, refs refIndex) []error {
	var errs []error
	var edges [][2]int

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		src, srcErr := refs.resolve(d.Source)
		if srcErr != nil {
			errs = append(errs, fmt.Errorf("%s.source: %w", prefix, srcErr))
		}
		tgt, tgtErr := refs.resolve(d.Target)
		if tgtErr != nil {
			errs = append(errs, fmt.Errorf("%s.target: %w", prefix, tgtErr))
		}
		if d.Type != "" {
			if _, err := domain.ParseDependencyType(d.Type); err != nil {
				errs = append(errs, fmt.Errorf("%s.type: %w", prefix, err))
			}
		}

		if srcErr == nil && tgtErr == nil {
			if src == tgt {
				errs = append(errs, fmt.Errorf("%s: self-dependency (source == target == %q)", prefix, d.Source))
				continue
			}
			edges = append(edges, [2]int{src, tgt})
		}
	}

	if len(edges) > 1 {
		errs = append(errs, detectCycles(edges)...)
	}
	return errs
}

func detectCycles(edges [][2]int) []error {
	graph := make(map[int][]int)
	var order []int
	seen := make(map[int]bool)
	for _, e := range edges {
		graph[e[0]] = append(graph[e[0]], e[1])
		for _, n := range e {
			if !seen[n] {
				seen[n] = true
				order = append(order, n)
			}
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[int]int)
	var errs []error

	var visit func(node int) bool
	visit = func(node int) bool {
		color[node] = gray
		for _, next := range graph[node] {
			if color[next] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected involving activities[%d] and activities[%d]", node, next))
				return true
			}
			if color[next] == white && visit(next) {
				return true
			}
		}
		color[node] = black
		return false
	}

	for _, node := range order {
		if color[node] == white {
			visit(node)
		}
	}
	return errs
}
