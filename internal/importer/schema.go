package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Plan is the top-level JSON structure for project import and export.
type Plan struct {
	Project      ProjectPlan      `json:"project"`
	Activities   []ActivityPlan   `json:"activities"`
	Dependencies []DependencyPlan `json:"dependencies,omitempty"`
}

// ProjectPlan defines the project-level fields.
type ProjectPlan struct {
	ShortID     string `json:"short_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ActivityPlan defines one activity. EndDate is omitted for milestones.
type ActivityPlan struct {
	Ref       string  `json:"ref,omitempty"`
	Name      string  `json:"name"`
	Owner     string  `json:"owner,omitempty"`
	Status    string  `json:"status,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
}

// DependencyPlan links two activities. Source and Target are resolved, in
// order, against activity refs, zero-based positions in the activities list,
// and activity names.
type DependencyPlan struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}

// LoadPlan reads, structurally validates and parses a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlan(data)
}

// ParsePlan validates data against the plan JSON Schema and decodes it.
// Schema violations are reported together as a *ValidationError.
func ParsePlan(data []byte) (*Plan, error) {
	if errs := ValidateStructure(data); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}
