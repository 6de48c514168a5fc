package domain

import (
	"time"

	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

// Dependency is a directed edge from a source (predecessor) activity to a
// target (successor) activity. Whether it is currently violated is never
// stored; it is derived from the endpoint dates on every read.
type Dependency struct {
	ID        string
	ProjectID string
	SourceID  string
	TargetID  string
	Type      DependencyType
	CreatedAt time.Time
}

// Validate rejects self-loops, missing endpoints and unknown types.
func (d *Dependency) Validate() error {
	if d.SourceID == "" || d.TargetID == "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "dependency requires both a source and a target activity")
	}
	if d.SourceID == d.TargetID {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "activity %s cannot depend on itself", d.SourceID)
	}
	if !d.Type.Valid() {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "unknown dependency type %q", d.Type)
	}
	return nil
}
