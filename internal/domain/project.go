package domain

import (
	"regexp"
	"strings"
	"time"

	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

// A project is a chart: its activities are the rows and its dependencies
// the arrows between them.
type Project struct {
	ID          string
	ShortID     string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Short IDs are 3-6 upper-case letters then 2-4 digits, e.g. WEB01.
var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// CheckShortID reports why id cannot name a project.
func CheckShortID(id string) error {
	switch {
	case id == "":
		return gerrors.New(gerrors.ErrCodeInvalidInput, "short ID is required (use --id)")
	case !shortIDPattern.MatchString(id):
		return gerrors.New(gerrors.ErrCodeInvalidInput,
			"short ID %q must be 3-6 uppercase letters followed by 2-4 digits, like WEB01", id)
	}
	return nil
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "project name is required")
	}
	return CheckShortID(p.ShortID)
}

// DisplayID is the short ID, or the first 8 characters of the UUID for
// projects created before short IDs existed.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	return p.ID[:min(8, len(p.ID))]
}
