package domain

import (
	"fmt"
	"strings"
)

type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "pending"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
)

// ValidActivityStatuses is the canonical set of accepted status strings.
var ValidActivityStatuses = map[string]bool{
	"pending": true, "in_progress": true, "completed": true,
}

// DependencyType identifies which endpoints of two activities a dependency
// constrains.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// DependencyTypes lists every supported type in display order.
var DependencyTypes = []DependencyType{FinishToStart, StartToStart, FinishToFinish, StartToFinish}

// Valid reports whether t is one of the four supported types.
func (t DependencyType) Valid() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Long returns the hyphenated long name, e.g. "finish-to-start".
func (t DependencyType) Long() string {
	switch t {
	case FinishToStart:
		return "finish-to-start"
	case StartToStart:
		return "start-to-start"
	case FinishToFinish:
		return "finish-to-finish"
	case StartToFinish:
		return "start-to-finish"
	}
	return string(t)
}

// ParseDependencyType accepts the short codes (FS, SS, FF, SF) in any case
// as well as the long hyphenated names.
func ParseDependencyType(s string) (DependencyType, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	switch norm {
	case "FS", "FINISH-TO-START", "FINISH_TO_START":
		return FinishToStart, nil
	case "SS", "START-TO-START", "START_TO_START":
		return StartToStart, nil
	case "FF", "FINISH-TO-FINISH", "FINISH_TO_FINISH":
		return FinishToFinish, nil
	case "SF", "START-TO-FINISH", "START_TO_FINISH":
		return StartToFinish, nil
	}
	return "", fmt.Errorf("unknown dependency type %q (expected FS, SS, FF or SF)", s)
}
