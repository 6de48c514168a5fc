package scheduler

import (
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetectConflict_TruthTable(t *testing.T) {
	tests := []struct {
		name string
		from domain.Activity
		to   domain.Activity
		typ  domain.DependencyType
		want bool
	}{
		{"FS violated", act("a", "A", "2024-02-01", "2024-02-10"), act("b", "B", "2024-02-05", "2024-02-20"), domain.FinishToStart, true},
		{"FS satisfied", act("a", "A", "2024-02-01", "2024-02-10"), act("b", "B", "2024-02-15", "2024-02-20"), domain.FinishToStart, false},
		{"FS touching is fine", act("a", "A", "2024-02-01", "2024-02-10"), act("b", "B", "2024-02-10", "2024-02-20"), domain.FinishToStart, false},
		{"FF violated", act("a", "A", "2024-02-01", "2024-02-25"), act("b", "B", "2024-02-05", "2024-02-20"), domain.FinishToFinish, true},
		{"FF satisfied", act("a", "A", "2024-02-01", "2024-02-10"), act("b", "B", "2024-02-05", "2024-02-20"), domain.FinishToFinish, false},
		{"SS violated", act("a", "A", "2024-02-08", "2024-02-10"), act("b", "B", "2024-02-05", "2024-02-20"), domain.StartToStart, true},
		{"SS satisfied", act("a", "A", "2024-02-01", "2024-02-10"), act("b", "B", "2024-02-05", "2024-02-20"), domain.StartToStart, false},
		{"SF violated", act("a", "A", "2024-02-21", "2024-02-28"), act("b", "B", "2024-02-05", "2024-02-20"), domain.StartToFinish, true},
		{"SF satisfied", act("a", "A", "2024-02-01", "2024-02-28"), act("b", "B", "2024-02-05", "2024-02-20"), domain.StartToFinish, false},
		{"unknown type never conflicts", act("a", "A", "2024-02-21", "2024-02-28"), act("b", "B", "2024-02-05", "2024-02-20"), "XX", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectConflict(tt.from, tt.to, tt.typ))
		})
	}
}

func TestDetectConflict_MilestoneEndFallsBackToStart(t *testing.T) {
	from := milestone("m", "Launch", "2024-03-10")
	to := act("b", "After", "2024-03-05", "2024-03-20")

	assert.True(t, DetectConflict(from, to, domain.FinishToStart), "milestone end is its start")

	to = milestone("n", "Review", "2024-03-09")
	assert.True(t, DetectConflict(from, to, domain.FinishToFinish))
	assert.False(t, DetectConflict(to, from, domain.FinishToFinish))
}

func TestEvaluateDependencies(t *testing.T) {
	acts := []domain.Activity{
		act("a", "A", "2024-01-01", "2024-01-10"),
		act("b", "B", "2024-01-05", "2024-01-15"),
		act("c", "C", "2024-01-20", "2024-01-25"),
	}
	deps := []domain.Dependency{
		dep("d1", "a", "b", domain.FinishToStart),
		dep("d2", "b", "c", domain.FinishToStart),
		dep("d3", "a", "gone", domain.FinishToStart),
	}

	statuses := EvaluateDependencies(acts, deps)

	assert.Len(t, statuses, 3)
	assert.True(t, statuses[0].Conflict)
	assert.False(t, statuses[1].Conflict)
	assert.True(t, statuses[2].Inert, "missing target is inert")
	assert.False(t, statuses[2].Conflict)

	conflicting := Conflicting(statuses)
	assert.Len(t, conflicting, 1)
	assert.Equal(t, "d1", conflicting[0].Dependency.ID)

	marked := ConflictedActivities(statuses)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, marked)
}
