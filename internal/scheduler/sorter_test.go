package scheduler

import (
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalSort_StartDate(t *testing.T) {
	acts := []domain.Activity{
		act("c", "Late", "2024-01-10", "2024-01-12"),
		act("a", "Early", "2024-01-01", "2024-01-05"),
		act("b", "Middle", "2024-01-05", "2024-01-06"),
	}

	CanonicalSort(acts)

	assert.Equal(t, []string{"a", "b", "c"}, ids(acts))
}

func TestCanonicalSort_MilestoneBeforeBarSameDay(t *testing.T) {
	acts := []domain.Activity{
		act("bar", "Bar", "2024-01-01", "2024-01-05"),
		milestone("ms", "Kickoff", "2024-01-01"),
	}

	CanonicalSort(acts)

	assert.Equal(t, "ms", acts[0].ID, "shorter effective end sorts first")
}

func TestCanonicalSort_NameThenIDTiebreak(t *testing.T) {
	acts := []domain.Activity{
		act("2", "Same", "2024-01-01", "2024-01-02"),
		act("1", "Same", "2024-01-01", "2024-01-02"),
		act("0", "Alpha", "2024-01-01", "2024-01-02"),
	}

	CanonicalSort(acts)

	assert.Equal(t, []string{"0", "1", "2"}, ids(acts))
}

func TestSorted_DoesNotMutateInput(t *testing.T) {
	acts := []domain.Activity{
		act("b", "B", "2024-01-02", ""),
		act("a", "A", "2024-01-01", ""),
	}
	sorted := Sorted(acts)
	require.Len(t, sorted, 2)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", acts[0].ID)
}
