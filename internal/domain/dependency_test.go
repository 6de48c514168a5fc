package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependency_Validate(t *testing.T) {
	ok := Dependency{SourceID: "a", TargetID: "b", Type: FinishToStart}
	assert.NoError(t, ok.Validate())

	self := Dependency{SourceID: "a", TargetID: "a", Type: FinishToStart}
	err := self.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")

	unknown := Dependency{SourceID: "a", TargetID: "b", Type: "XX"}
	assert.Error(t, unknown.Validate())

	missing := Dependency{SourceID: "a", Type: FinishToStart}
	assert.Error(t, missing.Validate())
}

func TestParseDependencyType(t *testing.T) {
	tests := []struct {
		in   string
		want DependencyType
	}{
		{"FS", FinishToStart},
		{"ss", StartToStart},
		{"finish-to-finish", FinishToFinish},
		{" START_TO_FINISH ", StartToFinish},
	}
	for _, tt := range tests {
		got, err := ParseDependencyType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseDependencyType("lag")
	assert.Error(t, err)
}

func TestDependencyType_Long(t *testing.T) {
	assert.Equal(t, "start-to-finish", StartToFinish.Long())
	assert.True(t, FinishToFinish.Valid())
	assert.False(t, DependencyType("").Valid())
}
