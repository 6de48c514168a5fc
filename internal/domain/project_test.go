package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

func TestCheckShortID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr string
	}{
		{id: "WEB01"},
		{id: "LAUNCH2024"},
		{id: "ABCDEF01"},
		{id: "", wantErr: "required"},
		{id: "web01", wantErr: "uppercase"},
		{id: "AB1", wantErr: "uppercase"},
		{id: "RELEASE", wantErr: "digits"},
		{id: "WEB12345", wantErr: "digits"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := CheckShortID(tt.id)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, gerrors.Is(err, gerrors.ErrCodeInvalidInput))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProject_Validate(t *testing.T) {
	p := &Project{Name: "Website", ShortID: "WEB01"}
	assert.NoError(t, p.Validate())

	p.Name = "  "
	assert.ErrorContains(t, p.Validate(), "name is required")

	p = &Project{Name: "Website", ShortID: "web"}
	assert.ErrorContains(t, p.Validate(), "INVALID_INPUT")
}

func TestProject_DisplayID(t *testing.T) {
	assert.Equal(t, "WEB01", (&Project{ID: "550e8400-e29b-41d4", ShortID: "WEB01"}).DisplayID())
	assert.Equal(t, "550e8400", (&Project{ID: "550e8400-e29b-41d4"}).DisplayID())
	assert.Equal(t, "abc", (&Project{ID: "abc"}).DisplayID())
}
