package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructure_Valid(t *testing.T) {
	doc := `{
		"project": {"short_id": "WEB01", "name": "Website"},
		"activities": [
			{"name": "Design", "start_date": "2024-01-01", "end_date": "2024-01-10"},
			{"name": "Launch", "start_date": "2024-01-15", "end_date": null}
		],
		"dependencies": [{"source": "0", "target": "1", "type": "FS"}]
	}`
	assert.Empty(t, ValidateStructure([]byte(doc)))
}

func TestValidateStructure_Violations(t *testing.T) {
	doc := `{
		"project": {"name": "Website"},
		"activities": [
			{"name": "Design", "start_date": "Jan 1", "colour": "red"}
		]
	}`
	errs := ValidateStructure([]byte(doc))
	require.NotEmpty(t, errs)
	msg := joinErrs(errs)
	assert.Contains(t, msg, "project")
	assert.Contains(t, msg, "activities[0]")
}

func TestValidateStructure_NotJSON(t *testing.T) {
	errs := ValidateStructure([]byte(`{"project":`))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid JSON")
}

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan([]byte(`{
		"project": {"short_id": "WEB01", "name": "Website"},
		"activities": [{"name": "Design", "start_date": "2024-01-01"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Website", plan.Project.Name)
	require.Len(t, plan.Activities, 1)
	assert.Nil(t, plan.Activities[0].EndDate)

	_, err = ParsePlan([]byte(`{"activities": []}`))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestJSONPointerToPath(t *testing.T) {
	assert.Equal(t, "", jsonPointerToPath(""))
	assert.Equal(t, "activities[0].start_date", jsonPointerToPath("/activities/0/start_date"))
	assert.Equal(t, "project", jsonPointerToPath("/project"))
}
