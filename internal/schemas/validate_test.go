package schemas

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSchema_ValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(ProfileSchema()), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateProfile_Valid(t *testing.T) {
	doc := `{
		"basics": {"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com"},
		"education": [{"institution": "State University", "degree": "BS"}],
		"applicationPreferences": {"isOver18": true, "ethnicity": "Asian"},
		"resumeFiles": [{"id": "r1", "fileName": "resume.pdf", "fileData": "JVBERi0="}]
	}`
	assert.NoError(t, ValidateProfile([]byte(doc)))
}

func TestValidateProfile_MissingBasics(t *testing.T) {
	err := ValidateProfile([]byte(`{"education": []}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, err.Error(), "basics")
}

func TestValidateProfile_WrongType(t *testing.T) {
	err := ValidateProfile([]byte(`{"basics": {}, "applicationPreferences": {"isOver18": "yes"}}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Errors[0].Field, "isOver18")
}

func TestValidateProfile_ResumeFileMissingData(t *testing.T) {
	err := ValidateProfile([]byte(`{"basics": {}, "resumeFiles": [{"id": "r1", "fileName": "a.pdf"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fileData")
}

func TestValidateProfile_MalformedDocument(t *testing.T) {
	err := ValidateProfile([]byte(`{ not json`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
