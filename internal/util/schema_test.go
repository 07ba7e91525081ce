package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleParams struct {
	Name    string  `json:"name" description:"the name"`
	Count   int     `json:"count"`
	Ratio   float64 `json:"ratio,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`
	hidden  string
}

// hidden is unexported on purpose: CreateSchema must skip it.
var _ = sampleParams{}.hidden

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleParams{})

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 4)

	name, ok := props["name"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", name["type"])
	assert.Equal(t, "the name", name["description"])

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"name", "count"}, required)
}

func TestCreateSchemaNonStruct(t *testing.T) {
	schema := CreateSchema("not a struct")
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateParametersMissingRequired(t *testing.T) {
	schema := CreateSchema(sampleParams{})
	err := ValidateParameters(map[string]any{"count": 1}, schema)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestValidateParametersTypeMismatch(t *testing.T) {
	schema := CreateSchema(sampleParams{})
	err := ValidateParameters(map[string]any{"name": "x", "count": "three"}, schema)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "count", vErr.Field)
}

func TestValidateParametersAcceptsJSONNumbers(t *testing.T) {
	schema := CreateSchema(sampleParams{})
	// JSON unmarshaling yields float64 for every number.
	err := ValidateParameters(map[string]any{"name": "x", "count": float64(3)}, schema)
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{"name": "x", "count": float64(3.5)}, schema)
	assert.Error(t, err)
}

func TestValidateParametersIgnoresExtraFields(t *testing.T) {
	schema := CreateSchema(sampleParams{})
	err := ValidateParameters(map[string]any{"name": "x", "count": 1, "stream": true}, schema)
	assert.NoError(t, err)
}
