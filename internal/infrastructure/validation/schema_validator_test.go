package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zowe/imperative-go/internal/domain/entities"
)

func fruitSchema() *entities.ProfileSchema {
	return &entities.ProfileSchema{
		Type:     "object",
		Required: []string{"age"},
		Properties: map[string]*entities.ProfileProperty{
			"age":    {Type: "number"},
			"rotten": {Type: "boolean"},
			"pin":    {Type: "number", Secure: true},
			"owner": {
				Type:     "object",
				Required: []string{"name"},
				Properties: map[string]*entities.ProfileProperty{
					"name": {Type: "string"},
				},
			},
		},
	}
}

func joined(v []string) string {
	return strings.Join(v, "\n")
}

func Test_SchemaValidator_Valid(t *testing.T) {
	t.Parallel()
	v := NewSchemaValidator()

	violations, err := v.Validate(fruitSchema(), entities.Profile{
		"name":   "x",
		"type":   "fruit",
		"age":    1,
		"rotten": true,
		"dependencies": []any{
			map[string]any{"type": "tree", "name": "apple"},
		},
	}, false, "")
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func Test_SchemaValidator_MissingRequired(t *testing.T) {
	t.Parallel()
	v := NewSchemaValidator()

	violations, err := v.Validate(fruitSchema(), entities.Profile{
		"name":   "x",
		"type":   "fruit",
		"rotten": true,
	}, false, "")
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.Contains(t, joined(violations), "age")
}

func Test_SchemaValidator_AggregatesAllViolations(t *testing.T) {
	t.Parallel()
	v := NewSchemaValidator()

	violations, err := v.Validate(fruitSchema(), entities.Profile{
		"rotten": "yes",
		"owner":  map[string]any{"name": "  "},
	}, false, "")
	require.NoError(t, err)

	all := joined(violations)
	assert.Contains(t, all, "age")
	assert.Contains(t, all, "/rotten")
	assert.Contains(t, all, "/owner/name: required property must not be empty")
	assert.GreaterOrEqual(t, len(violations), 3)
}

func Test_SchemaValidator_Strict(t *testing.T) {
	t.Parallel()
	v := NewSchemaValidator()
	profile := entities.Profile{"name": "x", "type": "fruit", "age": 1, "colour": "red"}

	violations, err := v.Validate(fruitSchema(), profile, false, "")
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = v.Validate(fruitSchema(), profile, true, "")
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.Contains(t, joined(violations), "colour")
}

func Test_SchemaValidator_AdditionalPropertiesFalse(t *testing.T) {
	t.Parallel()
	v := NewSchemaValidator()
	schema := fruitSchema()
	closed := false
	schema.AdditionalProperties = &closed

	violations, err := v.Validate(schema, entities.Profile{"age": 1, "colour": "red"}, false, "")
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
}

func Test_SchemaValidator_SecureAcceptsSentinel(t *testing.T) {
	t.Parallel()
	v := NewSchemaValidator()
	profile := entities.Profile{"age": 1, "pin": "managed by vault"}

	violations, err := v.Validate(fruitSchema(), profile, false, "managed by vault")
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = v.Validate(fruitSchema(), profile, false, "")
	require.NoError(t, err)
	assert.NotEmpty(t, violations, "without a sentinel the string is a type violation")
}

func Test_SchemaValidator_CachesCompiledSchemas(t *testing.T) {
	t.Parallel()
	v := NewSchemaValidator()

	for i := 0; i < 3; i++ {
		_, err := v.Validate(fruitSchema(), entities.Profile{"age": i}, false, "")
		require.NoError(t, err)
	}
	_, err := v.Validate(fruitSchema(), entities.Profile{"age": 1}, true, "")
	require.NoError(t, err)

	v.mu.RLock()
	defer v.mu.RUnlock()
	assert.Len(t, v.cache, 2)
}

func Test_SchemaValidator_NilSchema(t *testing.T) {
	t.Parallel()
	_, err := NewSchemaValidator().Validate(nil, entities.Profile{}, false, "")
	assert.Error(t, err)
}

func Test_BuildSchemaDocument(t *testing.T) {
	t.Parallel()
	doc := BuildSchemaDocument(fruitSchema(), true, "managed by vault")

	assert.Equal(t, false, doc["additionalProperties"])
	props := doc["properties"].(map[string]any)
	assert.Equal(t, []string{"number", "string"}, props["pin"].(map[string]any)["type"])
	assert.Equal(t, "number", props["age"].(map[string]any)["type"])
}
