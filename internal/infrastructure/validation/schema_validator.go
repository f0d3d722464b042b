// Package validation provides infrastructure for validating profiles: JSON
// schema checks and validation plans.
package validation

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
)

// SchemaValidator validates profile documents against their type schema
// using JSON Schema (draft 2020-12). Compiled schemas are cached by content.
type SchemaValidator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

var _ ports.SchemaValidator = (*SchemaValidator)(nil)

// NewSchemaValidator creates a schema validator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{cache: make(map[string]*jsonschema.Schema)}
}

// Validate returns one message per violation. The name, type and
// dependencies keys are not part of the schema and are ignored. When
// sentinel is set, secure properties also accept it as a value. Strict
// rejects undeclared top-level properties.
func (v *SchemaValidator) Validate(
	schema *entities.ProfileSchema,
	profile entities.Profile,
	strict bool,
	sentinel string,
) ([]string, error) {
	if schema == nil {
		return nil, fmt.Errorf("no schema supplied")
	}

	compiled, err := v.compile(BuildSchemaDocument(schema, strict, sentinel))
	if err != nil {
		return nil, err
	}

	instance, err := toJSONInstance(profile)
	if err != nil {
		return nil, err
	}

	var violations []string
	if err := compiled.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}
		violations = append(violations, schemaViolations(validationErr)...)
	}

	violations = append(violations, emptyRequired(schema.Properties, schema.Required, instance, "")...)
	return violations, nil
}

func (v *SchemaValidator) compile(doc map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	v.mu.RLock()
	cached, ok := v.cache[key]
	v.mu.RUnlock()
	if ok {
		return cached, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	url := "profile-" + key + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	v.mu.Lock()
	v.cache[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// BuildSchemaDocument converts a profile schema into a JSON Schema document.
func BuildSchemaDocument(schema *entities.ProfileSchema, strict bool, sentinel string) map[string]any {
	doc := map[string]any{
		"type":       "object",
		"properties": buildProperties(schema.Properties, sentinel),
	}
	if len(schema.Required) > 0 {
		doc["required"] = services.CopyStringSlice(schema.Required)
	}
	if strict || (schema.AdditionalProperties != nil && !*schema.AdditionalProperties) {
		doc["additionalProperties"] = false
	}
	return doc
}

func buildProperties(props map[string]*entities.ProfileProperty, sentinel string) map[string]any {
	out := make(map[string]any, len(props))
	for name, prop := range props {
		if prop == nil {
			continue
		}
		out[name] = buildProperty(prop, sentinel)
	}
	return out
}

func buildProperty(prop *entities.ProfileProperty, sentinel string) map[string]any {
	doc := make(map[string]any)
	acceptSentinel := prop.Secure && sentinel != ""

	if prop.Type != "" {
		if acceptSentinel && prop.Type != "string" {
			doc["type"] = []string{prop.Type, "string"}
		} else {
			doc["type"] = prop.Type
		}
	}
	if len(prop.Properties) > 0 {
		doc["properties"] = buildProperties(prop.Properties, sentinel)
	}
	if len(prop.Required) > 0 {
		doc["required"] = services.CopyStringSlice(prop.Required)
	}
	if prop.Items != nil {
		doc["items"] = buildProperty(prop.Items, "")
	}
	if len(prop.Enum) > 0 {
		enum := make([]any, 0, len(prop.Enum)+1)
		enum = append(enum, prop.Enum...)
		if acceptSentinel {
			enum = append(enum, sentinel)
		}
		doc["enum"] = enum
	}
	return doc
}

// toJSONInstance strips identity keys and converts the document into the
// shapes encoding/json produces, which is what the validator expects.
func toJSONInstance(profile entities.Profile) (map[string]any, error) {
	stripped := services.CopyMap(profile)
	delete(stripped, entities.KeyName)
	delete(stripped, entities.KeyType)
	delete(stripped, entities.KeyDependencies)

	data, err := json.Marshal(stripped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile for validation: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode profile for validation: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// schemaViolations flattens the error tree into its leaf messages.
func schemaViolations(err *jsonschema.ValidationError) []string {
	var messages []string
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
			return
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)
	sort.Strings(messages)
	return messages
}

// emptyRequired reports required properties present with a blank string.
func emptyRequired(
	props map[string]*entities.ProfileProperty,
	required []string,
	instance map[string]any,
	prefix string,
) []string {
	var out []string
	for _, name := range required {
		v, ok := instance[name]
		if !ok {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			out = append(out, fmt.Sprintf("%s/%s: required property must not be empty", prefix, name))
		}
	}
	for _, name := range entities.SortedPropertyNames(props) {
		prop := props[name]
		if prop == nil || len(prop.Properties) == 0 {
			continue
		}
		nested, ok := instance[name].(map[string]any)
		if !ok {
			continue
		}
		out = append(out, emptyRequired(prop.Properties, prop.Required, nested, prefix+"/"+name)...)
	}
	return out
}
