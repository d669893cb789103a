package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var nullableString = map[string]any{"type": []string{"string", "null"}}

var nullableStringList = map[string]any{
	"type":  []string{"array", "null"},
	"items": map[string]any{"type": "string"},
}

// A student's name is its identity, so it must be a non-blank string.
var studentName = map[string]any{"type": "string", "minLength": 1, "pattern": `\S`}

// StudentsSchema describes the students document. Apart from name, every
// per-student key is optional so older or hand-edited files still load;
// only types are checked.
var StudentsSchema = map[string]any{
	"type":     "object",
	"required": []string{"students"},
	"properties": map[string]any{
		"students": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"name"},
				"properties": map[string]any{
					"name":                  studentName,
					"academic_status":       nullableString,
					"employed":              map[string]any{"type": []string{"boolean", "null"}},
					"job_details":           nullableString,
					"programming_languages": nullableStringList,
					"databases":             nullableStringList,
					"preferred_role":        nullableString,
					"whitelist":             map[string]any{"type": []string{"boolean", "null"}},
					"blacklist":             map[string]any{"type": []string{"boolean", "null"}},
					"comments": map[string]any{
						"type": []string{"array", "null"},
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"created_at_date": nullableString,
								"comment_text":    nullableString,
							},
						},
					},
				},
			},
		},
	},
}

// Validator checks raw documents against JSON schemas, caching each
// compiled schema.
type Validator struct {
	cache sync.Map // map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks document against schemaData, which may be any value that
// marshals to a JSON schema.
func (v *Validator) Validate(schemaData any, document []byte) error {
	schema, err := v.compile(schemaData)
	if err != nil {
		return fmt.Errorf("invalid schema definition: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed:\n- %s", summarize(errs))
}

func (v *Validator) compile(schemaData any) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(schemaData)
	if err != nil {
		return nil, err
	}
	key := string(raw)
	if cached, ok := v.cache.Load(key); ok {
		return cached.(*gojsonschema.Schema), nil
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	v.cache.Store(key, schema)
	return schema, nil
}

// summarize keeps the first three errors.
func summarize(errs []string) string {
	if len(errs) <= 3 {
		return strings.Join(errs, "\n- ")
	}
	return strings.Join(errs[:3], "\n- ") + fmt.Sprintf("\n... and %d more", len(errs)-3)
}

var defaultValidator = NewValidator()

// ValidateStudentsDocument reports whether data is a well-formed students
// document.
func ValidateStudentsDocument(data []byte) error {
	return defaultValidator.Validate(StudentsSchema, data)
}
