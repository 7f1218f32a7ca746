package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is the structural contract downstream consumers rely on.
const Schema = `{
  "type": "object",
  "properties": {
    "data": {
      "type": "object",
      "properties": {
        "category": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "id": {"type": "integer"},
              "title": {"type": "string"},
              "description": {"type": "string"}
            },
            "required": ["id", "title", "description"]
          }
        },
        "sub_category": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "id": {"type": "integer"},
              "catId": {"type": "integer"},
              "title": {"type": "string"},
              "description": {"type": "string"}
            },
            "required": ["id", "catId", "title", "description"]
          }
        },
        "items": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "itemId": {"type": "integer"},
              "subCatId": {"type": "integer"},
              "title": {"type": "string"},
              "description": {"type": "string"},
              "price": {"type": "number"},
              "variantAvailable": {"type": "integer", "enum": [0, 1]},
              "variants": {"type": "array"},
              "optionsAvailable": {"type": "integer", "enum": [0, 1]},
              "options": {"type": "array"}
            },
            "required": ["itemId", "subCatId", "title", "description", "price",
                         "variantAvailable", "variants", "optionsAvailable", "options"]
          }
        }
      },
      "required": ["category", "sub_category", "items"]
    }
  },
  "required": ["data"]
}`

const schemaURL = "menu.schema.json"

// Validator checks candidate documents against Schema. It is compiled once
// and safe to share between requests.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
		return nil, fmt.Errorf("failed to load menu schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile menu schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateValue validates an already decoded JSON value.
func (v *Validator) ValidateValue(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ValidationError{Message: err.Error(), Err: err}
	}
	leaf := deepestCause(verr)
	path := leaf.InstanceLocation
	if path == "" {
		path = "/"
	}
	return &ValidationError{Path: path, Message: leaf.Message, Err: err}
}

// ValidateDocument validates the JSON form of doc.
func (v *Validator) ValidateDocument(doc *Document) error {
	if doc == nil {
		return &ValidationError{Path: "/", Message: "document is nil"}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return v.ValidateValue(decoded)
}

func deepestCause(e *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(e.Causes) > 0 {
		e = e.Causes[0]
	}
	return e
}
