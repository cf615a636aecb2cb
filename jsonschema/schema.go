// Package jsonschema is the on-the-wire representation of a JSON-Schema
// Draft-4 document: the first pass of the two-pass compiler described in
// spec §4.F unmarshals raw schema bytes into a Schema tree using
// encoding/json (the teacher's own decode path, generalized from the DSL's
// export-only Schema struct into a full parse target covering every
// Draft-4 keyword, spec §6).
package jsonschema

import (
	"encoding/json"
	"fmt"
)

// Schema is the full Draft-4 schema document shape. Every keyword from
// spec §6 has a field; keywords this package does not recognize round-trip
// silently lost, matching Draft-4's "unknown keywords are annotations"
// stance.
type Schema struct {
	ID          string          `json:"id,omitempty"`
	Schema      string          `json:"$schema,omitempty"`
	Ref         string          `json:"$ref,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Default     json.RawMessage `json:"default,omitempty"`

	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`

	MaxLength *int   `json:"maxLength,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	AdditionalItems *SchemaOrBool  `json:"additionalItems,omitempty"`
	Items           *SchemaOrArray `json:"items,omitempty"`
	MaxItems        *int           `json:"maxItems,omitempty"`
	MinItems        *int           `json:"minItems,omitempty"`
	UniqueItems     bool           `json:"uniqueItems,omitempty"`

	MaxProperties         *int               `json:"maxProperties,omitempty"`
	MinProperties         *int               `json:"minProperties,omitempty"`
	Required              []string           `json:"required,omitempty"`
	AdditionalProperties  *SchemaOrBool      `json:"additionalProperties,omitempty"`
	Definitions           map[string]*Schema `json:"definitions,omitempty"`
	Properties            map[string]*Schema `json:"properties,omitempty"`
	PatternProperties     map[string]*Schema `json:"patternProperties,omitempty"`
	Dependencies          map[string]*Dependency `json:"dependencies,omitempty"`

	Enum []json.RawMessage `json:"enum,omitempty"`
	Type *TypeSet          `json:"type,omitempty"`

	Format string `json:"format,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`
}

// TypeSet holds the `type` keyword, which Draft-4 allows as either a
// single type name or an array of names.
type TypeSet struct {
	Names []string
}

func (t *TypeSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		t.Names = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		t.Names = many
		return nil
	}
	return fmt.Errorf("jsonschema: type must be a string or array of strings")
}

func (t TypeSet) MarshalJSON() ([]byte, error) {
	if len(t.Names) == 1 {
		return json.Marshal(t.Names[0])
	}
	return json.Marshal(t.Names)
}

// SchemaOrBool holds a keyword Draft-4 allows as either a boolean or a
// schema object: `additionalProperties` and `additionalItems`.
type SchemaOrBool struct {
	IsSchema bool
	Bool     bool
	Schema   *Schema
}

func (s *SchemaOrBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		s.IsSchema, s.Bool = false, b
		return nil
	}
	var sub Schema
	if err := json.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("jsonschema: additionalProperties/additionalItems must be a bool or schema: %w", err)
	}
	s.IsSchema, s.Schema = true, &sub
	return nil
}

func (s SchemaOrBool) MarshalJSON() ([]byte, error) {
	if s.IsSchema {
		return json.Marshal(s.Schema)
	}
	return json.Marshal(s.Bool)
}

// SchemaOrArray holds the `items` keyword, which Draft-4 allows as either a
// single schema applied to every element or an array of positional
// ("tuple") schemas.
type SchemaOrArray struct {
	Single *Schema
	Tuple  []*Schema
}

func (s *SchemaOrArray) UnmarshalJSON(data []byte) error {
	var tuple []*Schema
	if err := json.Unmarshal(data, &tuple); err == nil {
		s.Tuple = tuple
		return nil
	}
	var single Schema
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("jsonschema: items must be a schema or array of schemas: %w", err)
	}
	s.Single = &single
	return nil
}

func (s SchemaOrArray) MarshalJSON() ([]byte, error) {
	if s.Tuple != nil {
		return json.Marshal(s.Tuple)
	}
	return json.Marshal(s.Single)
}

// Dependency holds one value of the `dependencies` keyword, which Draft-4
// allows as either a sub-schema (applied to the whole object when the
// dependent key is present) or a list of property names that must also be
// present.
type Dependency struct {
	Schema *Schema
	Keys   []string
}

func (d *Dependency) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err == nil {
		d.Keys = keys
		return nil
	}
	var sub Schema
	if err := json.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("jsonschema: dependencies entry must be a schema or string array: %w", err)
	}
	d.Schema = &sub
	return nil
}

func (d Dependency) MarshalJSON() ([]byte, error) {
	if d.Schema != nil {
		return json.Marshal(d.Schema)
	}
	return json.Marshal(d.Keys)
}

// Parse unmarshals a raw Draft-4 schema document.
func Parse(raw []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("jsonschema: %w", err)
	}
	return &s, nil
}
