// Package schema is the compiler façade of spec §4.F: it turns a raw
// Draft-4 schema document into a compiled schema/validator.Node tree,
// generalizing the teacher's two-pass dsl/object_core.go
// Parse-then-TypeCheck/RuleCheck shape into schema-document compilation
// instead of struct-tag reflection.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/velaware/njson/dom"
	"github.com/velaware/njson/jsonschema"
	"github.com/velaware/njson/schema/meta"
	"github.com/velaware/njson/schema/uriscope"
	"github.com/velaware/njson/schema/validator"
	jsonsrc "github.com/velaware/njson/source/json"
	"github.com/velaware/njson/value"
)

// Schema is a compiled Draft-4 schema, ready for repeated validation.
type Schema struct {
	Root     *validator.Node
	registry *uriscope.Registry
	baseURI  string
}

// Validate runs v (an already-built DOM value) through the compiled tree.
func (s *Schema) Validate(v *value.Value) []validator.Failure {
	return s.Root.Validate(v)
}

// CompileOptions configures Compile.
type CompileOptions struct {
	// BaseURI seeds the root scope when the document has no top-level `id`.
	BaseURI string
	// Resolver fetches documents referenced by an absolute $ref that is not
	// already known, per spec §4.D.
	Resolver uriscope.Resolver
	// AllowUnresolvedRefs permits Compile to succeed even if some $ref could
	// not be wired; Validate then fails any value that reaches that node
	// via schema/validator's CodeUnresolvedRef.
	AllowUnresolvedRefs bool
	// FormatCheckers enforces the named `format` keywords it lists (e.g.
	// "date-time" via package codec's RFC3339 checker) instead of leaving
	// them advisory-only, per spec §4.C.
	FormatCheckers map[string]validator.FormatChecker
}

// Compile parses raw as a Draft-4 schema document and builds its validator
// tree. Compile failures are schema-class errors per spec §4.E distinct
// from the validation-class failures Validate returns.
func Compile(raw []byte, opt CompileOptions) (*Schema, error) {
	doc, err := jsonschema.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}

	base := opt.BaseURI
	if doc.ID != "" {
		base = doc.ID
	}
	if doc.Schema != "" {
		if _, known := meta.Lookup(doc.Schema); !known {
			return nil, fmt.Errorf("schema: unrecognized $schema %q", doc.Schema)
		}
	}

	c := &compiler{registry: uriscope.New(opt.Resolver), scope: uriscope.NewScope(base), formatCheckers: opt.FormatCheckers}
	root, err := c.compile(doc, "#")
	if err != nil {
		return nil, err
	}

	if unresolved := c.registry.Resolve(c.compileFetched); len(unresolved) > 0 && !opt.AllowUnresolvedRefs {
		return nil, fmt.Errorf("schema: unresolved $ref: %v", unresolved)
	}

	return &Schema{Root: root, registry: c.registry, baseURI: base}, nil
}

// ParseYAML compiles a Draft-4 schema document supplied as YAML instead of
// JSON (SPEC_FULL §2): it decodes with yaml.v3 into `any`, re-marshals
// through encoding/json, and hands the result to Compile, reusing every
// union-typed keyword's JSON UnmarshalJSON method rather than duplicating
// that logic for a YAML decoder.
func ParseYAML(raw []byte, opt CompileOptions) (*Schema, error) {
	var doc any
	if err := yamlv3.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("schema: yaml: %w", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: yaml: re-marshal: %w", err)
	}
	return Compile(asJSON, opt)
}

// compiler carries the mutable state threaded through one compile pass: the
// URI registry every compiled node registers into (so $ref can find it
// later) and the base-URI scope stack descended while walking `id`-bearing
// subschemas.
type compiler struct {
	registry       *uriscope.Registry
	scope          *uriscope.Scope
	formatCheckers map[string]validator.FormatChecker
}

// compileFetched compiles a resolver-fetched document under its own base
// URI, registering every node it produces into the shared registry so a
// pending $ref into it can be wired by the same Resolve pass that
// triggered the fetch.
func (c *compiler) compileFetched(raw []byte, base string) error {
	doc, err := jsonschema.Parse(raw)
	if err != nil {
		return err
	}
	sub := &compiler{registry: c.registry, scope: uriscope.NewScope(base), formatCheckers: c.formatCheckers}
	_, err = sub.compile(doc, "#")
	return err
}

// compile walks s and its descendants, registering every subschema that
// could be the target of a $ref (the node itself, plus everything under
// `definitions`/`properties`/`patternProperties`/combinators) under its
// JSON-Pointer fragment, and returns the compiled node for s.
func (c *compiler) compile(s *jsonschema.Schema, pointer string) (*validator.Node, error) {
	if s == nil {
		return validator.Any(), nil
	}

	base := c.scope.Current()
	if s.ID != "" {
		resolved, err := c.scope.Push(s.ID)
		if err != nil {
			return nil, err
		}
		defer c.scope.Pop()
		base = resolved
	}

	n := &validator.Node{ID: base, Title: s.Title, Description: s.Description, FormatName: s.Format}

	if s.Ref != "" {
		doc, frag, err := uriscope.SplitRef(base, s.Ref)
		if err != nil {
			return nil, err
		}
		ref := &validator.RefNode{RawURI: s.Ref}
		n.Ref = ref
		c.registry.DeferRef(ref, doc, frag)
		c.registry.AddValidator(base, pointer, n)
		return n, nil
	}

	if s.Type != nil {
		for _, name := range s.Type.Names {
			n.Types = append(n.Types, validator.JSONType(name))
		}
	}

	if len(s.Enum) > 0 {
		n.HasEnum = true
		for _, raw := range s.Enum {
			v, err := buildValue(raw)
			if err != nil {
				return nil, fmt.Errorf("schema: enum: %w", err)
			}
			n.Enum = append(n.Enum, v)
		}
	}

	if len(s.Default) > 0 {
		v, err := buildValue(s.Default)
		if err != nil {
			return nil, fmt.Errorf("schema: default: %w", err)
		}
		n.HasDefault = true
		n.Default = v
	}

	var err error
	if n.AllOf, err = c.compileList(s.AllOf, pointer, "allOf"); err != nil {
		return nil, err
	}
	if n.AnyOf, err = c.compileList(s.AnyOf, pointer, "anyOf"); err != nil {
		return nil, err
	}
	if n.OneOf, err = c.compileList(s.OneOf, pointer, "oneOf"); err != nil {
		return nil, err
	}
	if s.Not != nil {
		if n.Not, err = c.compile(s.Not, pointer+"/not"); err != nil {
			return nil, err
		}
	}

	if hasStringKeywords(s) {
		str := &validator.StringValidator{MinLength: s.MinLength, MaxLength: s.MaxLength, Format: s.Format}
		if s.Format != "" {
			str.Checker = c.formatCheckers[s.Format]
		}
		if s.Pattern != "" {
			re, err := compileRegexp(s.Pattern)
			if err != nil {
				return nil, fmt.Errorf("schema: pattern: %w", err)
			}
			str.Pattern = re
		}
		n.Str = str
	}

	if hasNumberKeywords(s) {
		n.Num = &validator.NumberValidator{
			Minimum:          s.Minimum,
			Maximum:          s.Maximum,
			ExclusiveMinimum: s.ExclusiveMinimum,
			ExclusiveMaximum: s.ExclusiveMaximum,
			MultipleOf:       s.MultipleOf,
		}
	}

	if hasArrayKeywords(s) {
		av := &validator.ArrayValidator{
			MinItems:    s.MinItems,
			MaxItems:    s.MaxItems,
			UniqueItems: s.UniqueItems,
		}
		if s.Items != nil {
			if s.Items.Single != nil {
				if av.Items, err = c.compile(s.Items.Single, pointer+"/items"); err != nil {
					return nil, err
				}
			} else {
				for i, item := range s.Items.Tuple {
					child, err := c.compile(item, pointer+"/items/"+itoa(i))
					if err != nil {
						return nil, err
					}
					av.TupleItems = append(av.TupleItems, child)
				}
			}
		}
		if s.AdditionalItems != nil {
			if s.AdditionalItems.IsSchema {
				av.AdditionalItems = validator.AdditionalItemsSchema
				if av.AdditionalNode, err = c.compile(s.AdditionalItems.Schema, pointer+"/additionalItems"); err != nil {
					return nil, err
				}
			} else if !s.AdditionalItems.Bool {
				av.AdditionalItems = validator.AdditionalItemsDeny
			}
		}
		n.Array = av
	}

	if hasObjectKeywords(s) {
		ov := validator.NewObjectValidator()
		ov.MinProperties = s.MinProperties
		ov.MaxProperties = s.MaxProperties
		if len(s.Required) > 0 {
			ov.Required = &validator.RequiredValidator{Keys: s.Required}
		}
		if len(s.Properties) > 0 {
			ov.Properties = &validator.PropertiesValidator{ByName: map[string]*validator.Node{}}
			for name, sub := range s.Properties {
				child, err := c.compile(sub, pointer+"/properties/"+escapePointer(name))
				if err != nil {
					return nil, err
				}
				ov.Properties.ByName[name] = child
			}
		}
		if len(s.PatternProperties) > 0 {
			ov.PatternProperties = &validator.PatternPropertiesValidator{}
			for pat, sub := range s.PatternProperties {
				re, err := compileRegexp(pat)
				if err != nil {
					return nil, fmt.Errorf("schema: patternProperties: %w", err)
				}
				child, err := c.compile(sub, pointer+"/patternProperties/"+escapePointer(pat))
				if err != nil {
					return nil, err
				}
				ov.PatternProperties.Patterns = append(ov.PatternProperties.Patterns, validator.CompiledPattern{Source: pat, Re: re, Node: child})
			}
		}
		if s.AdditionalProperties != nil {
			if s.AdditionalProperties.IsSchema {
				ov.Additional = validator.AdditionalSchema
				if ov.AdditionalSchema, err = c.compile(s.AdditionalProperties.Schema, pointer+"/additionalProperties"); err != nil {
					return nil, err
				}
			} else if !s.AdditionalProperties.Bool {
				ov.Additional = validator.AdditionalDeny
			}
		}
		n.Object = ov
	}

	for name, sub := range s.Definitions {
		if _, err := c.compile(sub, pointer+"/definitions/"+escapePointer(name)); err != nil {
			return nil, err
		}
	}

	c.registry.AddValidator(base, pointer, n)
	return n, nil
}

func (c *compiler) compileList(list []*jsonschema.Schema, pointer, keyword string) ([]*validator.Node, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]*validator.Node, 0, len(list))
	for i, sub := range list {
		child, err := c.compile(sub, pointer+"/"+keyword+"/"+itoa(i))
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func hasStringKeywords(s *jsonschema.Schema) bool {
	return s.MinLength != nil || s.MaxLength != nil || s.Pattern != "" || isType(s, "string")
}

func hasNumberKeywords(s *jsonschema.Schema) bool {
	return s.Minimum != nil || s.Maximum != nil || s.MultipleOf != nil || isType(s, "number") || isType(s, "integer")
}

func hasArrayKeywords(s *jsonschema.Schema) bool {
	return s.Items != nil || s.MinItems != nil || s.MaxItems != nil || s.UniqueItems || s.AdditionalItems != nil || isType(s, "array")
}

func hasObjectKeywords(s *jsonschema.Schema) bool {
	return len(s.Properties) > 0 || len(s.PatternProperties) > 0 || len(s.Required) > 0 ||
		s.AdditionalProperties != nil || s.MinProperties != nil || s.MaxProperties != nil || isType(s, "object")
}

func isType(s *jsonschema.Schema, name string) bool {
	if s.Type == nil {
		return false
	}
	for _, n := range s.Type.Names {
		if n == name {
			return true
		}
	}
	return false
}

// buildValue parses a raw JSON literal (from `enum`/`default`) into a
// value.Value using the same DOM builder the runtime parse path uses, so
// schema-declared constants compare equal to parsed input via value.Equal.
func buildValue(raw []byte) (*value.Value, error) {
	src := jsonsrc.NewBytes(raw)
	b := dom.New(dom.Options{NumberMode: dom.NumberRaw})
	return b.Build(src)
}

func compileRegexp(pat string) (*regexp.Regexp, error) {
	return regexp.Compile(pat)
}

func escapePointer(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	bp := len(buf)
	for i > 0 {
		bp--
		buf[bp] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[bp:])
}
