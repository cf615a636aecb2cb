package validator

import "github.com/velaware/njson/value"

// AdditionalPolicy controls how an object validator treats properties not
// named by `properties` or matched by `patternProperties` (spec §4.C).
type AdditionalPolicy int

const (
	AdditionalAllow  AdditionalPolicy = iota // additionalProperties absent or true
	AdditionalDeny                           // additionalProperties: false
	AdditionalSchema                         // additionalProperties: {...}
)

// RequiredValidator is the `required` keyword, kept as its own pluggable
// sub-validator rather than folded into ObjectValidator's struct literally,
// grounded on pbnjson's validation/object_required.c.
type RequiredValidator struct {
	Keys []string
}

// PropertiesValidator is the `properties` keyword, grounded on
// validation/object_properties.c.
type PropertiesValidator struct {
	ByName map[string]*Node
}

// PatternPropertiesValidator is the `patternProperties` keyword, grounded
// on validation/object_pattern_properties.c.
type PatternPropertiesValidator struct {
	Patterns []CompiledPattern
}

// CompiledPattern pairs a regex compiled at schema-load time with the
// sub-schema applied to properties whose name matches it.
type CompiledPattern struct {
	Source string
	Re     patternMatcher
	Node   *Node
}

// patternMatcher is satisfied by *regexp.Regexp; kept as an interface so
// tests can stub pattern matching cheaply.
type patternMatcher interface {
	MatchString(string) bool
}

// ObjectValidator composes the object-keyword sub-validators as siblings
// applied to the same node, mirroring pbnjson's combined_validator.c
// instead of one monolithic switch (SPEC_FULL §3).
type ObjectValidator struct {
	Required          *RequiredValidator
	Properties        *PropertiesValidator
	PatternProperties *PatternPropertiesValidator
	Additional        AdditionalPolicy
	AdditionalSchema  *Node
	MinProperties     *int
	MaxProperties     *int
}

// NewObjectValidator returns an ObjectValidator with additionalProperties
// implicitly allowed, matching Draft-4's default.
func NewObjectValidator() *ObjectValidator {
	return &ObjectValidator{Additional: AdditionalAllow}
}

// ValidateStructural checks the object-only keywords that don't require
// revalidating a property's own subtree: `required`, minProperties,
// maxProperties, and rejecting names outside properties/patternProperties
// when additionalProperties is false. additionalProperties' schema form is
// not checked here since it still requires recursing into the property's
// value; callers that have already validated each property individually
// as it was built (sax) don't need it repeated, but non-streaming callers
// do, so it stays in validate below.
func (ov *ObjectValidator) ValidateStructural(v *value.Value) []Failure {
	var out []Failure
	if ov.Required != nil {
		for _, k := range ov.Required.Keys {
			if !v.Has(k) {
				out = append(out, Failure{Code: CodeMissingRequired, Message: "missing required key " + k, SubPath: "/" + k})
			}
		}
	}
	out = append(out, boundedCount(v.Size(), ov.MinProperties, ov.MaxProperties, CodeTooFewItems, CodeTooManyItems)...)
	if ov.Additional == AdditionalDeny {
		for _, key := range v.Keys() {
			if _, matched := ov.schemaFor(key); !matched {
				out = append(out, Failure{Code: CodeUnknownProperty, Message: "unknown property " + key, SubPath: "/" + key})
			}
		}
	}
	return out
}

func (ov *ObjectValidator) validate(v *value.Value) []Failure {
	out := ov.ValidateStructural(v)

	for _, key := range v.Keys() {
		child := v.Get(key)
		matchedSchema, matched := ov.schemaFor(key)
		if matched {
			if matchedSchema != nil {
				for _, f := range matchedSchema.Validate(child) {
					f.SubPath = "/" + key + f.SubPath
					out = append(out, f)
				}
			}
			continue
		}
		if ov.Additional == AdditionalSchema && ov.AdditionalSchema != nil {
			for _, f := range ov.AdditionalSchema.Validate(child) {
				f.SubPath = "/" + key + f.SubPath
				out = append(out, f)
			}
		}
	}

	return out
}

// schemaFor resolves the sub-schema that applies to a property name. matched
// reports whether the key was claimed by its `properties` lookup or by any
// matching `patternProperties` regex (so additionalProperties is not
// consulted for it), even if no single schema applies (properties entry
// with a nil schema is still "claimed"). The schema returned is the
// non-nil `properties` entry if there is one, else the first matching
// pattern's; the schemas of further matching patterns are not applied.
func (ov *ObjectValidator) schemaFor(key string) (*Node, bool) {
	var found *Node
	matched := false
	if ov.Properties != nil {
		if n, ok := ov.Properties.ByName[key]; ok {
			found = n
			matched = true
		}
	}
	if ov.PatternProperties != nil {
		for _, p := range ov.PatternProperties.Patterns {
			if p.Re.MatchString(key) {
				matched = true
				if found == nil {
					found = p.Node
				}
			}
		}
	}
	return found, matched
}
