// Package validator implements the compiled JSON-Schema (Draft-4) validator
// tree of spec §4.C: one node type per JSON type plus combinators, built by
// applying features (single keywords) after construction.
package validator

import (
	"regexp"

	"github.com/velaware/njson/value"
)

// Code mirrors the enumerated validation error codes of spec §4.E. The
// string values match the root package's CodeXxx constants exactly so sax
// can translate a Failure into an Issue without importing this package's
// constants by name.
type Code string

const (
	CodeTypeMismatch     Code = "type_mismatch"
	CodeMissingRequired  Code = "missing_required_key"
	CodeTooFewItems      Code = "too_few_items"
	CodeTooManyItems     Code = "too_many_items"
	CodePatternMismatch  Code = "pattern_mismatch"
	CodeEnumMismatch     Code = "enum_mismatch"
	CodeUniqueViolation  Code = "unique_violation"
	CodeUnknownProperty  Code = "unknown_property"
	CodeUnresolvedRef    Code = "unresolved_ref"
	CodeCombinatorFailed Code = "combinator_failed"
	CodeTooSmall         Code = "too_small"
	CodeTooBig           Code = "too_big"
	CodeTooShort         Code = "too_short"
	CodeTooLong          Code = "too_long"
	CodeInternal         Code = "internal_error"
	CodeInvalidFormat    Code = "invalid_format"
)

// Failure is a single validation rejection, positioned relative to the
// frame that produced it. The sax package prefixes SubPath with that
// frame's path.
type Failure struct {
	Code    Code
	Message string
	SubPath string // relative JSON Pointer segment, "" for the node itself
}

// JSONType names the seven types `type` may constrain to.
type JSONType string

const (
	TypeNull    JSONType = "null"
	TypeBoolean JSONType = "boolean"
	TypeObject  JSONType = "object"
	TypeArray   JSONType = "array"
	TypeNumber  JSONType = "number"
	TypeInteger JSONType = "integer"
	TypeString  JSONType = "string"
)

// Node is one compiled validator. Only the fields relevant to the node's
// constraints are populated; the zero value accepts anything (spec's
// schema-less "any" validator, SPEC_FULL §3).
type Node struct {
	ID          string // resolved absolute URI of this schema object, if any
	Title       string
	Description string
	FormatName  string

	Types []JSONType // empty means unconstrained

	HasEnum bool
	Enum    []*value.Value

	HasDefault bool
	Default    *value.Value

	AllOf []*Node
	AnyOf []*Node
	OneOf []*Node
	Not   *Node

	Ref *RefNode

	Object *ObjectValidator
	Array  *ArrayValidator
	Str    *StringValidator
	Num    *NumberValidator
}

// RefNode is a deferred $ref placeholder, wired up by Resolve (spec §4.D).
type RefNode struct {
	RawURI   string
	Resolved *Node
}

// Any returns the permissive validator that accepts every input
// (SPEC_FULL §3's schema-less passthrough mode, grounded on pbnjson's
// jschema_all).
func Any() *Node { return &Node{} }

// allowsType checks `type` against the JSON kind of an already-built
// Value, accounting for the Draft-4 "integer" pseudo-type (a number with
// no fractional part).
func (n *Node) allowsType(v *value.Value) bool {
	if len(n.Types) == 0 {
		return true
	}
	kind := jsonTypeOf(v)
	isIntegerValued := kind == TypeInteger
	for _, t := range n.Types {
		switch {
		case t == kind:
			return true
		case t == TypeNumber && isIntegerValued:
			return true
		}
	}
	return false
}

func jsonTypeOf(v *value.Value) JSONType {
	switch v.Kind() {
	case value.KindNull:
		return TypeNull
	case value.KindBool:
		return TypeBoolean
	case value.KindObject:
		return TypeObject
	case value.KindArray:
		return TypeArray
	case value.KindString:
		return TypeString
	case value.KindNumber:
		num, _ := v.Number()
		if f, st := num.AsFloat64(); st.OK() && f == float64(int64(f)) {
			if _, ist := num.AsInt64(); ist.OK() {
				return TypeInteger
			}
		}
		return TypeNumber
	default:
		return TypeNull
	}
}

// Validate checks an already-constructed Value against this node and its
// descendants, returning every Failure found (not short-circuited), each
// tagged with a relative SubPath from the node's own position.
//
// Non-streaming callers (schema.Schema.Validate, kubeopenapi, the compile
// tests) use this: the whole value is already in memory, so there is
// nothing to gain by not re-walking it.
func (n *Node) Validate(v *value.Value) []Failure {
	if n.Ref != nil {
		if n.Ref.Resolved == nil {
			return []Failure{{Code: CodeUnresolvedRef, Message: "$ref " + n.Ref.RawURI + " did not resolve"}}
		}
		return n.Ref.Resolved.Validate(v)
	}
	out := n.validateCommon(v)
	if n.Array != nil && v.IsArray() {
		out = append(out, n.Array.validate(v)...)
	}
	if n.Object != nil && v.IsObject() {
		out = append(out, n.Object.validate(v)...)
	}
	out = append(out, n.validateCombinators(v)...)
	return out
}

// ValidateSelf checks this node's own keywords against v without recursing
// into per-property/per-item sub-schemas. sax's frame stack (§4.E) already
// validates each child against its own schema the moment that child's
// value is complete, so by the time a container's closing token arrives
// only the container-level keywords (required, counts, uniqueItems,
// additionalProperties) remain to check here; re-running the full
// recursive Validate at every enclosing frame's close would report each
// child's failures once per ancestor.
//
// allOf/anyOf/oneOf/not still run full Validate on their branches: each
// branch is an independent schema being matched against the same v, not a
// second pass over v's own properties/items.
func (n *Node) ValidateSelf(v *value.Value) []Failure {
	if n.Ref != nil {
		if n.Ref.Resolved == nil {
			return []Failure{{Code: CodeUnresolvedRef, Message: "$ref " + n.Ref.RawURI + " did not resolve"}}
		}
		return n.Ref.Resolved.ValidateSelf(v)
	}
	out := n.validateCommon(v)
	if n.Array != nil && v.IsArray() {
		out = append(out, n.Array.ValidateStructural(v)...)
	}
	if n.Object != nil && v.IsObject() {
		out = append(out, n.Object.ValidateStructural(v)...)
	}
	out = append(out, n.validateCombinators(v)...)
	return out
}

// validateCommon checks the keywords shared by every JSON type: `type`,
// `enum`, and the scalar string/number validators.
func (n *Node) validateCommon(v *value.Value) []Failure {
	var out []Failure
	if !n.allowsType(v) {
		out = append(out, Failure{Code: CodeTypeMismatch, Message: "value does not match `type`"})
	}
	if n.HasEnum {
		matched := false
		for _, e := range n.Enum {
			if value.Equal(e, v) {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, Failure{Code: CodeEnumMismatch, Message: "value not in `enum`"})
		}
	}
	if n.Str != nil && v.IsString() {
		out = append(out, n.Str.validate(v)...)
	}
	if n.Num != nil && v.IsNumber() {
		out = append(out, n.Num.validate(v)...)
	}
	return out
}

func (n *Node) validateCombinators(v *value.Value) []Failure {
	var out []Failure
	for i, child := range n.AllOf {
		for _, f := range child.Validate(v) {
			f.Message = "allOf[" + itoa(i) + "]: " + f.Message
			out = append(out, f)
		}
	}
	if len(n.AnyOf) > 0 {
		ok := false
		for _, child := range n.AnyOf {
			if len(child.Validate(v)) == 0 {
				ok = true
				break
			}
		}
		if !ok {
			out = append(out, Failure{Code: CodeCombinatorFailed, Message: "no branch of anyOf accepted the value"})
		}
	}
	if len(n.OneOf) > 0 {
		count := 0
		for _, child := range n.OneOf {
			if len(child.Validate(v)) == 0 {
				count++
			}
		}
		if count != 1 {
			out = append(out, Failure{Code: CodeCombinatorFailed, Message: "oneOf requires exactly one matching branch"})
		}
	}
	if n.Not != nil {
		if len(n.Not.Validate(v)) == 0 {
			out = append(out, Failure{Code: CodeCombinatorFailed, Message: "value must not match `not` schema"})
		}
	}
	return out
}

// boundedCount applies a [min,max] bound to a running count, factoring the
// minItems/maxItems/minLength/maxLength/minProperties/maxProperties
// keywords into one helper (SPEC_FULL §3, grounded on pbnjson's
// count_feature.c).
func boundedCount(n int, min, max *int, tooFew, tooMany Code) []Failure {
	var out []Failure
	if min != nil && n < *min {
		out = append(out, Failure{Code: tooFew, Message: "count below minimum"})
	}
	if max != nil && n > *max {
		out = append(out, Failure{Code: tooMany, Message: "count above maximum"})
	}
	return out
}

func compilePattern(pat string) (*regexp.Regexp, error) {
	return regexp.Compile(pat)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	bp := len(buf)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		bp--
		buf[bp] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		bp--
		buf[bp] = '-'
	}
	return string(buf[bp:])
}
