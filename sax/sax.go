// Package sax implements the streaming validate-while-parsing entry point
// of spec §4.E: it drives a token source through a compiled
// schema/validator.Node tree using an explicit stack of frames, one per
// open object or array, validating each value against its own schema the
// moment that value's closing token arrives rather than deferring every
// check to a single post-hoc walk of the finished DOM.
//
// Object frames track the EXPECT_KEY_OR_END / EXPECT_VALUE state named by
// spec §4.E directly; array frames track the next element index. A frame
// validates its own container-level keywords (required, property/item
// counts, uniqueItems, additionalProperties/additionalItems denial) via
// validator.Node.ValidateSelf as soon as its closing token is seen —
// scalars and nested containers below it have already been checked
// against their own schemas by the time they were Put/Appended in. This
// gives FailFast a real early exit: once any frame records a failure, the
// runner stops pulling further tokens from src instead of finishing the
// document first, grounded on
// original_source/pbnjson_c/validation/object_validator.c's
// prepare_default_properties/validation_state_issue_default_property for
// default injection, adapted here to run per-frame instead of once.
package sax

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/velaware/njson/keydict"
	"github.com/velaware/njson/schema/validator"
	"github.com/velaware/njson/value"

	eng "github.com/velaware/njson/internal/engine"
)

// Presence mirrors the root package's Presence bitflags without importing
// it, avoiding an import cycle between sax and njson.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota
	PresenceWasNull
	PresenceDefaultApplied
)

// PresenceMap maps JSON Pointers to Presence flags collected during a run.
type PresenceMap map[string]Presence

// Issue is a single validation rejection with its full JSON Pointer path
// already resolved (validator.Failure.SubPath is built up that way as
// failures bubble out of a frame's own ValidateSelf call).
type Issue struct {
	Path    string
	Code    validator.Code
	Message string
}

// NumberMode mirrors dom.NumberMode without importing the dom package by
// name, so callers can configure number construction without reaching
// into an internal package; sax.Run translates it when calling dom.
type NumberMode int

const (
	NumberRaw NumberMode = iota
	NumberInt64
	NumberFloat64
)

// Options configures Run/ValidateOnly.
type Options struct {
	NumberMode      NumberMode
	KeyDict         *keydict.Dict
	AllowNaN        bool
	InjectDefaults  bool // spec §4.E default-injection
	FailFast        bool // stop consuming tokens at the first Issue found
	CollectPresence bool
}

// BuildError reports a syntactic failure while consuming the token source,
// distinct from a validation Issue (spec §7's SYNTAX vs VALIDATION split).
type BuildError struct {
	Path    string
	Message string
	Offset  int64
	Cause   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s at %s (offset %d)", e.Message, e.Path, e.Offset)
}

func (e *BuildError) Unwrap() error { return e.Cause }

// errFailFast unwinds the frame stack once FailFast is set and a failure
// has been recorded; it is never returned to a caller of Run.
var errFailFast = errors.New("sax: fail-fast stop")

// objState names an object frame's position per spec §4.E.
type objState int

const (
	objExpectKeyOrEnd objState = iota
	objExpectValue
)

// frame is one entry of the validation state machine's stack: a
// container's position while its tokens are still being consumed (object
// key/value state, or the next array index).
type frame struct {
	state objState // object frames only
	idx   int      // array frames only
}

// runner holds the state threaded through one Run call: the token source,
// the live frame stack, and the Issues/presence accumulated so far.
type runner struct {
	src      eng.TokenSource
	opt      Options
	presence PresenceMap
	issues   []Issue
	stack    []*frame
	aborted  bool
}

// Run builds a DOM value from src while injecting schema defaults,
// validating each value against node (or the schema matching its
// position) as soon as that value is complete, returning the built value
// (retained; caller must Release it), the Issues found, and a presence
// map if requested.
func Run(src eng.TokenSource, node *validator.Node, opt Options) (*value.Value, []Issue, PresenceMap, error) {
	r := &runner{src: src, opt: opt}
	if opt.CollectPresence {
		r.presence = PresenceMap{}
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, nil, nil, ioErr(src, err, "")
	}
	v, err := r.pushValue(tok, node, "")
	if err != nil && err != errFailFast {
		return nil, r.issues, r.presence, err
	}
	return v, r.issues, r.presence, nil
}

// ValidateOnly runs the same build-and-validate pass but releases the
// built value before returning, so the caller never has to manage DOM
// lifetime (SPEC_FULL §3's schema-less-DOM-avoidance supplement, scoped to
// "the caller never retains a reference" — the per-frame checks below
// still require materializing each subtree to validate it, just not the
// whole document before the first check runs).
func ValidateOnly(src eng.TokenSource, node *validator.Node, opt Options) ([]Issue, error) {
	v, issues, _, err := Run(src, node, opt)
	if v != nil {
		v.Release()
	}
	return issues, err
}

func ioErr(src eng.TokenSource, err error, path string) error {
	if err == io.EOF {
		return &BuildError{Path: path, Message: "unexpected end of input", Offset: src.Location(), Cause: err}
	}
	return &BuildError{Path: path, Message: "lexer error", Offset: src.Location(), Cause: err}
}

// record appends a node's own-level failures as path-qualified Issues.
// Under FailFast, only the first failure of this call is kept and the run
// is marked aborted, so enclosing frames stop pulling further tokens as
// soon as they next check r.aborted instead of finishing the document.
func (r *runner) record(path string, failures []validator.Failure) {
	if len(failures) == 0 {
		return
	}
	if r.opt.FailFast {
		f := failures[0]
		r.issues = append(r.issues, Issue{Path: path + f.SubPath, Code: f.Code, Message: f.Message})
		r.aborted = true
		return
	}
	for _, f := range failures {
		r.issues = append(r.issues, Issue{Path: path + f.SubPath, Code: f.Code, Message: f.Message})
	}
}

func (r *runner) pushFrame(f *frame) { r.stack = append(r.stack, f) }
func (r *runner) popFrame()          { r.stack = r.stack[:len(r.stack)-1] }

// pushValue consumes the single token that starts a value (tok has
// already been read) and returns the built, already-validated Value.
// Containers recurse via pushObject/pushArray, which push a frame onto
// r.stack for the duration of their own construction.
func (r *runner) pushValue(tok eng.Token, node *validator.Node, path string) (*value.Value, error) {
	if node != nil && node.Ref != nil && node.Ref.Resolved != nil {
		node = node.Ref.Resolved
	}
	switch tok.Kind {
	case eng.KindBeginObject:
		return r.pushObject(node, path)
	case eng.KindBeginArray:
		return r.pushArray(node, path)
	case eng.KindString:
		markPresence(r.presence, path, PresenceSeen)
		v := value.NewString(tok.String)
		r.record(path, validateSelf(node, v))
		return v, nil
	case eng.KindNumber:
		markPresence(r.presence, path, PresenceSeen)
		v := buildNumber(tok.Number, r.opt)
		r.record(path, validateSelf(node, v))
		return v, nil
	case eng.KindBool:
		markPresence(r.presence, path, PresenceSeen)
		v := value.NewBool(tok.Bool)
		r.record(path, validateSelf(node, v))
		return v, nil
	case eng.KindNull:
		markPresence(r.presence, path, PresenceSeen|PresenceWasNull)
		r.record(path, validateSelf(node, value.Null))
		return value.Null, nil
	default:
		return nil, &BuildError{Path: path, Message: "unexpected token", Offset: tok.Offset}
	}
}

func validateSelf(node *validator.Node, v *value.Value) []validator.Failure {
	if node == nil {
		return nil
	}
	return node.ValidateSelf(v)
}

func buildNumber(lexeme string, opt Options) *value.Value {
	switch opt.NumberMode {
	case NumberInt64:
		if v, ok := tryParseInt64(lexeme); ok {
			return value.NewNumberFromInt64(v)
		}
	case NumberFloat64:
		if f, ok := tryParseFloat64(lexeme); ok {
			if nv, ok := value.NewNumberFromFloat64(f, opt.AllowNaN); ok {
				return nv
			}
		}
	}
	return value.NewNumberFromText(lexeme)
}

// pushObject drives one object frame through EXPECT_KEY_OR_END /
// EXPECT_VALUE per spec §4.E, dispatching each token against the current
// state rather than reading a key and its value as one unit: a KindKey
// token arriving while the frame expects a value (which a well-formed
// TokenSource never produces) falls through to pushValue's default case
// and is rejected as a BuildError, the same way any other out-of-place
// token is.
func (r *runner) pushObject(node *validator.Node, path string) (*value.Value, error) {
	markPresence(r.presence, path, PresenceSeen)
	fr := &frame{state: objExpectKeyOrEnd}
	r.pushFrame(fr)
	defer r.popFrame()

	obj := value.NewObject()
	var pendingKey string
	var pendingPath string
	var pendingNode *validator.Node
	for {
		if r.aborted {
			return obj, errFailFast
		}
		tok, err := r.src.NextToken()
		if err != nil {
			return nil, ioErr(r.src, err, path)
		}
		switch fr.state {
		case objExpectKeyOrEnd:
			if tok.Kind == eng.KindEndObject {
				injectDefaults(obj, node, path, r.opt, r.presence)
				r.record(path, validateSelf(node, obj))
				return obj, nil
			}
			if tok.Kind != eng.KindKey {
				return nil, &BuildError{Path: path, Message: "expected object key", Offset: tok.Offset}
			}
			key := tok.String
			if r.opt.KeyDict != nil {
				key = r.opt.KeyDict.Intern(key)
			}
			pendingKey = key
			pendingPath = joinPointer(path, key)
			pendingNode = propertyNode(node, key)
			fr.state = objExpectValue
		case objExpectValue:
			val, err := r.pushValue(tok, pendingNode, pendingPath)
			if val != nil {
				obj.Put(pendingKey, val)
			}
			if err != nil {
				if err == errFailFast {
					return obj, errFailFast
				}
				return nil, err
			}
			fr.state = objExpectKeyOrEnd
		}
	}
}

// pushArray drives one array frame, tracking the next element index on
// the frame itself rather than a bare local variable, matching the
// object-frame shape above.
func (r *runner) pushArray(node *validator.Node, path string) (*value.Value, error) {
	markPresence(r.presence, path, PresenceSeen)
	fr := &frame{}
	r.pushFrame(fr)
	defer r.popFrame()

	arr := value.NewArray()
	for {
		if r.aborted {
			return arr, errFailFast
		}
		tok, err := r.src.NextToken()
		if err != nil {
			return nil, ioErr(r.src, err, path)
		}
		if tok.Kind == eng.KindEndArray {
			r.record(path, validateSelf(node, arr))
			return arr, nil
		}
		childPath := joinPointerIndex(path, fr.idx)
		childNode := itemNode(node, fr.idx)
		val, err := r.pushValue(tok, childNode, childPath)
		if val != nil {
			arr.Append(val)
		}
		if err != nil {
			if err == errFailFast {
				return arr, errFailFast
			}
			return nil, err
		}
		fr.idx++
	}
}

// propertyNode resolves the schema applicable to an object property,
// mirroring schema/validator's ObjectValidator.schemaFor without needing
// access to that unexported method (the fields it reads are exported).
func propertyNode(node *validator.Node, key string) *validator.Node {
	if node == nil || node.Object == nil {
		return nil
	}
	ov := node.Object
	if ov.Properties != nil {
		if n, ok := ov.Properties.ByName[key]; ok {
			return n
		}
	}
	if ov.PatternProperties != nil {
		for _, p := range ov.PatternProperties.Patterns {
			if p.Re.MatchString(key) {
				return p.Node
			}
		}
	}
	if ov.Additional == validator.AdditionalSchema {
		return ov.AdditionalSchema
	}
	return nil
}

// itemNode resolves the schema applicable to an array element at idx.
func itemNode(node *validator.Node, idx int) *validator.Node {
	if node == nil || node.Array == nil {
		return nil
	}
	av := node.Array
	if av.Items != nil {
		return av.Items
	}
	if idx < len(av.TupleItems) {
		return av.TupleItems[idx]
	}
	if av.AdditionalItems == validator.AdditionalItemsSchema {
		return av.AdditionalNode
	}
	return nil
}

// injectDefaults writes every `default` of a property schema not already
// present in obj, per spec §4.E, marking PresenceDefaultApplied instead of
// PresenceSeen so a caller distinguishes synthesized data from input data.
func injectDefaults(obj *value.Value, node *validator.Node, path string, opt Options, presence PresenceMap) {
	if !opt.InjectDefaults || node == nil || node.Object == nil || node.Object.Properties == nil {
		return
	}
	for name, child := range node.Object.Properties.ByName {
		if child == nil || !child.HasDefault || obj.Has(name) {
			continue
		}
		obj.Put(name, value.Duplicate(child.Default))
		markPresence(presence, joinPointer(path, name), PresenceDefaultApplied)
	}
}

func markPresence(presence PresenceMap, path string, flags Presence) {
	if presence == nil {
		return
	}
	presence[path] |= flags
}

func joinPointer(base, token string) string {
	esc := escapePointerToken(token)
	if base == "" {
		return "/" + esc
	}
	return base + "/" + esc
}

func joinPointerIndex(base string, i int) string {
	return joinPointer(base, itoa(i))
}

func escapePointerToken(s string) string {
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

func tryParseInt64(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func tryParseFloat64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
