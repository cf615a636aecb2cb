package njson

import (
	"io"

	"github.com/velaware/njson/keydict"
	"github.com/velaware/njson/sax"
	"github.com/velaware/njson/schema"
	"github.com/velaware/njson/schema/validator"
	yamlsrc "github.com/velaware/njson/source/yaml"
	"github.com/velaware/njson/value"
)

// Schema is a compiled Draft-4 document, ready for repeated use against
// many inputs (spec §4.F). It wraps schema.Schema so callers of this
// package never need to import the compiler package directly.
type Schema struct {
	compiled *schema.Schema
}

// SchemaOption configures CompileSchema.
type SchemaOption func(*schema.CompileOptions)

// WithBaseURI seeds the root $id scope used to resolve relative $ref values
// when the schema document itself carries no top-level "id".
func WithBaseURI(uri string) SchemaOption {
	return func(o *schema.CompileOptions) { o.BaseURI = uri }
}

// WithResolver supplies a callback used to fetch documents referenced by an
// absolute $ref not already known to the compiler (spec §4.D).
func WithResolver(fn func(uri string) ([]byte, error)) SchemaOption {
	return func(o *schema.CompileOptions) { o.Resolver = fn }
}

// WithAllowUnresolvedRefs lets CompileSchema succeed even when some $ref
// could not be wired; any value that reaches that node fails validation
// with CodeUnresolvedRef instead of failing at compile time.
func WithAllowUnresolvedRefs(b bool) SchemaOption {
	return func(o *schema.CompileOptions) { o.AllowUnresolvedRefs = b }
}

// WithFormatChecker enforces the named `format` keyword using fn instead of
// leaving it advisory-only (spec §4.C); see package codec for ready-made
// checkers such as codec.RFC3339.
func WithFormatChecker(name string, fn validator.FormatChecker) SchemaOption {
	return func(o *schema.CompileOptions) {
		if o.FormatCheckers == nil {
			o.FormatCheckers = map[string]validator.FormatChecker{}
		}
		o.FormatCheckers[name] = fn
	}
}

// CompileSchema parses raw as a Draft-4 schema document and builds its
// validator tree (spec §4.F). The result is safe for concurrent use across
// goroutines validating different inputs.
func CompileSchema(raw []byte, opts ...SchemaOption) (*Schema, error) {
	var o schema.CompileOptions
	for _, fn := range opts {
		fn(&o)
	}
	c, err := schema.Compile(raw, o)
	if err != nil {
		return nil, toSchemaIssue(err)
	}
	return &Schema{compiled: c}, nil
}

// CompileSchemaYAML is the YAML counterpart of CompileSchema (SPEC_FULL
// §2): a schema document supplied as YAML instead of JSON.
func CompileSchemaYAML(raw []byte, opts ...SchemaOption) (*Schema, error) {
	var o schema.CompileOptions
	for _, fn := range opts {
		fn(&o)
	}
	c, err := schema.ParseYAML(raw, o)
	if err != nil {
		return nil, toSchemaIssue(err)
	}
	return &Schema{compiled: c}, nil
}

// Parse decodes input against sch, building the resulting DOM value and
// injecting schema defaults per opt (spec §4.E). The caller owns the
// returned value and must call Release on it.
func Parse(input []byte, sch *Schema, opts ...Option) (*value.Value, Issues, error) {
	return ParseSource(JSONBytes(input), sch, opts...)
}

// ParseReader is the io.Reader counterpart of Parse.
func ParseReader(r io.Reader, sch *Schema, opts ...Option) (*value.Value, Issues, error) {
	return ParseSource(JSONReader(r), sch, opts...)
}

// ParseSource is the Source-driven counterpart of Parse, for callers
// supplying a custom lexer (spec §1's "lexer as external collaborator").
func ParseSource(src Source, sch *Schema, opts ...Option) (*value.Value, Issues, error) {
	opt := buildParseOpt(opts...)
	enforced := EnforceSourceIfNeeded(src, opt)
	engSrc := EngineTokenSource(enforced)

	v, saxIssues, _, err := sax.Run(engSrc, rootNode(sch), toSaxOptions(opt))
	if err != nil {
		return nil, nil, toBuildIssue(err)
	}
	return v, fromSaxIssues(saxIssues), nil
}

// Validate decodes input against sch and reports only the validation
// Issues found, releasing the intermediate DOM before returning (spec
// §4.E streaming validate-while-parsing, no DOM handed back to the
// caller).
func Validate(input []byte, sch *Schema, opts ...Option) (Issues, error) {
	return ValidateSource(JSONBytes(input), sch, opts...)
}

// ValidateReader is the io.Reader counterpart of Validate.
func ValidateReader(r io.Reader, sch *Schema, opts ...Option) (Issues, error) {
	return ValidateSource(JSONReader(r), sch, opts...)
}

// ValidateSource is the Source-driven counterpart of Validate.
func ValidateSource(src Source, sch *Schema, opts ...Option) (Issues, error) {
	opt := buildParseOpt(opts...)
	enforced := EnforceSourceIfNeeded(src, opt)
	engSrc := EngineTokenSource(enforced)

	saxIssues, err := sax.ValidateOnly(engSrc, rootNode(sch), toSaxOptions(opt))
	if err != nil {
		return nil, toBuildIssue(err)
	}
	return fromSaxIssues(saxIssues), nil
}

// ParseYAMLInto decodes input as a YAML document against sch instead of
// JSON (SPEC_FULL §2), reusing the same SAX validate-while-building path by
// replaying the decoded YAML tree as the same token events a JSON lexer
// would have produced.
func ParseYAMLInto(input []byte, sch *Schema, opts ...Option) (*value.Value, Issues, error) {
	engSrc, err := yamlsrc.NewBytes(input)
	if err != nil {
		return nil, nil, toBuildIssue(err)
	}
	return ParseSource(SourceFromEngine(engSrc), sch, opts...)
}

// ValidateValue runs an already-built DOM value through sch without
// reparsing, for a value obtained from dom.Builder or a prior Parse call.
func ValidateValue(v *value.Value, sch *Schema) Issues {
	if sch == nil {
		return nil
	}
	return fromFailures(sch.compiled.Validate(v))
}

func rootNode(sch *Schema) *validator.Node {
	if sch == nil {
		return nil
	}
	return sch.compiled.Root
}

// Decoder streams one top-level value at a time out of a reader, validating
// each against a fixed schema (e.g. newline-delimited JSON documents).
type Decoder struct {
	src    Source
	sch    *Schema
	opt    ParseOpt
	keyDic *keydict.Dict
}

// NewDecoder returns a Decoder reading from r and validating each decoded
// value against sch.
func NewDecoder(r io.Reader, sch *Schema, opts ...Option) *Decoder {
	opt := buildParseOpt(opts...)
	d := &Decoder{src: JSONReader(r), sch: sch, opt: opt}
	if opt.KeyInterning {
		d.keyDic = keydict.New()
	}
	return d
}

// Decode reads and validates the next value. It returns io.EOF once the
// underlying source is exhausted with no further tokens available.
func (d *Decoder) Decode() (*value.Value, Issues, error) {
	enforced := EnforceSourceIfNeeded(d.src, d.opt)
	engSrc := EngineTokenSource(enforced)

	saxOpt := toSaxOptions(d.opt)
	saxOpt.KeyDict = d.keyDic

	v, issues, _, err := sax.Run(engSrc, rootNode(d.sch), saxOpt)
	if err != nil {
		if be, ok := err.(*sax.BuildError); ok && be.Cause == io.EOF {
			return nil, nil, io.EOF
		}
		return nil, nil, toBuildIssue(err)
	}
	return v, fromSaxIssues(issues), nil
}

func toSaxOptions(opt ParseOpt) sax.Options {
	o := sax.Options{
		NumberMode:      sax.NumberMode(opt.NumberMode),
		AllowNaN:        opt.Strictness.AllowNaN,
		InjectDefaults:  opt.DefaultInjection,
		FailFast:        opt.FailFast,
		CollectPresence: opt.Presence.Collect,
	}
	if opt.KeyInterning {
		o.KeyDict = keydict.New()
	}
	return o
}

func fromSaxIssues(in []sax.Issue) Issues {
	if len(in) == 0 {
		return nil
	}
	out := make(Issues, 0, len(in))
	for _, i := range in {
		out = append(out, Issue{Path: i.Path, Code: string(i.Code), Class: ClassValidation, Message: i.Message, Offset: -1})
	}
	return out
}

func fromFailures(in []validator.Failure) Issues {
	if len(in) == 0 {
		return nil
	}
	out := make(Issues, 0, len(in))
	for _, f := range in {
		out = append(out, Issue{Path: f.SubPath, Code: string(f.Code), Class: ClassValidation, Message: f.Message, Offset: -1})
	}
	return out
}

func toBuildIssue(err error) error {
	if be, ok := err.(*sax.BuildError); ok {
		return AppendIssues(nil, Issue{Path: be.Path, Code: CodeParseError, Class: ClassSyntax, Message: be.Message, Cause: be.Cause, Offset: be.Offset})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Class: ClassSyntax, Message: err.Error(), Offset: -1})
}

func toSchemaIssue(err error) error {
	return AppendIssues(nil, Issue{Code: CodeInvalidSchemaKeyword, Class: ClassSchema, Message: err.Error(), Offset: -1})
}
