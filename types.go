package njson

// UnknownPolicy controls how unknown object keys are handled by the object
// validator (spec §4.C additionalProperties semantics).
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // reject unknown keys (additionalProperties: false)
	UnknownStrip                            // drop unknown keys from the DOM
	UnknownPassthrough                      // keep unknown keys in the DOM
)

// NumberMode dictates how the DOM builder prefers to materialize numbers.
// NumberMode selects the tag eagerly converted to at build time. Under
// NumberRaw the value keeps the original lexeme (spec §3 Raw tag); a number
// converted eagerly holds the converted value, not the lexeme.
type NumberMode int

const (
	NumberRaw     NumberMode = iota // keep the lexeme, convert lazily on access
	NumberInt64                     // eagerly try int64, fall back to Raw on overflow
	NumberFloat64                   // eagerly convert to float64
)

// Severity expresses the severity level for a reported Issue.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement of duplicate keys and non-finite numbers.
type Strictness struct {
	OnDuplicateKey Severity // Ignore and Warn keep the last value; Error fails the parse at the duplicate key
	AllowNaN       bool     // reject NaN/Inf at value construction unless true
}

// PresenceOpt configures presence collection during a parse.
type PresenceOpt struct {
	Collect bool
	Include []string
	Exclude []string
}

// PathRenderOpt controls how JSON Pointer paths are rendered/interned.
type PathRenderOpt struct {
	Lazy   bool
	Intern bool
}

// ParseOpt bundles the functional-options state a parse session carries.
// Built up via With* functions (spec §5, §9's "interned key dictionary").
type ParseOpt struct {
	Strictness       Strictness
	MaxDepth         int
	MaxBytes         int64
	NumberMode       NumberMode
	KeyInterning     bool
	DefaultInjection bool
	Presence         PresenceOpt
	PathRender       PathRenderOpt
	FailFast         bool
}

// DefaultParseOpt returns the baseline options: strict duplicate-key
// rejection, no NaN, unbounded depth/size, lazy raw numbers, default
// injection on, key interning off.
func DefaultParseOpt() ParseOpt {
	return ParseOpt{
		Strictness:       Strictness{OnDuplicateKey: Error, AllowNaN: false},
		MaxDepth:         0,
		MaxBytes:         0,
		NumberMode:       NumberRaw,
		KeyInterning:     false,
		DefaultInjection: true,
	}
}

// Option mutates a ParseOpt; the functional-options pattern used throughout
// this package mirrors the teacher's ParseOpt construction idiom.
type Option func(*ParseOpt)

// WithMaxDepth bounds container nesting depth; 0 means unbounded.
func WithMaxDepth(n int) Option { return func(o *ParseOpt) { o.MaxDepth = n } }

// WithMaxBytes bounds the number of input bytes consumed; 0 means unbounded.
func WithMaxBytes(n int64) Option { return func(o *ParseOpt) { o.MaxBytes = n } }

// WithKeyInterning turns on key-dictionary interning for object keys.
func WithKeyInterning(b bool) Option { return func(o *ParseOpt) { o.KeyInterning = b } }

// WithNumberMode selects the eager number-conversion preference.
func WithNumberMode(m NumberMode) Option { return func(o *ParseOpt) { o.NumberMode = m } }

// WithDuplicateKeyPolicy selects how duplicate object keys are reported.
func WithDuplicateKeyPolicy(s Severity) Option {
	return func(o *ParseOpt) { o.Strictness.OnDuplicateKey = s }
}

// WithDefaultInjection toggles whether the state machine synthesizes
// `default` values into the DOM for absent properties (spec §4.E).
func WithDefaultInjection(b bool) Option { return func(o *ParseOpt) { o.DefaultInjection = b } }

// WithAllowNaN permits NaN/Inf numbers at value construction.
func WithAllowNaN(b bool) Option { return func(o *ParseOpt) { o.Strictness.AllowNaN = b } }

func buildParseOpt(opts ...Option) ParseOpt {
	o := DefaultParseOpt()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
