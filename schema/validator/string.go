package validator

import "github.com/velaware/njson/value"

// FormatChecker reports whether s satisfies a named `format` keyword.
// Draft-4 treats format as advisory by default (spec §4.C); a schema node
// only gets one wired in when the compiler was given a matching checker via
// schema.CompileOptions.FormatCheckers (e.g. package codec's RFC3339).
type FormatChecker func(s string) bool

// StringValidator implements the `minLength`/`maxLength`/`pattern`/
// `format` keywords of spec §4.C.
type StringValidator struct {
	MinLength *int
	MaxLength *int
	Pattern   patternMatcher
	Format    string        // advisory name; enforced only if Checker is set
	Checker   FormatChecker // nil unless the compiler was given one for Format
}

func (sv *StringValidator) validate(v *value.Value) []Failure {
	s, _ := v.String()
	n := len([]rune(s))
	var out []Failure
	out = append(out, boundedCount(n, sv.MinLength, sv.MaxLength, CodeTooShort, CodeTooLong)...)
	if sv.Pattern != nil && !sv.Pattern.MatchString(s) {
		out = append(out, Failure{Code: CodePatternMismatch, Message: "value does not match `pattern`"})
	}
	if sv.Checker != nil && !sv.Checker(s) {
		out = append(out, Failure{Code: CodeInvalidFormat, Message: "value does not match `format: " + sv.Format + "`"})
	}
	return out
}
