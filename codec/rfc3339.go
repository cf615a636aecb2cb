// Package codec supplies schema/validator.FormatChecker implementations for
// the Draft-4 `format` keyword, which the core validator otherwise treats
// as advisory only (spec §4.C). Grounded on the teacher's codec/rfc3339.go,
// which wrapped the same RFC3339 parse/format logic behind a typed
// Codec[string, time.Time] — adapted here into a plain string predicate
// since this module validates against a DOM value.Value tree, not typed Go
// values.
package codec

import "time"

// RFC3339 checks the Draft-4 "date-time" format, accepting RFC3339Nano
// (trailing fractional zeros optional) and falling back to plain RFC3339.
func RFC3339(s string) bool {
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
