package njson

import (
	"math"
	"strings"
	"testing"

	"github.com/velaware/njson/codec"
)

func mustCompile(t *testing.T, raw string) *Schema {
	sch, err := CompileSchema([]byte(raw))
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}
	return sch
}

// Boundary scenario #1/#2: required key present/absent (spec §8).
func TestFacadeRequiredKey(t *testing.T) {
	sch := mustCompile(t, `{"type":"object","required":["a"]}`)

	v, issues, err := Parse([]byte(`{"a":1}`), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v.Release()
	if len(issues) != 0 {
		t.Fatalf("want accept, got %v", issues)
	}

	v2, issues2, err := Parse([]byte(`{"b":1}`), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v2.Release()
	if len(issues2) != 1 || issues2[0].Code != CodeMissingRequired {
		t.Fatalf("want one missing_required_key issue, got %v", issues2)
	}
}

// Boundary scenario #3: uniqueItems violation reported at index 2.
func TestFacadeUniqueItemsViolation(t *testing.T) {
	sch := mustCompile(t, `{"type":"array","uniqueItems":true}`)

	issues, err := Validate([]byte(`[1,2,2]`), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].Path != "/2" {
		t.Fatalf("want one issue at /2, got %v", issues)
	}
}

// Boundary scenario #4: default injection into the returned DOM value.
func TestFacadeDefaultInjectionPresent(t *testing.T) {
	sch := mustCompile(t, `{
		"type":"object",
		"properties":{"a":{"type":"integer","default":7}}
	}`)

	v, issues, err := Parse([]byte(`{}`), sch, WithDefaultInjection(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v.Release()
	if len(issues) != 0 {
		t.Fatalf("want accept, got %v", issues)
	}
	if !v.Has("a") {
		t.Fatal("want default injected for missing key a")
	}
	n, ok := v.Get("a").Number()
	if !ok {
		t.Fatal("want a to be a number")
	}
	i, st := n.AsInt64()
	if !st.OK() || i != 7 {
		t.Fatalf("want default value 7, got %v", n)
	}
}

// Boundary scenario #5: default is not applied when the key is supplied.
func TestFacadeDefaultInjectionAbsent(t *testing.T) {
	sch := mustCompile(t, `{
		"type":"object",
		"properties":{"a":{"type":"integer","default":7}}
	}`)

	v, issues, err := Parse([]byte(`{"a":9}`), sch, WithDefaultInjection(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v.Release()
	if len(issues) != 0 {
		t.Fatalf("want accept, got %v", issues)
	}
	n, ok := v.Get("a").Number()
	if !ok {
		t.Fatal("want a to be a number")
	}
	i, st := n.AsInt64()
	if !st.OK() || i != 9 {
		t.Fatalf("want caller-supplied value 9 preserved, got %v", n)
	}
}

// An int64-overflowing literal falls back to Raw rather than losing
// precision silently, even when NumberInt64 is requested (spec §3's tri-
// state number contract).
func TestFacadeInt64OverflowFallsBackToRaw(t *testing.T) {
	sch := mustCompile(t, `{"type":"number"}`)
	huge := "99999999999999999999999999"

	v, issues, err := Parse([]byte(huge), sch, WithNumberMode(NumberInt64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v.Release()
	if len(issues) != 0 {
		t.Fatalf("want accept, got %v", issues)
	}
	n, ok := v.Number()
	if !ok {
		t.Fatal("want a number value")
	}
	if _, st := n.AsInt64(); st.OK() {
		t.Fatal("want int64 conversion to fail for an out-of-range literal")
	}
	f, st := n.AsFloat64()
	if !st.OK() || math.IsInf(f, 0) {
		t.Fatalf("want a finite float64 fallback, got %v status=%v", f, st)
	}
}

func TestFacadeCompileSchemaRejectsMalformedDocument(t *testing.T) {
	_, err := CompileSchema([]byte(`{"type": 5}`))
	if err == nil {
		t.Fatal("want an error compiling a malformed schema document")
	}
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Class != ClassSchema {
		t.Fatalf("want a schema-class Issue, got %v", err)
	}
}

func TestFacadeValidateValueReusesBuiltDOM(t *testing.T) {
	sch := mustCompile(t, `{"type":"string","minLength":2}`)
	v, _, err := Parse([]byte(`"a"`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v.Release()

	issues := ValidateValue(v, sch)
	if len(issues) != 1 || issues[0].Code != CodeTooShort {
		t.Fatalf("want one too_short issue, got %v", issues)
	}
}

func TestFacadeParseYAMLInto(t *testing.T) {
	sch := mustCompile(t, `{"type":"object","required":["a"]}`)

	v, issues, err := ParseYAMLInto([]byte("a: 1\nb: two\n"), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v.Release()
	if len(issues) != 0 {
		t.Fatalf("want accept, got %v", issues)
	}
	if !v.Has("a") || !v.Has("b") {
		t.Fatalf("want both keys present, got %v", v.Keys())
	}
}

func TestFacadeCompileSchemaYAML(t *testing.T) {
	sch, err := CompileSchemaYAML([]byte("type: object\nrequired: [a]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, issues, err := Parse([]byte(`{"b":1}`), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v.Release()
	if len(issues) != 1 || issues[0].Code != CodeMissingRequired {
		t.Fatalf("want one missing_required_key issue, got %v", issues)
	}
}

func TestFacadeWithFormatChecker(t *testing.T) {
	sch, err := CompileSchema([]byte(`{"type":"string","format":"date-time"}`),
		WithFormatChecker("date-time", codec.RFC3339))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	issues, err := Validate([]byte(`"not a time"`), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].Code != CodeInvalidFormat {
		t.Fatalf("want one invalid_format issue, got %v", issues)
	}
}

func TestFacadeDecoderStreamsMultipleDocuments(t *testing.T) {
	sch := mustCompile(t, `{"type":"object","required":["a"]}`)
	r := strings.NewReader(`{"a":1}{"b":2}`)
	dec := NewDecoder(r, sch)

	v1, issues1, err := dec.Decode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v1.Release()
	if len(issues1) != 0 {
		t.Fatalf("want accept, got %v", issues1)
	}

	v2, issues2, err := dec.Decode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer v2.Release()
	if len(issues2) != 1 || issues2[0].Code != CodeMissingRequired {
		t.Fatalf("want one missing_required_key issue, got %v", issues2)
	}

	if _, _, err := dec.Decode(); err == nil {
		t.Fatal("want io.EOF once the reader is exhausted")
	}
}
