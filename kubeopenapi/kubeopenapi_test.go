package kubeopenapi

import (
	"testing"

	"github.com/velaware/njson/dom"
	"github.com/velaware/njson/schema/validator"
	"github.com/velaware/njson/source/json"
	"github.com/velaware/njson/value"
)

func parseValue(t *testing.T, raw string) *value.Value {
	t.Helper()
	src := json.NewBytes([]byte(raw))
	b := dom.New(dom.Options{NumberMode: dom.NumberInt64})
	v, err := b.Build(src)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestImportMinimalObject(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"replicas": map[string]any{"type": "integer"},
		},
		"required": []any{"replicas"},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"replicas":3}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
	if f := s.Validate(parseValue(t, `{}`)); len(f) == 0 {
		t.Fatal("want reject: missing required replicas")
	}
}

func TestImportUnwrapsCRDDocument(t *testing.T) {
	crd := map[string]any{
		"kind": "CustomResourceDefinition",
		"spec": map[string]any{
			"versions": []any{
				map[string]any{
					"name":   "v1",
					"served": true,
					"schema": map[string]any{
						"openAPIV3Schema": map[string]any{
							"type":       "object",
							"properties": map[string]any{"size": map[string]any{"type": "integer"}},
						},
					},
				},
			},
		},
	}
	s, _, err := Import(crd, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"size":1}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"size":"x"}`)); len(f) == 0 {
		t.Fatal("want reject: size not an integer")
	}
}

func TestImportIntOrString(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"port": map[string]any{"x-kubernetes-int-or-string": true},
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"port":8080}`)); len(f) != 0 {
		t.Fatalf("want accept (int branch), got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"port":"http"}`)); len(f) != 0 {
		t.Fatalf("want accept (string branch), got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"port":true}`)); len(f) == 0 {
		t.Fatal("want reject: neither int nor string")
	}
}

func TestImportNullable(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"note": map[string]any{"type": "string", "nullable": true},
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"note":null}`)); len(f) != 0 {
		t.Fatalf("want accept (nullable), got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"note":"hi"}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
}

func TestImportUnknownFieldsDefaultToPrune(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "string"}},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"a":"x","extra":1}`)); len(f) != 0 {
		t.Fatalf("want unknown field accepted under default Prune, got %v", f)
	}
}

func TestImportUnknownFieldsStrict(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "string"}},
	}, Options{Unknown: UnknownStrict})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"a":"x","extra":1}`)); len(f) == 0 {
		t.Fatal("want reject: unknown field under UnknownStrict")
	}
}

func TestImportPreserveUnknownFieldsFlag(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type":                                 "object",
		"x-kubernetes-preserve-unknown-fields": true,
		"properties":                           map[string]any{"a": map[string]any{"type": "string"}},
	}, Options{Unknown: UnknownStrict})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"a":"x","extra":1}`)); len(f) != 0 {
		t.Fatalf("want accept: x-kubernetes-preserve-unknown-fields overrides UnknownStrict, got %v", f)
	}
}

func TestImportEmbeddedResourceChecks(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{"x-kubernetes-embedded-resource": true},
		},
	}, Options{EnableEmbeddedChecks: true})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"template":{"apiVersion":"v1","kind":"Pod","metadata":{}}}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"template":{"kind":"Pod"}}`)); len(f) == 0 {
		t.Fatal("want reject: missing apiVersion/metadata on embedded resource")
	}
}

func TestImportListTypeSetUniqueness(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{
				"type":                   "array",
				"items":                  map[string]any{"type": "string"},
				"x-kubernetes-list-type": "set",
			},
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"tags":["a","b"]}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"tags":["a","a"]}`)); len(f) == 0 {
		t.Fatal("want reject: duplicate element in a set list")
	}
}

func TestImportLocalDefsRef(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type":       "object",
		"$defs":      map[string]any{"pos": map[string]any{"type": "integer", "minimum": 0}},
		"properties": map[string]any{"x": map[string]any{"$ref": "#/$defs/pos"}},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"x":5}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"x":-5}`)); len(f) == 0 {
		t.Fatal("want reject: x below minimum via local $ref")
	}
}

func TestImportCyclicDefsRefIsReportedNotInfinite(t *testing.T) {
	_, diag, err := Import(map[string]any{
		"type":  "object",
		"$defs": map[string]any{"a": map[string]any{"properties": map[string]any{"next": map[string]any{"$ref": "#/$defs/a"}}}},
		"properties": map[string]any{
			"x": map[string]any{"$ref": "#/$defs/a"},
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !diag.HasWarnings() {
		t.Fatal("want a warning recorded for the cyclic $ref")
	}
}

func TestImportNilSchemaRejected(t *testing.T) {
	_, _, err := Import(nil, Options{})
	if err == nil {
		t.Fatal("want an error for a nil schema")
	}
}

func TestImportUnsupportedConstructsAreDroppedWithWarning(t *testing.T) {
	_, diag, err := Import(map[string]any{
		"type":          "array",
		"items":         map[string]any{"type": "string"},
		"contains":      map[string]any{"type": "string"},
		"minContains":   1,
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !diag.HasWarnings() {
		t.Fatal("want a warning that contains/minContains was dropped")
	}
}

func TestImportPatternProperties(t *testing.T) {
	s, _, err := Import(map[string]any{
		"type": "object",
		"patternProperties": map[string]any{
			"^x-": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"x-foo":"bar"}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
	if f := s.Validate(parseValue(t, `{"other":"bar"}`)); len(f) == 0 {
		t.Fatal("want reject: key doesn't match patternProperties and additionalProperties is false")
	}
}

func TestImportFromRawJSONBytes(t *testing.T) {
	s, _, err := Import([]byte(`{"type":"object","required":["a"]}`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	f := s.Validate(parseValue(t, `{"b":1}`))
	if len(f) != 1 || f[0].Code != validator.CodeMissingRequired {
		t.Fatalf("want one missing_required_key failure, got %v", f)
	}
}
