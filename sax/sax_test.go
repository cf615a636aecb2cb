package sax

import (
	"regexp"
	"testing"

	"github.com/velaware/njson/schema/validator"
	"github.com/velaware/njson/source/json"
	"github.com/velaware/njson/value"
)

func intp(i int) *int { return &i }

func intValue(i int64) *value.Value { return value.NewNumberFromInt64(i) }

func mustPattern(pat string) *regexp.Regexp { return regexp.MustCompile(pat) }

// Boundary scenario #1/#2: required key present/absent (spec §8).
func TestRunRequiredKey(t *testing.T) {
	node := &validator.Node{Types: []validator.JSONType{validator.TypeObject}, Object: &validator.ObjectValidator{
		Additional: validator.AdditionalAllow,
		Required:   &validator.RequiredValidator{Keys: []string{"a"}},
	}}

	src := json.NewBytes([]byte(`{"a":1}`))
	v, issues, _, err := Run(src, node, Options{NumberMode: NumberInt64})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Release()
	if len(issues) != 0 {
		t.Fatalf("want accept, got %v", issues)
	}

	src2 := json.NewBytes([]byte(`{"b":1}`))
	v2, issues2, _, err := Run(src2, node, Options{NumberMode: NumberInt64})
	if err != nil {
		t.Fatal(err)
	}
	defer v2.Release()
	if len(issues2) != 1 || issues2[0].Code != validator.CodeMissingRequired {
		t.Fatalf("want one missing_required_key issue, got %v", issues2)
	}
}

// Boundary scenario #3: uniqueItems violation, reported at index 2.
func TestRunUniqueItemsViolation(t *testing.T) {
	node := &validator.Node{Types: []validator.JSONType{validator.TypeArray}, Array: &validator.ArrayValidator{UniqueItems: true}}
	src := json.NewBytes([]byte(`[1,2,2]`))
	v, issues, _, err := Run(src, node, Options{NumberMode: NumberInt64})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Release()
	if len(issues) != 1 || issues[0].Path != "/2" {
		t.Fatalf("want one issue at /2, got %v", issues)
	}
}

// Boundary scenario #4/#5: default injection present/absent.
func TestRunInjectsDefaults(t *testing.T) {
	node := &validator.Node{Types: []validator.JSONType{validator.TypeObject}, Object: &validator.ObjectValidator{
		Properties: &validator.PropertiesValidator{ByName: map[string]*validator.Node{
			"a": {HasDefault: true, Default: intValue(7)},
		}},
	}}

	src := json.NewBytes([]byte(`{}`))
	v, issues, presence, err := Run(src, node, Options{NumberMode: NumberInt64, InjectDefaults: true, CollectPresence: true})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Release()
	if len(issues) != 0 {
		t.Fatalf("want accept, got %v", issues)
	}
	if !v.Has("a") {
		t.Fatal("want default injected for missing key a")
	}
	if presence["/a"]&PresenceDefaultApplied == 0 {
		t.Fatalf("want /a marked DefaultApplied, got %v", presence["/a"])
	}
}

func TestRunNoInjectionWhenPresent(t *testing.T) {
	node := &validator.Node{Types: []validator.JSONType{validator.TypeObject}, Object: &validator.ObjectValidator{
		Properties: &validator.PropertiesValidator{ByName: map[string]*validator.Node{
			"a": {HasDefault: true, Default: intValue(7)},
		}},
	}}

	src := json.NewBytes([]byte(`{"a":9}`))
	v, _, presence, err := Run(src, node, Options{NumberMode: NumberInt64, InjectDefaults: true, CollectPresence: true})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Release()
	if presence["/a"]&PresenceDefaultApplied != 0 {
		t.Fatal("want no DefaultApplied flag when the input already set the key")
	}
	if presence["/a"]&PresenceSeen == 0 {
		t.Fatal("want Seen flag set for the input-provided key")
	}
}

func TestValidateOnlyReleasesValue(t *testing.T) {
	node := &validator.Node{Types: []validator.JSONType{validator.TypeString}, Str: &validator.StringValidator{MinLength: intp(2)}}
	src := json.NewBytes([]byte(`"a"`))
	issues, err := ValidateOnly(src, node, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 || issues[0].Code != validator.CodeTooShort {
		t.Fatalf("want one too_short issue, got %v", issues)
	}
}

func TestFailFastTruncatesIssues(t *testing.T) {
	node := &validator.Node{
		Types: []validator.JSONType{validator.TypeString},
		Str:   &validator.StringValidator{MinLength: intp(5), Pattern: mustPattern("^z")},
	}
	src := json.NewBytes([]byte(`"a"`))
	issues, err := ValidateOnly(src, node, Options{FailFast: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 {
		t.Fatalf("want exactly one issue with FailFast, got %v", issues)
	}
}
