package uriscope

import (
	"testing"

	"github.com/velaware/njson/schema/validator"
)

func TestAddAndLookupValidator(t *testing.T) {
	r := New(nil)
	n := &validator.Node{Title: "a"}
	if !r.AddValidator("schema.json", "/definitions/a", n) {
		t.Fatal("want first registration to succeed")
	}
	if r.AddValidator("schema.json", "/definitions/a", &validator.Node{}) {
		t.Fatal("want second registration at the same fragment to fail")
	}
	got := r.Lookup("schema.json", "/definitions/a")
	if got != n {
		t.Fatalf("want lookup to return the registered node, got %v", got)
	}
}

func TestResolveWiresDeferredRef(t *testing.T) {
	r := New(nil)
	target := &validator.Node{Title: "target"}
	r.AddValidator("schema.json", "#", target)

	ref := &validator.RefNode{RawURI: "#"}
	r.DeferRef(ref, "schema.json", "#")

	unresolved := r.Resolve(nil)
	if len(unresolved) != 0 {
		t.Fatalf("want no unresolved refs, got %v", unresolved)
	}
	if ref.Resolved != target {
		t.Fatal("want ref.Resolved to be wired to the registered node")
	}
}

func TestResolveReportsUnresolved(t *testing.T) {
	r := New(nil)
	ref := &validator.RefNode{RawURI: "other.json#/x"}
	r.DeferRef(ref, "other.json", "/x")

	unresolved := r.Resolve(nil)
	if len(unresolved) != 1 {
		t.Fatalf("want one unresolved ref, got %v", unresolved)
	}
}

func TestResolveFetchesViaResolver(t *testing.T) {
	fetched := 0
	resolver := func(uri string) ([]byte, error) {
		fetched++
		return []byte(`{}`), nil
	}
	r := New(resolver)
	compiled := false
	compile := func(raw []byte, base string) error {
		compiled = true
		r.AddValidator(base, "#", &validator.Node{})
		return nil
	}

	ref1 := &validator.RefNode{RawURI: "other.json#"}
	ref2 := &validator.RefNode{RawURI: "other.json#"}
	r.DeferRef(ref1, "other.json", "#")
	r.DeferRef(ref2, "other.json", "#")

	unresolved := r.Resolve(compile)
	if len(unresolved) != 0 {
		t.Fatalf("want both refs resolved, got unresolved=%v", unresolved)
	}
	if !compiled {
		t.Fatal("want compile to have been invoked")
	}
	if fetched != 1 {
		t.Fatalf("want resolver cache to avoid refetching the same document, fetched=%d", fetched)
	}
}

func TestScopePushPop(t *testing.T) {
	s := NewScope("https://example.com/schema.json")
	if s.Current() != "https://example.com/schema.json" {
		t.Fatalf("want root base, got %s", s.Current())
	}

	resolved, err := s.Push("sub/child.json")
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "https://example.com/sub/child.json" {
		t.Fatalf("want resolved child base, got %s", resolved)
	}
	if s.Current() != resolved {
		t.Fatalf("want current to reflect pushed scope, got %s", s.Current())
	}

	s.Pop()
	if s.Current() != "https://example.com/schema.json" {
		t.Fatalf("want pop to restore root, got %s", s.Current())
	}
}

func TestSplitRef(t *testing.T) {
	cases := []struct {
		base, ref, wantDoc, wantFrag string
	}{
		{"https://example.com/schema.json", "#/definitions/a", "https://example.com/schema.json", "/definitions/a"},
		{"https://example.com/schema.json", "#", "https://example.com/schema.json", ""},
		{"https://example.com/schema.json", "other.json#/x", "https://example.com/other.json", "/x"},
		{"https://example.com/schema.json", "other.json", "https://example.com/other.json", ""},
	}
	for _, c := range cases {
		doc, frag, err := SplitRef(c.base, c.ref)
		if err != nil {
			t.Fatalf("SplitRef(%q, %q): %v", c.base, c.ref, err)
		}
		if doc != c.wantDoc || frag != c.wantFrag {
			t.Fatalf("SplitRef(%q, %q) = (%q, %q), want (%q, %q)", c.base, c.ref, doc, frag, c.wantDoc, c.wantFrag)
		}
	}
}
