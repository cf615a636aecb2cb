package keydict

import "testing"

func TestInternReturnsCanonicalString(t *testing.T) {
	d := New()
	a := d.Intern("name")
	b := d.Intern("name")
	if a != b {
		t.Fatal("interned strings with equal content must compare equal")
	}
	if d.Len() != 1 {
		t.Fatalf("want 1 distinct key, got %d", d.Len())
	}
	d.Intern("other")
	if d.Len() != 2 {
		t.Fatalf("want 2 distinct keys, got %d", d.Len())
	}
}

func TestNilDictIsIdentity(t *testing.T) {
	var d *Dict
	if d.Intern("x") != "x" {
		t.Fatal("a nil dictionary must behave as the identity function")
	}
}
