package dom

import (
	"testing"

	jsonsrc "github.com/velaware/njson/source/json"
	"github.com/velaware/njson/value"
)

func TestBuildObjectAndArray(t *testing.T) {
	b := New(Options{})
	src := jsonsrc.NewBytes([]byte(`{"a":1,"b":[true,false,null,"x"]}`))
	root, err := b.Build(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !root.IsObject() || root.Size() != 2 {
		t.Fatalf("want object of size 2, got kind=%v size=%d", root.Kind(), root.Size())
	}
	a := root.Get("a")
	ai, st := mustNumber(t, a).AsInt64()
	if !st.OK() || ai != 1 {
		t.Fatalf("want a=1, got %d (%v)", ai, st)
	}
	bArr := root.Get("b")
	if !bArr.IsArray() || bArr.Size() != 4 {
		t.Fatalf("want array of size 4, got kind=%v size=%d", bArr.Kind(), bArr.Size())
	}
	if v, ok := bArr.At(0).Bool(); !ok || !v {
		t.Fatal("want b[0] == true")
	}
	if !bArr.At(2).IsNull() {
		t.Fatal("want b[2] == null")
	}
}

func TestBuildDuplicateKeyLastWriteWins(t *testing.T) {
	b := New(Options{})
	src := jsonsrc.NewBytes([]byte(`{"a":1,"a":2}`))
	root, err := b.Build(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Size() != 1 {
		t.Fatalf("want size 1 after duplicate key, got %d", root.Size())
	}
	i, _ := mustNumber(t, root.Get("a")).AsInt64()
	if i != 2 {
		t.Fatalf("want last-write-wins value 2, got %d", i)
	}
}

func mustNumber(t *testing.T, v *value.Value) *value.Number {
	t.Helper()
	n, ok := v.Number()
	if !ok {
		t.Fatal("expected a number")
	}
	return n
}
