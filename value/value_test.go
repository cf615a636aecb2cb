package value

import "testing"

func TestSingletonsShared(t *testing.T) {
	if NewBool(true) != True || NewBool(false) != False {
		t.Fatal("NewBool must return shared singletons")
	}
	if NewString("") != EmptyString {
		t.Fatal("NewString(\"\") must return the shared empty-string singleton")
	}
}

func TestRetainReleaseSingletonNoOp(t *testing.T) {
	before := Null.refs
	Null.Retain()
	Null.Release()
	Null.Release()
	Null.Release()
	if Null.refs != before {
		t.Fatalf("retain/release on a singleton must be a no-op, got refs=%d want=%d", Null.refs, before)
	}
}

func TestCyclePrevention(t *testing.T) {
	arr := NewArray()
	if ok := arr.Append(arr); ok {
		t.Fatal("appending a container to itself must fail")
	}
	inner := NewArray()
	outer := NewArray()
	if !outer.Append(inner) {
		t.Fatal("unexpected failure appending a fresh array")
	}
	if ok := inner.Append(outer); ok {
		t.Fatal("inserting a value whose subtree contains the destination must fail")
	}
}

func TestDuplicateKeyLastWriteWins(t *testing.T) {
	obj := NewObject()
	obj.Put("a", NewNumberFromInt64(1))
	obj.Put("a", NewNumberFromInt64(2))
	if obj.Size() != 1 {
		t.Fatalf("want size 1, got %d", obj.Size())
	}
	got := obj.Get("a")
	i, st := got.num.AsInt64()
	if !st.OK() || i != 2 {
		t.Fatalf("want last-write-wins value 2, got %d (status %v)", i, st)
	}
}

func TestCompareTotalOrder(t *testing.T) {
	values := []*Value{
		Invalid,
		Null,
		False,
		True,
		NewNumberFromInt64(1),
		NewString("a"),
		NewArray(),
		NewObject(),
	}
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if Compare(values[i], values[j]) >= 0 {
				t.Fatalf("expected values[%d] < values[%d] by tag order", i, j)
			}
		}
	}
	if Compare(Null, Null) != 0 {
		t.Fatal("Compare must be reflexive")
	}
	a := NewNumberFromInt64(5)
	b := NewNumberFromInt64(5)
	if !Equal(a, b) {
		t.Fatal("structurally equal numbers must compare equal")
	}
}

func TestNumberOverflowAndPrecisionLoss(t *testing.T) {
	// Boundary scenario #6 of the testable properties: one past int64 max.
	v := NewNumberFromText("9223372036854775808")
	n, _ := v.Number()

	_, ist := n.AsInt64()
	if !ist.Overflow() {
		t.Fatalf("want overflow converting to int64, got %v", ist)
	}

	f, fst := n.AsFloat64()
	if !fst.PrecisionLoss() {
		t.Fatalf("want precision loss converting to float64, got %v", fst)
	}
	if f <= 0 {
		t.Fatalf("want a positive float approximation, got %v", f)
	}
}

func TestDuplicateIsStructurallyEqualAndIndependent(t *testing.T) {
	orig := NewObject()
	orig.Put("a", NewArray())
	dup := Duplicate(orig)
	if !Equal(orig, dup) {
		t.Fatal("duplicate must be structurally equal to the original")
	}
	dup.Get("a").Append(NewNumberFromInt64(1))
	if orig.Get("a").Size() != 0 {
		t.Fatal("mutating the duplicate must not affect the original")
	}
}

func TestSplice(t *testing.T) {
	dst := NewArray()
	dst.Append(NewNumberFromInt64(1))
	dst.Append(NewNumberFromInt64(2))
	dst.Append(NewNumberFromInt64(3))

	src := NewArray()
	src.Append(NewNumberFromInt64(10))
	src.Append(NewNumberFromInt64(20))

	if !Splice(dst, 1, 1, src, 0, 2, Copy) {
		t.Fatal("splice failed")
	}
	if dst.Size() != 4 {
		t.Fatalf("want size 4 after splice, got %d", dst.Size())
	}
	want := []int64{1, 10, 20, 3}
	for i, w := range want {
		got, _ := dst.At(i).Number()
		gi, _ := got.AsInt64()
		if gi != w {
			t.Fatalf("at %d: want %d got %d", i, w, gi)
		}
	}
	if src.Size() != 2 {
		t.Fatal("Copy mode must not mutate src")
	}
}
