package gen

import (
	"testing"

	"github.com/velaware/njson/value"
)

func TestMarshalObjectAndArray(t *testing.T) {
	obj := value.NewObject()
	obj.Put("a", value.NewNumberFromInt64(1))
	arr := value.NewArray()
	arr.Append(value.NewBool(true))
	arr.Append(value.Null)
	arr.Append(value.NewString("x"))
	obj.Put("b", arr)

	out, err := Marshal(obj)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":1,"b":[true,null,"x"]}`
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestMarshalFloatUsesFourteenDigitG(t *testing.T) {
	v, ok := value.NewNumberFromFloat64(42323.0234234, false)
	if !ok {
		t.Fatal("want valid float")
	}
	out, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "42323.0234234" {
		t.Fatalf("got %q", out)
	}
}

func TestMarshalRawNumberVerbatim(t *testing.T) {
	v := value.NewNumberFromText("1.000")
	out, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "1.000" {
		t.Fatalf("want raw lexeme preserved, got %q", out)
	}
}

func TestMarshalIndent(t *testing.T) {
	obj := value.NewObject()
	obj.Put("a", value.NewNumberFromInt64(1))
	out, err := MarshalIndent(obj, "  ")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": 1\n}"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestMarshalEscapesString(t *testing.T) {
	out, err := Marshal(value.NewString("a\"b\\c\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := `"a\"b\\c\n"`
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
