// Package gen serializes a value.Value back to JSON text, grounded on
// original_source/pbnjson_c/jgen_stream.c's val_int/val_dbl/val_num/val_str
// generator callbacks: integers print with a plain decimal formatter, IEEE
// doubles print with the %.14g workaround the original's comment explains
// ("%g doesn't seem to do what it claims to do" for values like
// 42323.0234234), and a Raw-tagged number prints its lexeme verbatim
// (spec §6). NaN/Infinity never reach here: value.NewNumberFromFloat64
// already rejects them unless AllowNaN was set at parse time.
package gen

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/velaware/njson/value"
)

// Options configures serialization.
type Options struct {
	// Indent, if non-empty, pretty-prints with this string per nesting
	// level (e.g. "  "). Empty means compact output, matching yajl_gen's
	// default unless beautify is requested.
	Indent string
}

// Marshal serializes v to a compact JSON byte slice.
func Marshal(v *value.Value) ([]byte, error) {
	var sb strings.Builder
	if err := write(&sb, v, Options{}, 0); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// MarshalIndent serializes v with the given per-level indent string.
func MarshalIndent(v *value.Value, indent string) ([]byte, error) {
	var sb strings.Builder
	if err := write(&sb, v, Options{Indent: indent}, 0); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// WriteTo serializes v to w. The whole document is rendered into an
// in-memory buffer first and then written to w in one call.
func WriteTo(w io.Writer, v *value.Value, opt Options) error {
	var sb strings.Builder
	if err := write(&sb, v, opt, 0); err != nil {
		return err
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func write(sb *strings.Builder, v *value.Value, opt Options, depth int) error {
	if v == nil || !v.IsValid() {
		return fmt.Errorf("gen: cannot serialize an invalid value")
	}
	switch v.Kind() {
	case value.KindNull:
		sb.WriteString("null")
	case value.KindBool:
		b, _ := v.Bool()
		if b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case value.KindNumber:
		num, _ := v.Number()
		writeNumber(sb, num)
	case value.KindString:
		s, _ := v.String()
		writeString(sb, s)
	case value.KindArray:
		return writeArray(sb, v, opt, depth)
	case value.KindObject:
		return writeObject(sb, v, opt, depth)
	default:
		return fmt.Errorf("gen: unknown value kind")
	}
	return nil
}

func writeNumber(sb *strings.Builder, n *value.Number) {
	switch n.Tag() {
	case value.TagInt64:
		i, _ := n.AsInt64()
		sb.WriteString(strconv.FormatInt(i, 10))
	case value.TagFloat64:
		f, _ := n.AsFloat64()
		sb.WriteString(strconv.FormatFloat(f, 'g', 14, 64))
	default:
		raw, _ := n.AsRaw()
		sb.WriteString(raw)
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

func writeArray(sb *strings.Builder, v *value.Value, opt Options, depth int) error {
	n := v.Size()
	sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		newline(sb, opt, depth+1)
		if err := write(sb, v.At(i), opt, depth+1); err != nil {
			return err
		}
	}
	if n > 0 {
		newline(sb, opt, depth)
	}
	sb.WriteByte(']')
	return nil
}

func writeObject(sb *strings.Builder, v *value.Value, opt Options, depth int) error {
	keys := v.Keys()
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		newline(sb, opt, depth+1)
		writeString(sb, k)
		sb.WriteByte(':')
		if opt.Indent != "" {
			sb.WriteByte(' ')
		}
		if err := write(sb, v.Get(k), opt, depth+1); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		newline(sb, opt, depth)
	}
	sb.WriteByte('}')
	return nil
}

func newline(sb *strings.Builder, opt Options, depth int) {
	if opt.Indent == "" {
		return
	}
	sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		sb.WriteString(opt.Indent)
	}
}
