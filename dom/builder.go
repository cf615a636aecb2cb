// Package dom implements the DOM builder of spec §4.A/§4.D: it maps lexer
// events onto value.Value construction, with optional key interning and
// the cycle-free guarantee inherited from the value package.
package dom

import (
	"fmt"
	"io"
	"strconv"

	"github.com/velaware/njson/keydict"
	"github.com/velaware/njson/value"

	eng "github.com/velaware/njson/internal/engine"
)

// NumberMode mirrors the root package's NumberMode without importing it
// (avoiding an import cycle between dom and njson).
type NumberMode int

const (
	NumberRaw NumberMode = iota
	NumberInt64
	NumberFloat64
)

// BuildError reports a syntactic failure while building the DOM (spec §7's
// "Syntactic" error class: malformed token, unexpected byte, unterminated
// structure, depth exceeded).
type BuildError struct {
	Path    string
	Message string
	Offset  int64
	Cause   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s at %s (offset %d)", e.Message, e.Path, e.Offset)
}

func (e *BuildError) Unwrap() error { return e.Cause }

// Options configures a Builder.
type Options struct {
	NumberMode NumberMode
	KeyDict    *keydict.Dict // nil disables interning
	AllowNaN   bool
}

// Builder constructs a DOM tree from a token source.
type Builder struct {
	opt Options
}

// New returns a Builder with the given options.
func New(opt Options) *Builder { return &Builder{opt: opt} }

// Build consumes src to EOF, returning the root Value or a BuildError. A
// source yielding no tokens at all (empty input) is itself a BuildError.
func (b *Builder) Build(src eng.TokenSource) (*value.Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, b.ioErr(src, err, "")
	}
	return b.buildValue(src, tok, "")
}

func (b *Builder) ioErr(src eng.TokenSource, err error, path string) error {
	if err == io.EOF {
		return &BuildError{Path: path, Message: "unexpected end of input", Offset: src.Location(), Cause: err}
	}
	return &BuildError{Path: path, Message: "lexer error", Offset: src.Location(), Cause: err}
}

func (b *Builder) buildValue(src eng.TokenSource, tok eng.Token, path string) (*value.Value, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		return b.buildObject(src, path)
	case eng.KindBeginArray:
		return b.buildArray(src, path)
	case eng.KindString:
		return value.NewString(tok.String), nil
	case eng.KindNumber:
		return b.buildNumber(tok.Number), nil
	case eng.KindBool:
		return value.NewBool(tok.Bool), nil
	case eng.KindNull:
		return value.Null, nil
	default:
		return nil, &BuildError{Path: path, Message: "unexpected token", Offset: tok.Offset}
	}
}

func (b *Builder) buildNumber(lexeme string) *value.Value {
	switch b.opt.NumberMode {
	case NumberInt64:
		if v, ok := tryParseInt64(lexeme); ok {
			return value.NewNumberFromInt64(v)
		}
		return value.NewNumberFromText(lexeme)
	case NumberFloat64:
		if f, ok := tryParseFloat64(lexeme); ok {
			if nv, ok := value.NewNumberFromFloat64(f, b.opt.AllowNaN); ok {
				return nv
			}
		}
		return value.NewNumberFromText(lexeme)
	default:
		return value.NewNumberFromText(lexeme)
	}
}

func (b *Builder) buildObject(src eng.TokenSource, path string) (*value.Value, error) {
	obj := value.NewObject()
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, b.ioErr(src, err, path)
		}
		if tok.Kind == eng.KindEndObject {
			return obj, nil
		}
		if tok.Kind != eng.KindKey {
			return nil, &BuildError{Path: path, Message: "expected object key", Offset: tok.Offset}
		}
		key := tok.String
		if b.opt.KeyDict != nil {
			key = b.opt.KeyDict.Intern(key)
		}
		childPath := joinPointer(path, key)
		vt, err := src.NextToken()
		if err != nil {
			return nil, b.ioErr(src, err, childPath)
		}
		val, err := b.buildValue(src, vt, childPath)
		if err != nil {
			return nil, err
		}
		// Put implements last-write-wins on a duplicate key (spec §3).
		obj.Put(key, val)
	}
}

func (b *Builder) buildArray(src eng.TokenSource, path string) (*value.Value, error) {
	arr := value.NewArray()
	idx := 0
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, b.ioErr(src, err, path)
		}
		if tok.Kind == eng.KindEndArray {
			return arr, nil
		}
		childPath := joinPointerIndex(path, idx)
		val, err := b.buildValue(src, tok, childPath)
		if err != nil {
			return nil, err
		}
		arr.Append(val)
		idx++
	}
}

func joinPointer(base, token string) string {
	esc := escapePointerToken(token)
	if base == "" {
		return "/" + esc
	}
	return base + "/" + esc
}

func joinPointerIndex(base string, i int) string {
	return joinPointer(base, itoa(i))
}

func escapePointerToken(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	bp := len(buf)
	for i > 0 {
		bp--
		buf[bp] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		bp--
		buf[bp] = '-'
	}
	return string(buf[bp:])
}

func tryParseInt64(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func tryParseFloat64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
