package njson

import (
	"io"
	"sync"

	eng "github.com/velaware/njson/internal/engine"
	jsonsrc "github.com/velaware/njson/source/json"
)

// TokenKind mirrors internal/engine.Kind for callers outside this module
// (e.g. a custom lexer) that need to build a Source without importing
// internal packages.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token is a single SAX event from the lexer contract of spec §6. Number
// retains the lexeme; conversion happens lazily in the value package.
type Token struct {
	Kind   TokenKind
	String string
	Number string
	Bool   bool
	Offset int64
}

// Source abstracts over pluggable JSON lexers. The core treats the lexer as
// an external collaborator (spec §1): anything implementing Source can
// drive the DOM builder and the validation state machine.
type Source interface {
	NextToken() (Token, error)
	Location() int64
}

// JSONDriver constructs a Source from JSON bytes or a reader. The default
// driver is backed by encoding/json; SetJSONDriver swaps in an alternative
// (e.g. the goccy/go-json-backed driver in source/gojson).
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil is ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source {
	return &engineSourceAdapter{inner: jsonsrc.NewReader(r)}
}
func (defaultJSONDriver) NewBytes(b []byte) Source {
	return &engineSourceAdapter{inner: jsonsrc.NewBytes(b)}
}
func (defaultJSONDriver) Name() string { return "encoding/json" }

// JSONReader wraps an io.Reader as a Source using the current JSON driver.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a Source using the current JSON driver.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// SourceFromEngine wraps an internal engine.TokenSource as a Source.
func SourceFromEngine(inner eng.TokenSource) Source {
	return &engineSourceAdapter{inner: inner}
}

// EnforceSource wraps a Source with depth/size/duplicate-key enforcement
// derived from opt (spec §5's "caller enforces timeouts/limits externally"
// made concrete for depth and byte-count).
func EnforceSource(s Source, opt ParseOpt) Source {
	return enforceSourceWith(s, opt, nil)
}

// EnforceSourceIfNeeded skips the enforcement wrapper entirely when every
// limit is disabled, avoiding overhead on the common unrestricted path.
func EnforceSourceIfNeeded(s Source, opt ParseOpt) Source {
	if opt.Strictness.OnDuplicateKey == Ignore && opt.MaxDepth == 0 && opt.MaxBytes == 0 {
		return s
	}
	return EnforceSource(s, opt)
}

// EnforceSourceWith behaves like EnforceSource but forwards non-fatal
// issues (e.g. a Warn-level duplicate key) to sink.
func EnforceSourceWith(s Source, opt ParseOpt, sink func(Issue)) Source {
	return enforceSourceWith(s, opt, sink)
}

func enforceSourceWith(s Source, opt ParseOpt, sink func(Issue)) Source {
	var forward func(eng.SimpleIssue)
	if sink != nil {
		forward = func(si eng.SimpleIssue) {
			sink(Issue{Path: si.Path, Code: si.Code, Class: ClassValidation, Message: si.Message, Offset: s.Location()})
		}
	}
	engSrc := EngineTokenSource(s)
	enforced := eng.WrapWithEnforcement(engSrc, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   forward,
		FailFast:    opt.FailFast,
	})
	return SourceFromEngine(enforced)
}

type engineSourceAdapter struct {
	inner eng.TokenSource
}

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: fromEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineSourceAdapter) Location() int64 { return s.inner.Location() }

// EngineTokenSource adapts a public Source back into an internal
// engine.TokenSource, for code that needs to wrap it with enforcement.
func EngineTokenSource(s Source) eng.TokenSource { return &tokenSourceAdapter{src: s} }

type tokenSourceAdapter struct{ src Source }

func (a *tokenSourceAdapter) NextToken() (eng.Token, error) {
	t, err := a.src.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: toEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (a *tokenSourceAdapter) Location() int64 { return a.src.Location() }

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineKind(k eng.Kind) TokenKind {
	switch k {
	case eng.KindBeginObject:
		return TokenBeginObject
	case eng.KindEndObject:
		return TokenEndObject
	case eng.KindBeginArray:
		return TokenBeginArray
	case eng.KindEndArray:
		return TokenEndArray
	case eng.KindKey:
		return TokenKey
	case eng.KindString:
		return TokenString
	case eng.KindNumber:
		return TokenNumber
	case eng.KindBool:
		return TokenBool
	default:
		return TokenNull
	}
}

func toEngineKind(k TokenKind) eng.Kind {
	switch k {
	case TokenBeginObject:
		return eng.KindBeginObject
	case TokenEndObject:
		return eng.KindEndObject
	case TokenBeginArray:
		return eng.KindBeginArray
	case TokenEndArray:
		return eng.KindEndArray
	case TokenKey:
		return eng.KindKey
	case TokenString:
		return eng.KindString
	case TokenNumber:
		return eng.KindNumber
	case TokenBool:
		return eng.KindBool
	default:
		return eng.KindNull
	}
}
