// Package yaml adapts a YAML document onto the same engine.TokenSource
// contract the JSON lexers implement, so the DOM builder and the SAX
// validator can consume YAML input without either of them knowing it isn't
// JSON (spec §6's "lexer is an external collaborator" extended to a
// non-JSON encoding, per SPEC_FULL §2). It decodes with yaml.v3 into `any`
// and replays the resulting tree as a flat token queue, exactly the shape
// the teacher's codec package used to bridge a non-JSON representation
// (there, a single RFC3339 string; here, an entire document) onto this
// module's contracts.
package yaml

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	eng "github.com/velaware/njson/internal/engine"
)

// NewBytes decodes raw as a single YAML document and returns a TokenSource
// replaying it as SAX events.
func NewBytes(raw []byte) (eng.TokenSource, error) {
	var doc any
	if err := yamlv3.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	toks, err := tokensOf(doc)
	if err != nil {
		return nil, err
	}
	return &source{toks: toks}, nil
}

// NewReader is the io.Reader counterpart of NewBytes; it consumes r fully.
func NewReader(r io.Reader) (eng.TokenSource, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBytes(raw)
}

type source struct {
	toks []eng.Token
	pos  int
}

func (s *source) NextToken() (eng.Token, error) {
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

// Location has no byte-offset meaning once a YAML document has been fully
// decoded into memory; it reports the token index instead.
func (s *source) Location() int64 { return int64(s.pos) }

func tokensOf(v any) ([]eng.Token, error) {
	var out []eng.Token
	if err := appendValue(&out, v); err != nil {
		return nil, err
	}
	return out, nil
}

func appendValue(out *[]eng.Token, v any) error {
	switch t := v.(type) {
	case nil:
		*out = append(*out, eng.Token{Kind: eng.KindNull, Offset: -1})
	case bool:
		*out = append(*out, eng.Token{Kind: eng.KindBool, Bool: t, Offset: -1})
	case string:
		*out = append(*out, eng.Token{Kind: eng.KindString, String: t, Offset: -1})
	case int:
		*out = append(*out, eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(int64(t), 10), Offset: -1})
	case int64:
		*out = append(*out, eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(t, 10), Offset: -1})
	case uint64:
		*out = append(*out, eng.Token{Kind: eng.KindNumber, Number: strconv.FormatUint(t, 10), Offset: -1})
	case float64:
		*out = append(*out, eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(t, 'g', -1, 64), Offset: -1})
	case map[string]any:
		*out = append(*out, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		// YAML mapping order is not preserved through `any` (a Go map has
		// no order); sort keys so the emitted token stream is at least
		// deterministic across runs of the same document.
		sort.Strings(keys)
		for _, k := range keys {
			*out = append(*out, eng.Token{Kind: eng.KindKey, String: k, Offset: -1})
			if err := appendValue(out, t[k]); err != nil {
				return err
			}
		}
		*out = append(*out, eng.Token{Kind: eng.KindEndObject, Offset: -1})
	case map[any]any:
		// yaml.v3 falls back to this shape for non-string-keyed mappings;
		// Draft-4 JSON has no such concept, so stringify each key.
		strMap := make(map[string]any, len(t))
		for k, vv := range t {
			strMap[fmt.Sprint(k)] = vv
		}
		return appendValue(out, strMap)
	case []any:
		*out = append(*out, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, elem := range t {
			if err := appendValue(out, elem); err != nil {
				return err
			}
		}
		*out = append(*out, eng.Token{Kind: eng.KindEndArray, Offset: -1})
	default:
		return fmt.Errorf("yaml: unsupported decoded type %T", t)
	}
	return nil
}
