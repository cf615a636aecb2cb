//go:build !gojson

package gojson

import (
	"io"

	njson "github.com/velaware/njson"
	jsonsrc "github.com/velaware/njson/source/json"
)

// Driver returns a stub driver description when the gojson build tag is not
// enabled; it delegates to the encoding/json-based source.
func Driver() njson.JSONDriver { return stub{} }

type stub struct{}

func (stub) NewReader(r io.Reader) njson.Source {
	return njson.SourceFromEngine(jsonsrc.NewReader(r))
}
func (stub) NewBytes(b []byte) njson.Source {
	return njson.SourceFromEngine(jsonsrc.NewBytes(b))
}
func (stub) Name() string { return "encoding/json (gojson stub)" }
