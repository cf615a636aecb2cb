package source

import (
	njson "github.com/velaware/njson"
	drvgojson "github.com/velaware/njson/source/gojson"
)

// init in a separate package to avoid import cycle in root. This sets source/gojson's Driver as the
// default driver: goccy/go-json when built with the gojson tag, otherwise its encoding/json stub.
func init() { njson.SetJSONDriver(drvgojson.Driver()) }
