package njson

import (
	"strconv"
	"strings"
)

// PathRef builds RFC 6901 JSON Pointer paths incrementally, used throughout
// the DOM builder and the validation state machine to stamp Issue.Path
// values (spec §4.D: "#/properties/<p>/items/..." pointer registration).
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code string, class ErrorClass, msg string, params map[string]any) Issue
}

type pathRef struct {
	parts []string
}

// RootPath returns the empty JSON Pointer ("/").
func RootPath() PathRef { return &pathRef{} }

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p *pathRef) Issue(code string, class ErrorClass, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Class: class, Message: msg, Params: params}
}
