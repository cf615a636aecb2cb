package kubeopenapi

import "fmt"

// UnknownBehavior configures how unknown object fields are treated when no
// explicit additionalProperties is present on a schema node.
type UnknownBehavior int

const (
	// UnknownPrune leaves additionalProperties unset: Kubernetes structural
	// schemas accept and silently prune unrecognized fields at admission
	// time, a mutation this module (validate-only, per spec §1) does not
	// perform; leaving the keyword unset validates as accept, matching the
	// net effect for callers that discard unknown fields themselves.
	UnknownPrune UnknownBehavior = iota
	// UnknownStrict sets additionalProperties: false, rejecting any field
	// not named under properties/patternProperties.
	UnknownStrict
	// UnknownPreserve sets additionalProperties: true.
	UnknownPreserve
)

// Profile selects a compatibility profile for structural-schema checks this
// module does not itself enforce (reserved for caller-side policy). Import
// sets an empty Profile to ProfileStructuralV1 and otherwise does not read
// it; its behavior is the same under every Profile.
type Profile string

const (
	ProfileStructuralV1 Profile = "structural-v1"
	ProfileLoose        Profile = "loose"
)

// Options controls how Import translates a Kubernetes/OpenAPI v3 schema
// document into a Draft-4 schema document before compiling it.
type Options struct {
	Profile Profile
	Unknown UnknownBehavior
	// EnableEmbeddedChecks turns on minimal apiVersion/kind/metadata
	// presence enforcement for fields marked x-kubernetes-embedded-resource.
	EnableEmbeddedChecks bool
}

// Diag carries non-fatal warnings produced during import: constructs the
// source document uses that this translation approximates or drops.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
