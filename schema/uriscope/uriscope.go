// Package uriscope tracks the base-URI scope stack a compiler walks while
// descending into a schema document, and resolves `$ref` against a registry
// of documents and fragments, grounded on pbnjson's
// validation/uri_resolver.c (SPEC_FULL §3: resolver caching).
package uriscope

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/velaware/njson/schema/validator"
)

// Resolver fetches the raw bytes of a schema document named by an absolute
// URI that is not already registered, e.g. to follow a `$ref` that points
// outside the document currently being compiled. A nil Resolver means only
// refs within documents already registered via AddDocument can resolve.
type Resolver func(uri string) ([]byte, error)

// document holds every validator.Node registered under one base document,
// keyed by its fragment (JSON Pointer, "#" for the document root).
type document struct {
	fragments map[string]*validator.Node
}

// Registry is the uri_resolver_new() equivalent: a resolved-document table
// plus a pending queue of (document, fragment) pairs still waiting on a
// validator.Node, so Resolve's second pass can wire every RefNode in one
// traversal instead of re-walking the whole compiled tree.
type Registry struct {
	documents map[string]*document
	pending   []pendingRef
	resolver  Resolver
	cache     map[string][]byte // raw bytes of resolver-fetched documents, SPEC_FULL §3
}

type pendingRef struct {
	ref      *validator.RefNode
	document string
	fragment string
}

// New returns an empty Registry. Pass a Resolver to allow $ref targets
// outside documents added via AddDocument to be fetched on demand.
func New(resolver Resolver) *Registry {
	return &Registry{
		documents: map[string]*document{},
		resolver:  resolver,
		cache:     map[string][]byte{},
	}
}

// AddDocument registers doc (an absolute URI, possibly "" for the root
// schema with no $id) if it is not already known, and returns its
// canonical key.
func (r *Registry) AddDocument(doc string) string {
	if _, ok := r.documents[doc]; !ok {
		r.documents[doc] = &document{fragments: map[string]*validator.Node{}}
	}
	return doc
}

// AddValidator registers n under document/fragment. fragment is normalized
// to "#" when empty, matching uri_resolver.c's _check_fragment. Returns
// false if the document already has an entry at that fragment.
func (r *Registry) AddValidator(doc, fragment string, n *validator.Node) bool {
	fragment = normalizeFragment(fragment)
	d, ok := r.documents[doc]
	if !ok {
		r.AddDocument(doc)
		d = r.documents[doc]
	}
	if _, exists := d.fragments[fragment]; exists {
		return false
	}
	d.fragments[fragment] = n
	return true
}

// Lookup returns the validator.Node registered at document/fragment, or
// nil if none is registered (yet).
func (r *Registry) Lookup(doc, fragment string) *validator.Node {
	fragment = normalizeFragment(fragment)
	d, ok := r.documents[doc]
	if !ok {
		return nil
	}
	return d.fragments[fragment]
}

// DeferRef records ref as needing resolution against document/fragment once
// every schema in the current compile unit (and any resolver-fetched
// document) has registered its validators. Resolve wires every deferred ref
// in one pass.
func (r *Registry) DeferRef(ref *validator.RefNode, doc, fragment string) {
	r.pending = append(r.pending, pendingRef{ref: ref, document: doc, fragment: normalizeFragment(fragment)})
}

// Resolve wires every RefNode deferred via DeferRef to its target node,
// fetching unregistered documents through the Resolver if one was
// configured. It returns the raw URIs that could not be resolved, mirroring
// uri_resolver_get_unresolved's "documents with an empty fragment table"
// check generalized to per-ref granularity.
func (r *Registry) Resolve(compile func(raw []byte, baseURI string) error) []string {
	var unresolved []string
	compiled := map[string]bool{}
	// Indexed loop: compiling a fetched document can append to r.pending.
	for i := 0; i < len(r.pending); i++ {
		p := r.pending[i]
		if n := r.Lookup(p.document, p.fragment); n != nil {
			p.ref.Resolved = n
			continue
		}
		if r.resolver != nil && compile != nil && !compiled[p.document] {
			compiled[p.document] = true
			if raw, ok := r.fetch(p.document); ok {
				if err := compile(raw, p.document); err == nil {
					if n := r.Lookup(p.document, p.fragment); n != nil {
						p.ref.Resolved = n
						continue
					}
				}
			}
		}
		unresolved = append(unresolved, p.document+p.fragment)
	}
	return unresolved
}

// fetch returns document's bytes, consulting and populating the resolver
// cache so a document referenced by multiple $refs is fetched once
// (SPEC_FULL §3's resolver-caching requirement).
func (r *Registry) fetch(document string) ([]byte, bool) {
	if b, ok := r.cache[document]; ok {
		return b, true
	}
	if r.resolver == nil {
		return nil, false
	}
	b, err := r.resolver(document)
	if err != nil {
		return nil, false
	}
	r.cache[document] = b
	return b, true
}

func normalizeFragment(fragment string) string {
	if fragment == "" {
		return "#"
	}
	if fragment[0] != '#' {
		return "#" + fragment
	}
	return fragment
}

// Scope is the base-URI stack a compiler pushes/pops while descending into
// nested `$id`-bearing subschemas, so a relative `$ref` resolves against
// the nearest enclosing `$id` rather than always the document root.
type Scope struct {
	stack []string
}

// NewScope returns a Scope seeded with the document's root base URI.
func NewScope(base string) *Scope {
	return &Scope{stack: []string{base}}
}

// Push resolves id against the current base (RFC 3986 relative resolution)
// and enters a new scope for it, returning the resolved absolute URI.
func (s *Scope) Push(id string) (string, error) {
	if id == "" {
		resolved := s.Current()
		s.stack = append(s.stack, resolved)
		return resolved, nil
	}
	base, err := url.Parse(s.Current())
	if err != nil {
		return "", fmt.Errorf("uriscope: invalid base %q: %w", s.Current(), err)
	}
	rel, err := url.Parse(id)
	if err != nil {
		return "", fmt.Errorf("uriscope: invalid $id %q: %w", id, err)
	}
	resolved := base.ResolveReference(rel).String()
	s.stack = append(s.stack, resolved)
	return resolved, nil
}

// Pop leaves the most recently pushed scope.
func (s *Scope) Pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Current returns the innermost active base URI.
func (s *Scope) Current() string {
	return s.stack[len(s.stack)-1]
}

// SplitRef separates a `$ref` value into its document part and fragment
// part, resolving the document part against base. A ref of "#/definitions/x"
// resolves to (base, "/definitions/x"); a ref of "other.json#/x" resolves
// to (base-relative "other.json", "/x").
func SplitRef(base, ref string) (doc, fragment string, err error) {
	i := strings.IndexByte(ref, '#')
	var docPart, fragPart string
	if i < 0 {
		docPart, fragPart = ref, ""
	} else {
		docPart, fragPart = ref[:i], ref[i+1:]
	}
	if docPart == "" {
		return base, fragPart, nil
	}
	baseURL, perr := url.Parse(base)
	if perr != nil {
		return "", "", fmt.Errorf("uriscope: invalid base %q: %w", base, perr)
	}
	relURL, perr := url.Parse(docPart)
	if perr != nil {
		return "", "", fmt.Errorf("uriscope: invalid $ref document %q: %w", docPart, perr)
	}
	return baseURL.ResolveReference(relURL).String(), fragPart, nil
}
