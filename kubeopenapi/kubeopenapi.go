// Package kubeopenapi imports a Kubernetes CRD's openAPIV3Schema (or a bare
// OpenAPI v3 schema object) and compiles it into this module's validator
// tree, instead of into a typed schema-builder DSL (SPEC_FULL §2). Grounded
// on the teacher's kubeopenapi package and further on
// other_examples/kubernetes-kubernetes__subSchema.go's keyword surface;
// local $ref/#/$defs/ resolution exercises the URI scope from schema §4.D
// directly.
package kubeopenapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/velaware/njson/schema"
)

// Import compiles an OpenAPI v3 schema (object/properties/required/items,
// plus the x-kubernetes-* CRD extensions normalize understands) into a
// compiled Draft-4 schema. The input can be a decoded map[string]any, raw
// JSON bytes, or any value encoding/json can marshal.
func Import(doc any, opts Options) (*schema.Schema, Diag, error) {
	d := &simpleDiag{}
	if opts.Profile == "" {
		opts.Profile = ProfileStructuralV1
	}
	if doc == nil {
		return nil, d, errors.New("kubeopenapi: nil schema")
	}
	root, err := toStringMap(doc)
	if err != nil {
		return nil, d, err
	}

	if spec, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = spec
	} else if unwrapped := unwrapCRDSchema(root); unwrapped != nil {
		root = unwrapped
	}

	defs := extractDefs(root)
	visited := make(map[string]bool)
	resolveRefsInPlace(root, defs, d, visited)

	root = normalize(root, opts, d)

	raw, err := json.Marshal(root)
	if err != nil {
		return nil, d, fmt.Errorf("kubeopenapi: re-marshal normalized schema: %w", err)
	}
	s, err := schema.Compile(raw, schema.CompileOptions{})
	if err != nil {
		return nil, d, fmt.Errorf("kubeopenapi: compile: %w", err)
	}
	return s, d, nil
}

// toStringMap coerces schema into a map[string]any, accepting raw JSON
// bytes, an already-decoded map, or anything else encoding/json can
// marshal (e.g. a value decoded from YAML with map[any]any nodes).
func toStringMap(in any) (map[string]any, error) {
	switch t := in.(type) {
	case []byte:
		var m map[string]any
		if err := json.Unmarshal(t, &m); err != nil {
			return nil, fmt.Errorf("kubeopenapi: invalid JSON: %w", err)
		}
		return m, nil
	case map[string]any:
		return t, nil
	default:
		b, err := json.Marshal(yamlNormalizeValue(t))
		if err != nil {
			return nil, fmt.Errorf("kubeopenapi: cannot marshal input: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("kubeopenapi: invalid marshaled JSON: %w", err)
		}
		return m, nil
	}
}

// unwrapCRDSchema extracts openAPIV3Schema from a Kubernetes CRD document:
// spec.versions[].schema.openAPIV3Schema (preferring served=true), falling
// back to the legacy spec.validation.openAPIV3Schema.
func unwrapCRDSchema(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	if vers, ok := spec["versions"].([]any); ok {
		var firstFound map[string]any
		for _, v := range vers {
			vm, _ := v.(map[string]any)
			if vm == nil {
				continue
			}
			served := true
			if sv, ok := vm["served"].(bool); ok {
				served = sv
			}
			if sch, ok := vm["schema"].(map[string]any); ok {
				if oas, ok := sch["openAPIV3Schema"].(map[string]any); ok {
					if served {
						return oas
					}
					if firstFound == nil {
						firstFound = oas
					}
				}
			}
		}
		if firstFound != nil {
			return firstFound
		}
	}
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}
