package kubeopenapi

import (
	"bytes"
	"errors"
	"io"

	"github.com/velaware/njson/schema"
)

// ImportYAMLForCRDKind scans a multi-document YAML stream (e.g. a CRD
// bundle) and imports the first CustomResourceDefinition whose
// spec.names.kind matches kind. Decoded with StrictYAMLReader so a
// duplicate key anywhere in the bundle surfaces as an error rather than
// silently overwriting an earlier value.
func ImportYAMLForCRDKind(data []byte, kind string, opts Options) (*schema.Schema, Diag, error) {
	return importYAMLForCRD(data, opts, func(m map[string]any) bool {
		spec, ok := m["spec"].(map[string]any)
		if !ok {
			return false
		}
		names, ok := spec["names"].(map[string]any)
		if !ok {
			return false
		}
		k, _ := names["kind"].(string)
		return k == kind
	})
}

// ImportYAMLForCRDName scans a multi-document YAML stream and imports the
// CustomResourceDefinition with the given metadata.name.
func ImportYAMLForCRDName(data []byte, name string, opts Options) (*schema.Schema, Diag, error) {
	return importYAMLForCRD(data, opts, func(m map[string]any) bool {
		meta, ok := m["metadata"].(map[string]any)
		if !ok {
			return false
		}
		n, _ := meta["name"].(string)
		return n == name
	})
}

func importYAMLForCRD(data []byte, opts Options, match func(map[string]any) bool) (*schema.Schema, Diag, error) {
	r := NewStrictYAMLReader(bytes.NewReader(data))
	for {
		doc, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &simpleDiag{}, err
		}
		m := yamlAnyToStringMap(doc)
		if m == nil {
			continue
		}
		if k, _ := m["kind"].(string); k != "CustomResourceDefinition" {
			continue
		}
		if !match(m) {
			continue
		}
		return Import(m, opts)
	}
	return nil, &simpleDiag{}, errors.New("kubeopenapi: matching CRD not found in YAML bundle")
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
