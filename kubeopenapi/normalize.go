package kubeopenapi

// normalize walks an OpenAPI v3 / Kubernetes CRD schema node and rewrites it
// in place into a Draft-4-compatible shape schema.Compile understands,
// translating the handful of constructs plain Draft-4 has no keyword for
// (nullable, x-kubernetes-int-or-string, x-kubernetes-list-type, ...) and
// recording what it cannot express faithfully via d.
func normalize(doc map[string]any, opts Options, d *simpleDiag) map[string]any {
	if doc == nil {
		return nil
	}

	if isIntOrString(doc) {
		delete(doc, "x-kubernetes-int-or-string")
		delete(doc, "type")
		doc["anyOf"] = []any{
			map[string]any{"type": "integer"},
			map[string]any{"type": "string"},
		}
	}

	if nullableTrue(doc) {
		delete(doc, "nullable")
		addNullType(doc)
	}

	if b, ok := doc["x-kubernetes-preserve-unknown-fields"].(bool); ok {
		delete(doc, "x-kubernetes-preserve-unknown-fields")
		if b {
			if _, has := doc["additionalProperties"]; !has {
				doc["additionalProperties"] = true
			}
		}
	}

	if opts.EnableEmbeddedChecks && embeddedResourceFlag(doc) {
		applyEmbeddedResourceShape(doc)
	}

	if lt, ok := doc["x-kubernetes-list-type"].(string); ok {
		delete(doc, "x-kubernetes-list-type")
		delete(doc, "x-kubernetes-list-map-keys")
		switch lt {
		case "set", "map":
			// A composite list-map-keys uniqueness check needs a per-key
			// comparison this compiler's uniqueItems (whole-element
			// equality) does not perform; approximated as whole-element
			// uniqueness, which is exact for "set" and lenient for "map"
			// (accepts lists whose elements share key values but differ in
			// other fields, which a key-subset comparison would reject).
			doc["uniqueItems"] = true
			if lt == "map" {
				d.warnf("x-kubernetes-list-type=map approximated as whole-element uniqueItems, not per-key")
			}
		case "atomic":
			// no constraint implied
		}
	}

	if _, ok := doc["contains"]; ok {
		delete(doc, "contains")
		delete(doc, "minContains")
		delete(doc, "maxContains")
		d.warnf("contains/minContains/maxContains is not supported by this module's array validator; dropped")
	}
	if _, ok := doc["propertyNames"]; ok {
		delete(doc, "propertyNames")
		d.warnf("propertyNames is not supported by this module's object validator; dropped")
	}

	if pm, ok := doc["properties"].(map[string]any); ok {
		for name, raw := range pm {
			if sub, ok := raw.(map[string]any); ok {
				pm[name] = normalize(sub, opts, d)
			}
		}
	}
	if ppm, ok := doc["patternProperties"].(map[string]any); ok {
		for pat, raw := range ppm {
			if sub, ok := raw.(map[string]any); ok {
				ppm[pat] = normalize(sub, opts, d)
			}
		}
	}
	if ap, ok := doc["additionalProperties"].(map[string]any); ok {
		doc["additionalProperties"] = normalize(ap, opts, d)
	}
	if it, ok := doc["items"].(map[string]any); ok {
		doc["items"] = normalize(it, opts, d)
	}
	if it, ok := doc["items"].([]any); ok {
		for i, raw := range it {
			if sub, ok := raw.(map[string]any); ok {
				it[i] = normalize(sub, opts, d)
			}
		}
	}
	for _, kw := range []string{"allOf", "anyOf", "oneOf"} {
		if list, ok := doc[kw].([]any); ok {
			for i, raw := range list {
				if sub, ok := raw.(map[string]any); ok {
					list[i] = normalize(sub, opts, d)
				}
			}
		}
	}
	if not, ok := doc["not"].(map[string]any); ok {
		doc["not"] = normalize(not, opts, d)
	}
	if defs, ok := doc["$defs"].(map[string]any); ok {
		for name, raw := range defs {
			if sub, ok := raw.(map[string]any); ok {
				defs[name] = normalize(sub, opts, d)
			}
		}
	}
	if defs, ok := doc["definitions"].(map[string]any); ok {
		for name, raw := range defs {
			if sub, ok := raw.(map[string]any); ok {
				defs[name] = normalize(sub, opts, d)
			}
		}
	}

	if _, has := doc["additionalProperties"]; !has {
		if t, _ := doc["type"].(string); t == "object" {
			switch opts.Unknown {
			case UnknownStrict:
				doc["additionalProperties"] = false
			case UnknownPreserve:
				doc["additionalProperties"] = true
			}
		}
	}

	return doc
}

func isIntOrString(ps map[string]any) bool {
	b, ok := ps["x-kubernetes-int-or-string"].(bool)
	return ok && b
}

func nullableTrue(ps map[string]any) bool {
	b, ok := ps["nullable"].(bool)
	return ok && b
}

func embeddedResourceFlag(ps map[string]any) bool {
	b, ok := ps["x-kubernetes-embedded-resource"].(bool)
	return ok && b
}

// addNullType widens a schema's type keyword to also accept null, matching
// OpenAPI 3.0's separate "nullable: true" flag onto Draft-4's array-of-types
// form of "type".
func addNullType(doc map[string]any) {
	switch t := doc["type"].(type) {
	case string:
		doc["type"] = []any{t, "null"}
	case []any:
		for _, v := range t {
			if s, _ := v.(string); s == "null" {
				return
			}
		}
		doc["type"] = append(t, "null")
	}
}

// applyEmbeddedResourceShape adds the minimal apiVersion/kind/metadata
// presence and type constraints x-kubernetes-embedded-resource implies,
// without overriding any of those fields if the document already declares
// them explicitly.
func applyEmbeddedResourceShape(doc map[string]any) {
	delete(doc, "x-kubernetes-embedded-resource")
	if doc["type"] == nil {
		doc["type"] = "object"
	}
	pm, ok := doc["properties"].(map[string]any)
	if !ok {
		pm = map[string]any{}
		doc["properties"] = pm
	}
	ensureType := func(name, typ string) {
		if _, exists := pm[name]; !exists {
			pm[name] = map[string]any{"type": typ}
		}
	}
	ensureType("apiVersion", "string")
	ensureType("kind", "string")
	ensureType("metadata", "object")

	req, _ := doc["required"].([]any)
	have := map[string]bool{}
	for _, r := range req {
		if s, ok := r.(string); ok {
			have[s] = true
		}
	}
	for _, name := range []string{"apiVersion", "kind", "metadata"} {
		if !have[name] {
			req = append(req, name)
		}
	}
	doc["required"] = req
}
