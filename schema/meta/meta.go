// Package meta embeds the JSON-Schema Draft-4 meta-schema and registers it
// at init time, grounded on santhosh-tekuri/jsonschema's Draft variables
// (other_examples/santhosh-tekuri-jsonschema__draft2019.go's AddResource
// pattern) and pbnjson's compiled-in draft-04 validators
// (original_source/pbnjson_c/validation/validation_api.c).
package meta

// Draft4URI is the canonical identifier of the Draft-4 meta-schema, the
// `$schema` value registered at init. A schema document that omits
// `$schema` is compiled as Draft-4 without consulting the registry.
const Draft4URI = "http://json-schema.org/draft-04/schema#"

// Draft4Schema is the Draft-4 meta-schema document itself, reproduced
// verbatim from the json-schema.org publication. A compiler can validate
// an input schema document against it before compiling, catching malformed
// schemas (e.g. `type` not one of the seven names) as a schema-class error
// rather than surfacing as a confusing compile panic.
const Draft4Schema = `{
    "id": "http://json-schema.org/draft-04/schema#",
    "$schema": "http://json-schema.org/draft-04/schema#",
    "description": "Core schema meta-schema",
    "definitions": {
        "schemaArray": {
            "type": "array",
            "minItems": 1,
            "items": { "$ref": "#" }
        },
        "positiveInteger": {
            "type": "integer",
            "minimum": 0
        },
        "positiveIntegerDefault0": {
            "allOf": [ { "$ref": "#/definitions/positiveInteger" }, { "default": 0 } ]
        },
        "simpleTypes": {
            "enum": [ "array", "boolean", "integer", "null", "number", "object", "string" ]
        },
        "stringArray": {
            "type": "array",
            "items": { "type": "string" },
            "minItems": 1,
            "uniqueItems": true
        }
    },
    "type": "object",
    "properties": {
        "id": { "type": "string", "format": "uri" },
        "$schema": { "type": "string", "format": "uri" },
        "title": { "type": "string" },
        "description": { "type": "string" },
        "default": {},
        "multipleOf": { "type": "number", "minimum": 0, "exclusiveMinimum": true },
        "maximum": { "type": "number" },
        "exclusiveMaximum": { "type": "boolean", "default": false },
        "minimum": { "type": "number" },
        "exclusiveMinimum": { "type": "boolean", "default": false },
        "maxLength": { "$ref": "#/definitions/positiveInteger" },
        "minLength": { "$ref": "#/definitions/positiveIntegerDefault0" },
        "pattern": { "type": "string", "format": "regex" },
        "additionalItems": {
            "anyOf": [ { "type": "boolean" }, { "$ref": "#" } ],
            "default": {}
        },
        "items": {
            "anyOf": [ { "$ref": "#" }, { "$ref": "#/definitions/schemaArray" } ],
            "default": {}
        },
        "maxItems": { "$ref": "#/definitions/positiveInteger" },
        "minItems": { "$ref": "#/definitions/positiveIntegerDefault0" },
        "uniqueItems": { "type": "boolean", "default": false },
        "maxProperties": { "$ref": "#/definitions/positiveInteger" },
        "minProperties": { "$ref": "#/definitions/positiveIntegerDefault0" },
        "required": { "$ref": "#/definitions/stringArray" },
        "additionalProperties": {
            "anyOf": [ { "type": "boolean" }, { "$ref": "#" } ],
            "default": {}
        },
        "definitions": {
            "type": "object",
            "additionalProperties": { "$ref": "#" },
            "default": {}
        },
        "properties": {
            "type": "object",
            "additionalProperties": { "$ref": "#" },
            "default": {}
        },
        "patternProperties": {
            "type": "object",
            "additionalProperties": { "$ref": "#" },
            "default": {}
        },
        "dependencies": {
            "type": "object",
            "additionalProperties": {
                "anyOf": [ { "$ref": "#" }, { "$ref": "#/definitions/stringArray" } ]
            }
        },
        "enum": {
            "type": "array",
            "minItems": 1,
            "uniqueItems": true
        },
        "type": {
            "anyOf": [
                { "$ref": "#/definitions/simpleTypes" },
                {
                    "type": "array",
                    "items": { "$ref": "#/definitions/simpleTypes" },
                    "minItems": 1,
                    "uniqueItems": true
                }
            ]
        },
        "format": { "type": "string" },
        "allOf": { "$ref": "#/definitions/schemaArray" },
        "anyOf": { "$ref": "#/definitions/schemaArray" },
        "oneOf": { "$ref": "#/definitions/schemaArray" },
        "not": { "$ref": "#" }
    },
    "dependencies": {
        "exclusiveMaximum": [ "maximum" ],
        "exclusiveMinimum": [ "minimum" ]
    },
    "default": {}
}`

// registry is the package-level set of meta-schemas known by URI, mirroring
// AddResource's registration side effect without requiring a compiler
// instance to exist first; schema.Compile consults it by URI at compile
// time to validate `$schema` references.
var registry = map[string]string{
	Draft4URI: Draft4Schema,
}

func init() {
	// Registered eagerly so every compiler sees draft-04 without needing to
	// fetch it over the network, matching pbnjson's statically linked
	// validators.
	registry[Draft4URI] = Draft4Schema
}

// Lookup returns the raw meta-schema document registered under uri, and
// whether one was found.
func Lookup(uri string) (string, bool) {
	doc, ok := registry[uri]
	return doc, ok
}

// Register adds or overrides the meta-schema document known under uri,
// allowing a caller to vendor additional drafts the way AddResource lets a
// santhosh-tekuri Compiler learn new schema dialects.
func Register(uri, document string) {
	registry[uri] = document
}
