package njson

// Package njson provides:
//
// - A reference-counted DOM value model with structural equality and a total
//   order (package value).
// - A JSON-Schema (Draft-4) compiler that lowers a schema document into a
//   validator tree plus a URI-indexed resolver for $ref (package schema).
// - A SAX-driven validation state machine that walks the validator tree in
//   lock-step with DOM construction, rejecting non-conforming input before
//   the full tree is materialized (package sax).
//
// Design policy:
// - Keep only the public façade in the root package; put core algorithms
//   under their own package (value, schema, sax, gen).
// - Place the CLI under cmd/njson and HTTP middleware under middleware/.
// - Errors are reported as Issues (JSON Pointer path, code, class), never as
//   ad hoc strings.
//
// Typical usage:
//
//  sch, err := njson.CompileSchema(schemaBytes)
//  doc, issues, err := njson.Parse(inputBytes, sch)
