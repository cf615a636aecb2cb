// Command njson validates a JSON or YAML document against a JSON Schema
// draft-4 file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	njson "github.com/velaware/njson"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "njson CLI\n\nUsage:\n  njson validate -schema schema.json [-yaml] file.json\n\nExits 0 if the document validates, 1 if it has validation issues, 2 on usage error.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath string
	var yamlInput bool
	var yamlSchema bool
	fs.StringVar(&schemaPath, "schema", "", "path to the JSON Schema file")
	fs.BoolVar(&yamlInput, "yaml", false, "treat the input document as YAML")
	fs.BoolVar(&yamlSchema, "yaml-schema", false, "treat the schema file as YAML")
	_ = fs.Parse(args)
	if schemaPath == "" || fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	docPath := fs.Arg(0)

	rawSchema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("njson: reading schema %s: %v", schemaPath, err)
	}
	var sch *njson.Schema
	if yamlSchema {
		sch, err = njson.CompileSchemaYAML(rawSchema)
	} else {
		sch, err = njson.CompileSchema(rawSchema)
	}
	if err != nil {
		log.Fatalf("njson: compiling schema %s: %v", schemaPath, err)
	}

	rawDoc, err := os.ReadFile(docPath)
	if err != nil {
		log.Fatalf("njson: reading document %s: %v", docPath, err)
	}

	var issues njson.Issues
	if yamlInput {
		_, issues, err = njson.ParseYAMLInto(rawDoc, sch)
	} else {
		_, issues, err = njson.Parse(rawDoc, sch)
	}
	if err != nil {
		if iss, ok := njson.AsIssues(err); ok {
			printIssues(iss)
			os.Exit(1)
		}
		log.Fatalf("njson: %v", err)
	}
	if len(issues) > 0 {
		printIssues(issues)
		os.Exit(1)
	}
	fmt.Printf("%s: valid\n", docPath)
}

func printIssues(issues njson.Issues) {
	var b strings.Builder
	for _, iss := range issues {
		fmt.Fprintf(&b, "%s: %s [%s]\n", iss.Path, iss.Message, iss.Code)
	}
	fmt.Fprint(os.Stderr, b.String())
}
