package kubeopenapi

import "testing"

const crdBundle = `
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.example.com
spec:
  names:
    kind: Widget
  versions:
  - name: v1
    served: true
    schema:
      openAPIV3Schema:
        type: object
        properties:
          size:
            type: integer
        required: [size]
---
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: gadgets.example.com
spec:
  names:
    kind: Gadget
  versions:
  - name: v1
    served: true
    schema:
      openAPIV3Schema:
        type: object
        properties:
          color:
            type: string
`

func TestImportYAMLForCRDKind(t *testing.T) {
	s, _, err := ImportYAMLForCRDKind([]byte(crdBundle), "Widget", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"size":1}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
	if f := s.Validate(parseValue(t, `{}`)); len(f) == 0 {
		t.Fatal("want reject: missing required size")
	}
}

func TestImportYAMLForCRDName(t *testing.T) {
	s, _, err := ImportYAMLForCRDName([]byte(crdBundle), "gadgets.example.com", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Validate(parseValue(t, `{"color":"red"}`)); len(f) != 0 {
		t.Fatalf("want accept, got %v", f)
	}
}

func TestImportYAMLForCRDKindNotFound(t *testing.T) {
	_, _, err := ImportYAMLForCRDKind([]byte(crdBundle), "NoSuchKind", Options{})
	if err == nil {
		t.Fatal("want an error when no CRD matches")
	}
}
