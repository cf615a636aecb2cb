package validator

import "github.com/velaware/njson/value"

// AdditionalItemsPolicy controls how an array validator treats elements
// past the end of a tuple `items` list.
type AdditionalItemsPolicy int

const (
	AdditionalItemsAllow AdditionalItemsPolicy = iota
	AdditionalItemsDeny
	AdditionalItemsSchema
)

// ArrayValidator implements the `items`/`additionalItems`/`minItems`/
// `maxItems`/`uniqueItems` keywords of spec §4.C.
type ArrayValidator struct {
	Items           *Node   // single schema applied to every element
	TupleItems      []*Node // positional schemas, mutually exclusive with Items
	AdditionalItems AdditionalItemsPolicy
	AdditionalNode  *Node
	MinItems        *int
	MaxItems        *int
	UniqueItems     bool
}

// ValidateStructural checks the array-only keywords that don't require
// revalidating an element's own subtree: minItems, maxItems, uniqueItems,
// and rejecting elements past a tuple's length when additionalItems is
// false. The additionalItems schema form isn't checked here for the same
// reason ObjectValidator.ValidateStructural skips additionalProperties'
// schema form: it still requires recursing into the element.
func (av *ArrayValidator) ValidateStructural(v *value.Value) []Failure {
	var out []Failure
	n := v.Size()

	out = append(out, boundedCount(n, av.MinItems, av.MaxItems, CodeTooFewItems, CodeTooManyItems)...)

	if av.UniqueItems {
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				if value.Equal(v.At(i), v.At(j)) {
					out = append(out, Failure{
						Code:    CodeUniqueViolation,
						Message: "duplicate element",
						SubPath: "/" + itoa(i),
					})
					break
				}
			}
		}
	}

	if len(av.TupleItems) > 0 && av.AdditionalItems == AdditionalItemsDeny {
		for i := len(av.TupleItems); i < n; i++ {
			out = append(out, Failure{Code: CodeUnknownProperty, Message: "element past tuple length", SubPath: "/" + itoa(i)})
		}
	}

	return out
}

func (av *ArrayValidator) validate(v *value.Value) []Failure {
	out := av.ValidateStructural(v)
	n := v.Size()

	switch {
	case av.Items != nil:
		for i := 0; i < n; i++ {
			for _, f := range av.Items.Validate(v.At(i)) {
				f.SubPath = "/" + itoa(i) + f.SubPath
				out = append(out, f)
			}
		}
	case len(av.TupleItems) > 0:
		for i := 0; i < n; i++ {
			if i < len(av.TupleItems) {
				for _, f := range av.TupleItems[i].Validate(v.At(i)) {
					f.SubPath = "/" + itoa(i) + f.SubPath
					out = append(out, f)
				}
				continue
			}
			if av.AdditionalItems == AdditionalItemsSchema && av.AdditionalNode != nil {
				for _, f := range av.AdditionalNode.Validate(v.At(i)) {
					f.SubPath = "/" + itoa(i) + f.SubPath
					out = append(out, f)
				}
			}
		}
	}

	return out
}
