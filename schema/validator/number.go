package validator

import (
	"math"

	"github.com/velaware/njson/value"
)

// NumberValidator implements the `minimum`/`maximum`/`exclusiveMinimum`/
// `exclusiveMaximum`/`multipleOf` keywords of spec §4.C.
type NumberValidator struct {
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
}

func (nv *NumberValidator) validate(v *value.Value) []Failure {
	num, ok := v.Number()
	if !ok {
		return nil
	}
	f, st := num.AsFloat64()
	if !st.OK() && !st.PrecisionLoss() {
		return []Failure{{Code: CodeTypeMismatch, Message: "value is not a finite number"}}
	}

	var out []Failure
	if nv.Minimum != nil {
		if nv.ExclusiveMinimum {
			if f <= *nv.Minimum {
				out = append(out, Failure{Code: CodeTooSmall, Message: "value must exceed exclusiveMinimum"})
			}
		} else if f < *nv.Minimum {
			out = append(out, Failure{Code: CodeTooSmall, Message: "value below minimum"})
		}
	}
	if nv.Maximum != nil {
		if nv.ExclusiveMaximum {
			if f >= *nv.Maximum {
				out = append(out, Failure{Code: CodeTooBig, Message: "value must be less than exclusiveMaximum"})
			}
		} else if f > *nv.Maximum {
			out = append(out, Failure{Code: CodeTooBig, Message: "value above maximum"})
		}
	}
	if nv.MultipleOf != nil && *nv.MultipleOf != 0 {
		q := f / *nv.MultipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			out = append(out, Failure{Code: CodeTooBig, Message: "value is not a multiple of multipleOf"})
		}
	}
	return out
}
