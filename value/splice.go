package value

// Ownership is the ownership transfer mode of spec §4.A's Splice operation.
type Ownership int

const (
	// Transfer moves elements out of src; src's size shrinks and the
	// vacated holes are compacted.
	Transfer Ownership = iota
	// Copy deep-duplicates elements; src is left untouched.
	Copy
	// NoChange borrows a shared reference; both containers end up
	// holding a reference to the same elements.
	NoChange
)

// Splice removes removeCount elements from dst starting at index and
// inserts src[begin:end) in their place, per spec §4.A. dst and src must be
// arrays. Reports false without mutating either container on any bounds
// violation or cycle.
func Splice(dst *Value, index, removeCount int, src *Value, begin, end int, mode Ownership) bool {
	if dst == nil || src == nil || dst.kind != KindArray || src.kind != KindArray {
		return false
	}
	if index < 0 || index > len(dst.items) || removeCount < 0 || index+removeCount > len(dst.items) {
		return false
	}
	if begin < 0 || end > len(src.items) || begin > end {
		return false
	}

	insert := make([]*Value, 0, end-begin)
	for i := begin; i < end; i++ {
		e := src.items[i]
		switch mode {
		case Transfer, NoChange:
			insert = append(insert, e)
		case Copy:
			insert = append(insert, Duplicate(e))
		}
	}

	for _, e := range insert {
		if wouldCycle(dst, e) {
			if mode == Copy {
				for _, d := range insert {
					d.Release()
				}
			}
			return false
		}
	}

	for i := index; i < index+removeCount; i++ {
		dst.items[i].Release()
	}

	tail := append([]*Value{}, dst.items[index+removeCount:]...)
	dst.items = append(dst.items[:index], insert...)
	dst.items = append(dst.items, tail...)

	// Transfer moves src's existing reference into dst and Copy hands over
	// Duplicate's freshly-owned reference; neither needs a new retain.
	// NoChange leaves src holding its reference too, so dst needs its own.
	if mode == NoChange {
		for _, e := range insert {
			e.Retain()
		}
	}

	if mode == Transfer {
		// Compact the hole left in src: remove [begin:end) and shift.
		src.items = append(src.items[:begin], src.items[end:]...)
	}

	return true
}

// Duplicate returns a structurally equal deep copy of v sharing no mutable
// storage with it (spec §8's round-trip property).
func Duplicate(v *Value) *Value {
	if v == nil {
		return nil
	}
	if !v.valid {
		return Invalid
	}
	switch v.kind {
	case KindNull:
		return Null
	case KindBool:
		return NewBool(v.b)
	case KindString:
		return NewString(v.str)
	case KindNumber:
		raw, _ := v.num.AsRaw()
		switch v.num.tag {
		case TagInt64:
			return NewNumberFromInt64(v.i64())
		case TagFloat64:
			nv, _ := NewNumberFromFloat64(v.f64(), true)
			return nv
		default:
			return NewNumberFromText(raw)
		}
	case KindArray:
		out := NewArray()
		for _, e := range v.items {
			out.Append(Duplicate(e))
		}
		return out
	case KindObject:
		out := NewObject()
		v.obj.each(func(k string, e *Value) {
			out.Put(k, Duplicate(e))
		})
		return out
	default:
		return Invalid
	}
}

func (v *Value) i64() int64   { i, _ := v.num.AsInt64(); return i }
func (v *Value) f64() float64 { f, _ := v.num.AsFloat64(); return f }
