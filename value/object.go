package value

import "sort"

// object is the hash-map-backed storage for KindObject values (spec §3:
// "Hash map keyed by string value ... Iteration order is unspecified. Size
// is O(1)."). Insertion order is tracked separately only so the generator
// (package gen) has a deterministic, input-preserving default; it plays no
// role in equality or ordering (see Compare, which always sorts keys).
type object struct {
	m     map[string]*Value
	order []string
}

func newObject() *object {
	return &object{m: make(map[string]*Value)}
}

func (o *object) size() int { return len(o.m) }

func (o *object) get(key string) (*Value, bool) {
	v, ok := o.m[key]
	return v, ok
}

func (o *object) put(key string, v *Value) {
	if _, exists := o.m[key]; !exists {
		o.order = append(o.order, key)
	}
	o.m[key] = v
}

func (o *object) delete(key string) {
	if _, ok := o.m[key]; !ok {
		return
	}
	delete(o.m, key)
	for i, k := range o.order {
		if k == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

func (o *object) each(fn func(key string, v *Value)) {
	for _, k := range o.order {
		fn(k, o.m[k])
	}
}

func (o *object) keysInOrder() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

func (o *object) sortedKeys() []string {
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
