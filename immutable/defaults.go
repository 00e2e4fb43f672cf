package immutable

import "reflect"

// Values is a field map keyed by property name. It is the object form of a
// constructor call and the partial passed to Merge.
type Values map[string]any

// Generator computes a default value. Generators are invoked once per
// construction, so every record gets its own value.
type Generator func() any

// Defaults is an ordered Default Map: property names in declaration order,
// each paired with a literal default or a generator.
//
// The zero value and nil are both an empty map.
//
//	defs := immutable.NewDefaults().
//		Prop("id", nil).
//		Prop("retries", 3).
//		Lazy("createdAt", func() any { return time.Now() })
type Defaults struct {
	names  []string
	values map[string]any
}

// NewDefaults returns an empty Default Map.
func NewDefaults() *Defaults {
	return &Defaults{values: map[string]any{}}
}

// Prop declares name with a default value and returns d for chaining.
//
// A nil value declares a settable property without a default. Declaring a
// name again replaces its value and keeps its original position. A value that
// is a niladic function with one result is treated as a generator.
func (d *Defaults) Prop(name string, value any) *Defaults {
	if d.values == nil {
		d.values = map[string]any{}
	}
	if _, exists := d.values[name]; !exists {
		d.names = append(d.names, name)
	}
	d.values[name] = value
	return d
}

// Lazy declares name with a generator default and returns d for chaining.
func (d *Defaults) Lazy(name string, gen Generator) *Defaults {
	return d.Prop(name, gen)
}

// Names returns the declared names in order.
func (d *Defaults) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Get returns the raw default for name, without invoking generators.
func (d *Defaults) Get(name string) (any, bool) {
	if d == nil || d.values == nil {
		return nil, false
	}
	v, ok := d.values[name]
	return v, ok
}

// Has reports whether name is declared.
func (d *Defaults) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

// Len returns the number of declared names.
func (d *Defaults) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Clone returns a copy that shares no storage with d. Values themselves are
// copied by reference.
func (d *Defaults) Clone() *Defaults {
	cp := NewDefaults()
	if d == nil {
		return cp
	}
	cp.names = make([]string, len(d.names))
	copy(cp.names, d.names)
	for k, v := range d.values {
		cp.values[k] = v
	}
	return cp
}

// evaluate returns a fresh Values holding every default, with generators
// replaced by the value they return for this call.
func (d *Defaults) evaluate() Values {
	out := make(Values, d.Len())
	if d == nil {
		return out
	}
	for _, name := range d.names {
		v := d.values[name]
		if gv, ok := invokeGenerator(v); ok {
			v = gv
		}
		out[name] = v
	}
	return out
}

// invokeGenerator calls v when it is a non-nil func taking no arguments and
// returning exactly one value.
func invokeGenerator(v any) (any, bool) {
	switch fn := v.(type) {
	case nil:
		return nil, false
	case Generator:
		if fn == nil {
			return nil, false
		}
		return fn(), true
	case func() any:
		if fn == nil {
			return nil, false
		}
		return fn(), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	ft := rv.Type()
	if ft.NumIn() != 0 || ft.NumOut() != 1 {
		return nil, false
	}
	return rv.Call(nil)[0].Interface(), true
}
