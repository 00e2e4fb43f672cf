package immutable

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Setter returns a copy of a record with one property replaced.
type Setter func(value any) (*Record, error)

// Record is an instance of a Class. Each declared property is assigned once
// during construction and can never change afterwards; updates produce new
// records through Merge, Set or a Setter.
//
// Records may also carry transient fields written by an Initializer. They are
// not part of the declared property set and are ignored by Values and Merge.
type Record struct {
	class     *Class
	values    map[string]any
	transient map[string]any
	sealed    bool
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Class returns the runtime class of r.
func (r *Record) Class() *Class {
	if r == nil {
		return nil
	}
	return r.class
}

// Get returns the value of a declared property.
func (r *Record) Get(name string) (any, bool) {
	if r == nil || !r.class.HasProperty(name) {
		return nil, false
	}
	return r.values[name], true
}

// Has reports whether name is a declared property of r's class.
func (r *Record) Has(name string) bool {
	return r != nil && r.class.HasProperty(name)
}

// Values returns a copy of every declared property. Writing to the copy does
// not affect r.
func (r *Record) Values() Values {
	if r == nil {
		return nil
	}
	out := make(Values, len(r.class.props))
	for _, name := range r.class.props {
		out[name] = r.values[name]
	}
	return out
}

// Transient returns a transient field set by an initializer.
func (r *Record) Transient(name string) (any, bool) {
	if r == nil || r.transient == nil {
		return nil, false
	}
	v, ok := r.transient[name]
	return v, ok
}

// SetTransient attaches a field outside the declared property set. It only
// succeeds while the record is being constructed, and never for a declared
// property.
func (r *Record) SetTransient(name string, value any) error {
	if r == nil {
		return ErrNilRecord
	}
	if r.sealed || r.class.HasProperty(name) {
		return ReadOnlyPropertyError{Name: name}
	}
	if r.transient == nil {
		r.transient = map[string]any{}
	}
	r.transient[name] = value
	return nil
}

func (r *Record) define(name string, value any) error {
	if r.sealed {
		return ReadOnlyPropertyError{Name: name}
	}
	if _, exists := r.values[name]; exists {
		return DuplicatePropertyError{Name: name}
	}
	r.values[name] = value
	return nil
}

// Merge returns a new record of the same runtime class holding r's values
// overridden by partial. Keys partial has that the class does not declare are
// ignored. r is left unchanged.
func (r *Record) Merge(partial Values) (*Record, error) {
	if r == nil {
		return nil, ErrNilRecord
	}

	seed := r.Values()
	for k, v := range partial {
		seed[k] = v
	}

	r.class.logger.Debug("merge",
		slog.String("class", r.class.name),
		slog.Int("keys", len(partial)))
	return r.class.New(seed)
}

// Set returns a new record with the declared property name replaced by value.
// It is equivalent to Merge(Values{name: value}).
func (r *Record) Set(name string, value any) (*Record, error) {
	if r == nil {
		return nil, ErrNilRecord
	}
	if !r.class.HasProperty(name) {
		return nil, UnknownPropertyError{Class: r.class.name, Name: name}
	}
	return r.Merge(Values{name: value})
}

// Setter returns the setter registered under setter (for example
// "SetAttr2"), bound to r.
func (r *Record) Setter(setter string) (Setter, bool) {
	if r == nil {
		return nil, false
	}
	name, ok := r.class.propertyForSetter(setter)
	if !ok {
		return nil, false
	}
	return func(value any) (*Record, error) {
		return r.Merge(Values{name: value})
	}, true
}

// Call invokes the setter registered under setter.
func (r *Record) Call(setter string, value any) (*Record, error) {
	if r == nil {
		return nil, ErrNilRecord
	}
	fn, ok := r.Setter(setter)
	if !ok {
		return nil, UnknownPropertyError{Class: r.class.name, Name: setter}
	}
	return fn(value)
}

// InstanceOf reports whether r's class is c or derives from c.
func (r *Record) InstanceOf(c *Class) bool {
	if r == nil || c == nil {
		return false
	}
	for k := r.class; k != nil; k = k.parent {
		if k == c {
			return true
		}
	}
	return false
}

// String renders the record as Class{name: value, ...} in property order.
func (r *Record) String() string {
	if r == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(r.class.name)
	b.WriteByte('{')
	for i, name := range r.class.props {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", name, r.values[name])
	}
	b.WriteByte('}')
	return b.String()
}

// Dump returns a deep, key-sorted rendering of the declared values, meant
// for debugging.
func (r *Record) Dump() string {
	return dumpConfig.Sdump(map[string]any(r.Values()))
}

// GetAs returns the property typed as T. ok is false if the property is not
// declared or its value is not a T.
func GetAs[T any](r *Record, name string) (T, bool) {
	var zero T
	raw, ok := r.Get(name)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// TryGetAs returns the property typed as T.
//
// It returns UnknownPropertyError if the class does not declare name and
// WrongTypePropertyError if the value is not a T.
func TryGetAs[T any](r *Record, name string) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNilRecord
	}
	raw, ok := r.Get(name)
	if !ok {
		return zero, UnknownPropertyError{Class: r.class.name, Name: name}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, WrongTypePropertyError{Name: name, GotType: typeName(raw)}
	}
	return v, nil
}

// MustGetAs returns the property typed as T or panics.
func MustGetAs[T any](r *Record, name string) T {
	v, err := TryGetAs[T](r, name)
	if err != nil {
		panic(err)
	}
	return v
}

// Value returns the property typed as T, or the zero T when the property is
// absent or nil. It panics with WrongTypePropertyError on any other type;
// CheckType reports that case as an error instead.
func Value[T any](r *Record, name string) T {
	var zero T
	raw, ok := r.Get(name)
	if !ok || raw == nil {
		return zero
	}
	v, ok := raw.(T)
	if !ok {
		panic(WrongTypePropertyError{Name: name, GotType: typeName(raw)})
	}
	return v
}

// CheckType returns WrongTypePropertyError when the property holds a non-nil
// value that is not a T.
func CheckType[T any](r *Record, name string) error {
	raw, ok := r.Get(name)
	if !ok || raw == nil {
		return nil
	}
	if _, ok := raw.(T); !ok {
		return WrongTypePropertyError{Name: name, GotType: typeName(raw)}
	}
	return nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
