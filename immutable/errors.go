package immutable

import (
	"errors"
	"strconv"
)

var (
	// ErrSealed is returned when a write is attempted on a record after its
	// construction finished. ReadOnlyPropertyError wraps it with the field name.
	ErrSealed = errors.New("immutable: record is sealed")

	// ErrNilClass is returned when an operation is applied to a nil class.
	ErrNilClass = errors.New("immutable: nil class")

	// ErrNilRecord is returned when an operation is applied to a nil record.
	ErrNilRecord = errors.New("immutable: nil record")

	// ErrRegistryPanic is returned when building through a Registry panics.
	ErrRegistryPanic = errors.New("immutable: panic during construction")
)

// ReadOnlyPropertyError is returned when code tries to write a field of a
// record that has already been constructed.
type ReadOnlyPropertyError struct{ Name string }

// Error implements the error interface.
func (e ReadOnlyPropertyError) Error() string {
	// Example: immutable: cannot assign to read only property "attr1"
	return "immutable: cannot assign to read only property " + strconv.Quote(e.Name)
}

// Unwrap lets errors.Is(err, ErrSealed) match.
func (e ReadOnlyPropertyError) Unwrap() error { return ErrSealed }

// UnknownPropertyError is returned when a property (or setter) name is not
// declared by the class.
type UnknownPropertyError struct {
	Class string
	Name  string
}

// Error implements the error interface.
func (e UnknownPropertyError) Error() string {
	// Example: immutable: class "Point" has no property "z"
	return "immutable: class " + strconv.Quote(e.Class) + " has no property " + strconv.Quote(e.Name)
}

// WrongTypePropertyError is returned by TryGetAs when the stored value is not
// of the requested type.
type WrongTypePropertyError struct {
	// Name is the property requested.
	Name string

	// GotType is the dynamic type of the stored value.
	GotType string
}

// Error implements the error interface.
func (e WrongTypePropertyError) Error() string {
	return "immutable: property " + strconv.Quote(e.Name) + " has wrong type (" + e.GotType + ")"
}

// InvalidPropertyNameError is returned at definition time for names that
// cannot carry a setter.
type InvalidPropertyNameError struct{ Name string }

// Error implements the error interface.
func (e InvalidPropertyNameError) Error() string {
	return "immutable: invalid property name " + strconv.Quote(e.Name)
}

// DuplicatePropertyError is returned when construction defines the same
// property twice on one record.
type DuplicatePropertyError struct{ Name string }

// Error implements the error interface.
func (e DuplicatePropertyError) Error() string {
	return "immutable: property " + strconv.Quote(e.Name) + " defined twice"
}

// InitError wraps a failure returned by a class initializer.
type InitError struct {
	Class string
	Err   error
}

// Error implements the error interface.
func (e InitError) Error() string {
	return "immutable: init of " + strconv.Quote(e.Class) + " failed: " + e.Err.Error()
}

// Unwrap returns the initializer's error.
func (e InitError) Unwrap() error { return e.Err }

// SetterConflictError is returned at definition time when two properties
// derive the same setter name (for example "attr" and "Attr").
type SetterConflictError struct {
	Setter string
	First  string
	Second string
}

// Error implements the error interface.
func (e SetterConflictError) Error() string {
	return "immutable: setter " + strconv.Quote(e.Setter) + " derived from both " +
		strconv.Quote(e.First) + " and " + strconv.Quote(e.Second)
}

// DuplicateClassError is returned when a registry already holds a class with
// the same name.
type DuplicateClassError struct{ Name string }

// Error implements the error interface.
func (e DuplicateClassError) Error() string {
	return "immutable: duplicate class " + strconv.Quote(e.Name)
}

// UnknownClassError is returned when a registry has no class with the name.
type UnknownClassError struct{ Name string }

// Error implements the error interface.
func (e UnknownClassError) Error() string {
	return "immutable: unknown class " + strconv.Quote(e.Name)
}
