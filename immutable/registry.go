package immutable

import (
	"fmt"
)

// Registry holds classes by name so records can be built from a class name
// known only at runtime. Generated packages expose one as Classes.
//
// A Registry is filled once (usually in a package var) and only read after
// that; it does no locking.
type Registry struct {
	classes map[string]*Class
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: map[string]*Class{}}
}

// Register adds c under its name. It fails with DuplicateClassError when the
// name is taken.
func (r *Registry) Register(c *Class) error {
	if c == nil {
		return ErrNilClass
	}
	if _, exists := r.classes[c.name]; exists {
		return DuplicateClassError{Name: c.name}
	}
	if r.classes == nil {
		r.classes = map[string]*Class{}
	}
	r.classes[c.name] = c
	r.order = append(r.order, c.name)
	return nil
}

// Provide registers c and returns the registry for chaining. It panics where
// Register would return an error.
func (r *Registry) Provide(c *Class) *Registry {
	if err := r.Register(c); err != nil {
		panic(err)
	}
	return r
}

// Get returns the class registered under name.
func (r *Registry) Get(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// MustGet returns the class or panics with a helpful message.
func (r *Registry) MustGet(name string) *Class {
	c, ok := r.classes[name]
	if !ok {
		panic(fmt.Errorf("immutable: registry missing class %q", name))
	}
	return c
}

// Names returns the registered class names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// New constructs a record of the named class. A panic raised while building
// (for example by a generator default) is returned as ErrRegistryPanic.
func (r *Registry) New(name string, args ...any) (rec *Record, err error) {
	c, ok := r.classes[name]
	if !ok {
		return nil, UnknownClassError{Name: name}
	}

	defer func() {
		if p := recover(); p != nil {
			rec = nil
			err = fmt.Errorf("%w: %v", ErrRegistryPanic, p)
		}
	}()
	return c.New(args...)
}
