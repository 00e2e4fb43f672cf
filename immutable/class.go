package immutable

import (
	"context"
	"log/slog"
)

const defaultClassName = "Immutable"

// Initializer runs once per construction, after every declared property of
// the record has been defined and before the record is sealed. It is the
// place where a hand-written subclass attaches transient fields.
type Initializer func(*Record) error

type classConfig struct {
	name   string
	init   Initializer
	logger *slog.Logger
}

// Option configures a class at definition time.
type Option func(*classConfig)

// WithName sets the class name used in errors, logs and registries.
func WithName(name string) Option {
	return func(c *classConfig) { c.name = name }
}

// WithInit attaches an initializer. Initializers of a class chain run root
// first, so a subclass sees its parent's transient fields.
func WithInit(fn Initializer) Option {
	return func(c *classConfig) { c.init = fn }
}

// WithLogger sets the logger for construction events. Events are logged at
// debug level. A class inherits its parent's logger unless this is given.
func WithLogger(l *slog.Logger) Option {
	return func(c *classConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Class is a generated immutable type: an ordered property list (inherited
// names first), a captured Default Map, and one setter per property.
//
// A Class never changes after it is defined and is safe for concurrent use.
type Class struct {
	name     string
	props    []string
	own      []string
	index    map[string]int
	defaults *Defaults
	parent   *Class
	setters  map[string]string
	init     Initializer
	logger   *slog.Logger
}

// Define builds a new class whose properties are the names of defaults, in
// declaration order. A nil defaults declares a class with no properties.
//
// The Default Map is copied, later changes to defaults do not affect the
// class.
func Define(defaults *Defaults, opts ...Option) (*Class, error) {
	cfg := classConfig{
		name:   defaultClassName,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	own := defaults.Names()
	return newClass(cfg, own, own, defaults, nil)
}

// Create is Define that panics on an invalid Default Map.
func Create(defaults *Defaults, opts ...Option) *Class {
	c, err := Define(defaults, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// TryExtend derives a class from c that adds the names of newDefaults.
//
// Names c already declares are not added again and get no second setter, but
// their value in newDefaults still takes part in resolution, so it replaces
// the parent's default for instances of the derived class.
func (c *Class) TryExtend(newDefaults *Defaults, opts ...Option) (*Class, error) {
	if c == nil {
		return nil, ErrNilClass
	}

	cfg := classConfig{
		name:   c.name + "Extended",
		logger: c.logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var own []string
	for _, name := range newDefaults.Names() {
		if c.HasProperty(name) {
			cfg.logger.Debug("re-declared property ignored",
				slog.String("class", cfg.name),
				slog.String("parent", c.name),
				slog.String("property", name))
			continue
		}
		own = append(own, name)
	}

	props := make([]string, 0, len(c.props)+len(own))
	props = append(props, c.props...)
	props = append(props, own...)

	return newClass(cfg, props, own, newDefaults, c)
}

// Extend is TryExtend that panics on error.
func (c *Class) Extend(newDefaults *Defaults, opts ...Option) *Class {
	ext, err := c.TryExtend(newDefaults, opts...)
	if err != nil {
		panic(err)
	}
	return ext
}

func newClass(cfg classConfig, props, own []string, defaults *Defaults, parent *Class) (*Class, error) {
	c := &Class{
		name:     cfg.name,
		props:    props,
		own:      own,
		index:    make(map[string]int, len(props)),
		defaults: defaults.Clone(),
		parent:   parent,
		setters:  make(map[string]string, len(props)),
		init:     cfg.init,
		logger:   cfg.logger,
	}

	for i, name := range props {
		if !validPropertyName(name) {
			return nil, InvalidPropertyNameError{Name: name}
		}
		setter := SetterName(name)
		if prev, taken := c.setters[setter]; taken {
			return nil, SetterConflictError{Setter: setter, First: prev, Second: name}
		}
		c.setters[setter] = name
		c.index[name] = i
	}

	c.logger.Debug("class defined",
		slog.String("class", c.name),
		slog.Any("properties", c.props),
		slog.Int("own", len(c.own)))
	return c, nil
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the class c was extended from, or nil.
func (c *Class) Parent() *Class { return c.parent }

// PropertyNames returns every property in declaration order, inherited ones
// first. The slice is a copy.
func (c *Class) PropertyNames() []string {
	out := make([]string, len(c.props))
	copy(out, c.props)
	return out
}

// OwnPropertyNames returns the properties added by c itself.
func (c *Class) OwnPropertyNames() []string {
	out := make([]string, len(c.own))
	copy(out, c.own)
	return out
}

// HasProperty reports whether name is a declared property of c.
func (c *Class) HasProperty(name string) bool {
	_, ok := c.index[name]
	return ok
}

// SetterNames returns the setter names in property order.
func (c *Class) SetterNames() []string {
	out := make([]string, len(c.props))
	for i, name := range c.props {
		out[i] = SetterName(name)
	}
	return out
}

// Defaults returns a copy of the Default Map c was defined with. For an
// extended class it holds only the map passed to Extend.
func (c *Class) Defaults() *Defaults { return c.defaults.Clone() }

// String returns the class name.
func (c *Class) String() string { return c.name }

// New constructs a record.
//
// With no arguments every property takes its default. A single Values,
// map[string]any or *Record argument overrides defaults by name. Any other
// arguments bind positionally in property order. Either the returned record
// is complete and sealed, or New returns an error and no record.
func (c *Class) New(args ...any) (*Record, error) {
	if c == nil {
		return nil, ErrNilClass
	}

	rec := &Record{class: c, values: make(map[string]any, len(c.props))}
	if err := c.build(rec, args); err != nil {
		return nil, err
	}
	if err := c.initialize(rec); err != nil {
		return nil, err
	}
	rec.sealed = true

	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		c.logger.Debug("record constructed",
			slog.String("class", c.name),
			slog.Int("args", len(args)),
			slog.String("values", rec.Dump()))
	}
	return rec, nil
}

// MustNew is New that panics on error.
func (c *Class) MustNew(args ...any) *Record {
	rec, err := c.New(args...)
	if err != nil {
		panic(err)
	}
	return rec
}

// build resolves args against the full property list, lets the parent define
// its properties from the resolved map, then defines c's own properties.
func (c *Class) build(rec *Record, args []any) error {
	resolved := Resolve(c.props, args, c.defaults)

	if c.parent != nil {
		if err := c.parent.build(rec, []any{resolved}); err != nil {
			return err
		}
	}

	for _, name := range c.own {
		if err := rec.define(name, resolved[name]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Class) initialize(rec *Record) error {
	if c.parent != nil {
		if err := c.parent.initialize(rec); err != nil {
			return err
		}
	}
	if c.init == nil {
		return nil
	}
	if err := c.init(rec); err != nil {
		return InitError{Class: c.name, Err: err}
	}
	return nil
}

// propertyForSetter maps a setter name back to its property.
func (c *Class) propertyForSetter(setter string) (string, bool) {
	name, ok := c.setters[setter]
	return name, ok
}
