// Package immutable builds immutable value-object classes from an ordered
// Default Map.
//
// A Class is defined once from property names and defaults. Its records are
// read-only: every declared property is assigned exactly once while the record
// is constructed, and "updates" build a new record (copy-on-write) through
// Merge, Set or a per-property setter.
//
//	Point := immutable.Create(immutable.NewDefaults().
//		Prop("x", 0).
//		Prop("y", 0), immutable.WithName("Point"))
//
//	p := Point.MustNew(3, 4)                   // positional, in declaration order
//	q := Point.MustNew(immutable.Values{"y": 9}) // object form, x keeps its default
//	r, _ := p.Call("SetX", 10)                 // Point{x: 10, y: 4}; p is unchanged
//
// Defaults
//
// A default is either a literal, reused verbatim by every record, or a
// niladic function (Generator, or any func() T), invoked once per
// construction. A property declared with a nil default is settable and starts
// out nil.
//
// Extension
//
// Extend derives a class that adds properties after the parent's. One flat
// constructor call fills both inherited and new properties, the parent keeps
// its own defaults for names the derived call did not supply, and Merge and
// setters always rebuild through the record's own runtime class. Re-declaring
// a name the parent already has adds nothing to the property list; its
// default applies to the derived class only.
//
// Subclasses
//
// A hand-written subclass is an extension with no new properties and an
// Initializer, which may attach transient fields:
//
//	Tagged := Point.Extend(nil, immutable.WithName("Tagged"),
//		immutable.WithInit(func(r *immutable.Record) error {
//			return r.SetTransient("tag", "origin")
//		}))
//
// Typed wrappers
//
// cmd/immgen generates typed Go wrappers (getters, SetX methods returning the
// wrapper type) over these records from a YAML class spec.
package immutable
