// Package immutablebase provides immutable value-object classes for Go.
//
// This repository offers two ways to work with the same runtime:
//
//   - immutable: classes defined at runtime from an ordered Default Map, with
//     name-indexed records, copy-on-write setters, Merge and Extend
//   - cmd/immgen: a generator that turns a YAML class spec into typed wrappers
//     (getters, SetX methods, constructors) over those records
//
// Records are never changed after construction. Every "update" builds a new
// record through the record's own class, so hand-written subclasses keep their
// runtime type.
//
// Package immutablebase See subpackages:
//   - immutable: the runtime library used by the generator and the examples
//   - cmd/immgen: the code generator
//   - examples/shapes: a generated package with a hand-written subclass
//   - examples/runtime: a runnable walk-through of the dynamic API
package immutablebase
