// Command immgen: typed wrappers for immutable classes (Go)
//
// immgen turns a small YAML class spec into compile-time-checked wrappers over
// the name-indexed immutable.Record:
//
//   - You write a *.immutable.yaml spec next to your package.
//   - You add a //go:generate directive in one of the package's Go files.
//   - immgen generates, per class, a value type with typed getters, SetX
//     methods returning new values, Merge, and constructors.
//
// There is no reflection-based field injection: each class is an
// immutable.Class built at package init, and each wrapper only reads and
// rebuilds records through it.
//
// Spec format (*.immutable.yaml)
//
//	package: shapes
//	imports:
//	  - path: time
//	classes:
//	  - name: Point
//	    properties:
//	      - { name: x, type: int, default: "0" }
//	      - { name: y, type: int, default: "0" }
//	  - name: Point3
//	    extends: Point
//	    properties:
//	      - { name: z, type: int, default: "0" }
//	  - name: Stamp
//	    properties:
//	      - { name: label, type: string }
//	      - { name: at, type: time.Time, lazy: time.Now() }
//
// Property fields:
//
//   - name: property name; getter and setter are derived from it (x -> X, SetX)
//   - type: Go type of the property
//   - default: Go expression evaluated once, at package init
//   - lazy: Go expression evaluated for every new value
//
// A property with neither default nor lazy is settable and starts out as the
// zero value of its type. An extending class may list an inherited property
// again (same type) to change its default for the derived class only.
//
// Typical go:generate usage
//
//	//go:generate go run ../../cmd/immgen -spec ./specs/shapes.immutable.yaml -out ./shapes.gen.go
//
// Generated API (summary), for a class Point:
//
//   - NewPoint(args ...any) (Point, error) and MustNewPoint
//   - PointClass() *immutable.Class, PointPropertyNames() []string
//   - (Point) X() int, (Point) SetX(int) Point, for every property
//   - (Point) Merge(immutable.Values) (Point, error)
//   - (Point) Record() *immutable.Record, (Point) String() string
//   - (Point3) AsPoint() Point for extended classes
//   - a package registry variable (Classes) holding every class by name
//   - a zero Point reads one default record, built on first use
//
// The runtime import is taken from -runtime, then the spec's runtime field,
// then an import ending in /immutable already used by the package, and finally
// the module that contains immgen.
package main
