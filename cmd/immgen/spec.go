package main

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/sghaida/immutable-base/immutable"
)

// Spec is the full input schema consumed by the generator. YAML is the
// documented format; JSON specs decode the same way.
type Spec struct {
	// Package is the Go package of the generated file.
	Package string `yaml:"package"`

	// Runtime overrides the import path of the immutable runtime package.
	Runtime string `yaml:"runtime"`

	// Registry names the generated class registry variable (default Classes).
	Registry string `yaml:"registry"`

	// Imports are extra packages that default expressions refer to. Imports
	// already used by the package's own files are picked up automatically.
	Imports []ImportSpec `yaml:"imports"`

	Classes []ClassSpec `yaml:"classes"`
}

// ImportSpec models one Go import: optional alias and full import path.
type ImportSpec struct {
	Alias string `yaml:"alias"`
	Path  string `yaml:"path"`
}

// ClassSpec describes one generated class.
type ClassSpec struct {
	Name string `yaml:"name"`

	// Extends names an earlier class of the same spec.
	Extends string `yaml:"extends"`

	Properties []PropertySpec `yaml:"properties"`
}

// PropertySpec describes one property.
//
// Default is a Go expression evaluated once, at package init. Lazy is a Go
// expression evaluated for every new value. Without either the property is
// settable and starts out as the zero value of Type.
type PropertySpec struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Default *string `yaml:"default"`
	Lazy    string  `yaml:"lazy"`
}

// LoadSpec reads and parses a spec file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec %s: %w", path, err)
	}
	return ParseSpec(data)
}

// ParseSpec parses YAML (or JSON) spec data, applies defaults and validates
// it.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}

	applyDefaults(&spec)

	if err := validateSpec(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func applyDefaults(spec *Spec) {
	if strings.TrimSpace(spec.Registry) == "" {
		spec.Registry = "Classes"
	}
	spec.Runtime = strings.TrimSpace(spec.Runtime)
}

// reservedMethods are the methods every generated wrapper has besides its
// getters and setters.
var reservedMethods = map[string]struct{}{
	"Merge":  {},
	"Record": {},
	"String": {},
}

// validateSpec validates semantic correctness of the input spec file and
// reports every problem at once.
func validateSpec(spec *Spec) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !isIdentifier(spec.Package) {
		addf("package: %q is not a valid package name", spec.Package)
	}
	if !isIdentifier(spec.Registry) {
		addf("registry: %q is not a valid identifier", spec.Registry)
	}
	if len(spec.Classes) == 0 {
		addf("classes: must have at least 1")
	}
	for i, imp := range spec.Imports {
		if strings.TrimSpace(imp.Path) == "" {
			addf("imports[%d]: path is required", i)
		}
	}

	// props holds the resolved property types of every class seen so far.
	props := make(map[string]map[string]string, len(spec.Classes))

	for _, class := range spec.Classes {
		where := "class " + class.Name
		if !isExportedIdentifier(class.Name) {
			addf("%s: name must be an exported Go identifier", where)
		}
		if _, dup := props[class.Name]; dup {
			addf("%s: duplicate class name", where)
			continue
		}

		types := map[string]string{}
		methods := map[string]string{}
		if class.Extends != "" {
			parent, ok := props[class.Extends]
			if !ok {
				addf("%s: extends %q, which is not declared earlier in the spec", where, class.Extends)
			}
			for name, typ := range parent {
				types[name] = typ
				methods[getterName(name)] = name
				methods[immutable.SetterName(name)] = name
			}
			methods["As"+class.Extends] = ""
		}

		seen := map[string]struct{}{}
		for _, prop := range class.Properties {
			pwhere := where + " property " + prop.Name
			if !isIdentifier(prop.Name) {
				addf("%s: name must be a Go identifier", pwhere)
				continue
			}
			if _, dup := seen[prop.Name]; dup {
				addf("%s: declared twice", pwhere)
				continue
			}
			seen[prop.Name] = struct{}{}

			if strings.TrimSpace(prop.Type) == "" {
				addf("%s: type is required", pwhere)
			}
			if prop.Default != nil && strings.TrimSpace(prop.Lazy) != "" {
				addf("%s: default and lazy are mutually exclusive", pwhere)
			}
			if prop.Default != nil && strings.TrimSpace(*prop.Default) == "" {
				addf("%s: default must be a Go expression", pwhere)
			}

			if inherited, ok := types[prop.Name]; ok {
				// Re-declaring an inherited property only changes its default.
				if inherited != prop.Type {
					addf("%s: type %q differs from inherited type %q", pwhere, prop.Type, inherited)
				}
				continue
			}
			types[prop.Name] = prop.Type

			for _, method := range []string{getterName(prop.Name), immutable.SetterName(prop.Name)} {
				if _, reserved := reservedMethods[method]; reserved {
					addf("%s: generated method %s clashes with a built-in wrapper method", pwhere, method)
				}
				if owner, taken := methods[method]; taken {
					addf("%s: generated method %s clashes with property %q", pwhere, method, owner)
					continue
				}
				methods[method] = prop.Name
			}
		}

		props[class.Name] = types
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid spec:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// getterName is the exported accessor name for a property.
func getterName(prop string) string {
	return strings.TrimPrefix(immutable.SetterName(prop), "Set")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func isExportedIdentifier(s string) bool {
	if !isIdentifier(s) {
		return false
	}
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
