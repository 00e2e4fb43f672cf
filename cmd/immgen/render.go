package main

import (
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/sghaida/immutable-base/immutable"
)

// templateData is the input passed to the Go template.
type templateData struct {
	Spec     *Spec
	SpecPath string
	Imports  []ImportSpec
	Classes  []classData
}

type classData struct {
	Name string
	Var  string

	// Parent is the wrapper type name of the extended class, if any.
	Parent    string
	ParentVar string

	// Declared are the properties listed for this class, in spec order,
	// re-declared inherited ones included. They make up its Default Map.
	Declared []propData

	// All is the full property list, inherited first.
	All []propData
}

type propData struct {
	Name    string
	Getter  string
	Setter  string
	Type    string
	Default string
	Lazy    string
}

// buildTemplateData flattens the spec into per-class property lists. The spec
// must already be valid.
func buildTemplateData(spec *Spec, specPath string, imports []ImportSpec) templateData {
	byName := make(map[string]classData, len(spec.Classes))
	data := templateData{Spec: spec, SpecPath: specPath, Imports: imports}

	for _, cs := range spec.Classes {
		cd := classData{Name: cs.Name, Var: lowerFirst(cs.Name) + "Class"}

		if cs.Extends != "" {
			parent := byName[cs.Extends]
			cd.Parent = parent.Name
			cd.ParentVar = parent.Var
			cd.All = append(cd.All, parent.All...)
		}

		inherited := make(map[string]struct{}, len(cd.All))
		for _, p := range cd.All {
			inherited[p.Name] = struct{}{}
		}

		for _, ps := range cs.Properties {
			pd := propData{
				Name:   ps.Name,
				Getter: getterName(ps.Name),
				Setter: immutable.SetterName(ps.Name),
				Type:   strings.TrimSpace(ps.Type),
				Lazy:   strings.TrimSpace(ps.Lazy),
			}
			if ps.Default != nil {
				pd.Default = strings.TrimSpace(*ps.Default)
			}
			cd.Declared = append(cd.Declared, pd)
			if _, ok := inherited[ps.Name]; !ok {
				cd.All = append(cd.All, pd)
			}
		}

		byName[cs.Name] = cd
		data.Classes = append(data.Classes, cd)
	}
	return data
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// genTemplate is the Go source template for the typed wrappers. Its output is
// passed through imports.Process, which formats it and drops unused imports.
var genTemplate = template.Must(template.New("immgen").Parse(`// Code generated by immgen from {{.SpecPath}}; DO NOT EDIT.

package {{.Spec.Package}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.Spec.Registry}} holds every class of this package by name.
var {{.Spec.Registry}} = immutable.NewRegistry(){{range .Classes}}.
	Provide({{.Var}}){{end}}
{{range .Classes}}
{{- $c := .}}
var {{.Var}} = {{if .Parent}}{{.ParentVar}}.Extend{{else}}immutable.Create{{end}}(immutable.NewDefaults(){{range .Declared}}.
	{{- if .Lazy}}
	Lazy({{printf "%q" .Name}}, func() any { return ({{.Type}})({{.Lazy}}) }){{else if .Default}}
	Prop({{printf "%q" .Name}}, ({{.Type}})({{.Default}})){{else}}
	Prop({{printf "%q" .Name}}, nil){{end}}{{end}},
	immutable.WithName({{printf "%q" .Name}}),
)

// {{.Name}} is an immutable value. Setters and Merge return new values and
// leave the receiver unchanged. Every zero {{.Name}} reads the same default
// record, built on first use.
type {{.Name}} struct {
	rec *immutable.Record
}

var zero{{.Name}} = sync.OnceValue(func() *immutable.Record { return {{.Var}}.MustNew() })

// New{{.Name}} builds a {{.Name}} from no arguments (defaults), a single
// immutable.Values, or positional values in property order.
func New{{.Name}}(args ...any) ({{.Name}}, error) {
	rec, err := {{.Var}}.New(args...)
	if err != nil {
		return {{.Name}}{}, err
	}
	if err := check{{.Name}}(rec); err != nil {
		return {{.Name}}{}, err
	}
	return {{.Name}}{rec: rec}, nil
}

// MustNew{{.Name}} is New{{.Name}} that panics on error.
func MustNew{{.Name}}(args ...any) {{.Name}} {
	v, err := New{{.Name}}(args...)
	if err != nil {
		panic(err)
	}
	return v
}

// {{.Name}}Class returns the runtime class behind {{.Name}}.
func {{.Name}}Class() *immutable.Class { return {{.Var}} }

// {{.Name}}PropertyNames returns the property names in declaration order.
func {{.Name}}PropertyNames() []string { return {{.Var}}.PropertyNames() }

func check{{.Name}}(rec *immutable.Record) error {
{{- range .All}}
	if err := immutable.CheckType[{{.Type}}](rec, {{printf "%q" .Name}}); err != nil {
		return err
	}
{{- end}}
	return nil
}

func (v {{.Name}}) record() *immutable.Record {
	if v.rec == nil {
		return zero{{.Name}}()
	}
	return v.rec
}
{{range .All}}
// {{.Getter}} returns the {{.Name}} property.
func (v {{$c.Name}}) {{.Getter}}() {{.Type}} {
	return immutable.Value[{{.Type}}](v.record(), {{printf "%q" .Name}})
}

// {{.Setter}} returns a copy with {{.Name}} replaced.
func (v {{$c.Name}}) {{.Setter}}(value {{.Type}}) {{$c.Name}} {
	rec, err := v.record().Set({{printf "%q" .Name}}, value)
	if err != nil {
		panic(err)
	}
	return {{$c.Name}}{rec: rec}
}
{{end}}
// Merge returns a copy with the given properties replaced. Unknown keys are
// ignored; values of the wrong type are an error.
func (v {{.Name}}) Merge(partial immutable.Values) ({{.Name}}, error) {
	rec, err := v.record().Merge(partial)
	if err != nil {
		return {{.Name}}{}, err
	}
	if err := check{{.Name}}(rec); err != nil {
		return {{.Name}}{}, err
	}
	return {{.Name}}{rec: rec}, nil
}

// Record returns the underlying record.
func (v {{.Name}}) Record() *immutable.Record { return v.record() }

// String renders the value as {{.Name}}{name: value, ...}.
func (v {{.Name}}) String() string { return v.record().String() }
{{- if .Parent}}

// As{{.Parent}} views v as a {{.Parent}}. Setters called on the view still
// build {{.Name}} records.
func (v {{.Name}}) As{{.Parent}}() {{.Parent}} { return {{.Parent}}{rec: v.record()} }
{{- end}}
{{end}}`))
