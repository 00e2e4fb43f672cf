package main

import (
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// runtimePkgRel is the runtime package directory relative to the module that
// contains this generator.
const runtimePkgRel = "immutable"

type cmdError struct{ msg string }

func (e *cmdError) Error() string { return e.msg }

// resolveRuntimeImport picks the import path of the immutable runtime:
//   - an explicit override (flag or spec),
//   - an import the package already uses whose path ends in /immutable,
//   - the runtime package of the module containing this generator.
func resolveRuntimeImport(override string, scanned []ImportSpec) (string, error) {
	if p := strings.TrimSpace(override); p != "" {
		return p, nil
	}
	if imp, ok := findImportBySuffix(scanned, "/"+runtimePkgRel); ok {
		return imp.Path, nil
	}
	return inferRuntimeImportFromGeneratorModule()
}

// inferRuntimeImportFromGeneratorModule computes the runtime import path from
// the go.mod of the module that contains immgen.
func inferRuntimeImportFromGeneratorModule() (string, error) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", &cmdError{msg: "cannot infer runtime import: runtime.Caller failed"}
	}

	modRoot, modPath, err := findModule(filepath.Dir(thisFile))
	if err != nil {
		return "", &cmdError{msg: "cannot infer runtime import: " + err.Error()}
	}

	runtimeAbs := filepath.Join(modRoot, filepath.FromSlash(runtimePkgRel))
	if !dirExists(runtimeAbs) {
		return "", &cmdError{msg: "cannot infer runtime import: expected runtime package dir at " + filepath.ToSlash(runtimeAbs)}
	}
	return modPath + "/" + runtimePkgRel, nil
}

// -------------------------
// go.mod helpers
// -------------------------

func findModule(startDir string) (modRoot string, modPath string, err error) {
	dir := startDir
	for {
		gomod := filepath.Join(dir, "go.mod")
		if fileExists(gomod) {
			b, rerr := os.ReadFile(gomod)
			if rerr != nil {
				return "", "", rerr
			}
			for _, ln := range strings.Split(string(b), "\n") {
				ln = strings.TrimSpace(ln)
				if strings.HasPrefix(ln, "module ") {
					mod := strings.Trim(strings.TrimSpace(strings.TrimPrefix(ln, "module ")), `"`)
					if mod == "" {
						return "", "", &cmdError{msg: "go.mod has empty module path at " + filepath.ToSlash(gomod)}
					}
					return dir, mod, nil
				}
			}
			return "", "", &cmdError{msg: "go.mod missing module directive at " + filepath.ToSlash(gomod)}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", &cmdError{msg: "could not find go.mod starting from " + filepath.ToSlash(startDir)}
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// -------------------------
// Package import scanning
// -------------------------

// scanPackageImports reads imports from all hand-written .go files in pkgDir
// (excluding *_test.go and generated files). Blank and dot imports are
// skipped: generated code never needs them and they would survive pruning.
func scanPackageImports(pkgDir string) []ImportSpec {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return nil
	}

	var out []ImportSpec
	fset := token.NewFileSet()

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") ||
			strings.HasSuffix(name, ".gen.go") ||
			strings.HasSuffix(name, "_gen.go") {
			continue
		}

		full := filepath.Join(pkgDir, name)
		src, rerr := os.ReadFile(full)
		if rerr != nil {
			// Best-effort: an unreadable file shouldn't break generation.
			continue
		}

		f, perr := parser.ParseFile(fset, full, src, parser.ImportsOnly)
		if perr != nil {
			continue
		}

		for _, imp := range f.Imports {
			alias := ""
			if imp.Name != nil {
				alias = imp.Name.Name
			}
			if alias == "_" || alias == "." {
				continue
			}
			out = append(out, ImportSpec{Alias: alias, Path: strings.Trim(imp.Path.Value, `"`)})
		}
	}

	return mergeImports(out)
}

func findImportBySuffix(imports []ImportSpec, suffix string) (ImportSpec, bool) {
	for _, imp := range imports {
		if strings.HasSuffix(imp.Path, suffix) {
			return imp, true
		}
	}
	return ImportSpec{}, false
}

// runtimeImport returns the import for the runtime package, aliased when its
// default identifier is not "immutable" (generated code always refers to it
// by that name).
func runtimeImport(importPath string) ImportSpec {
	if path.Base(importPath) == runtimePkgRel {
		return ImportSpec{Path: importPath}
	}
	return ImportSpec{Alias: runtimePkgRel, Path: importPath}
}

// mergeImports de-duplicates imports by path (first alias wins) and sorts
// them by path.
func mergeImports(groups ...[]ImportSpec) []ImportSpec {
	seen := map[string]struct{}{}
	var out []ImportSpec
	for _, group := range groups {
		for _, imp := range group {
			imp.Path = strings.TrimSpace(imp.Path)
			if imp.Path == "" {
				continue
			}
			if _, ok := seen[imp.Path]; ok {
				continue
			}
			seen[imp.Path] = struct{}{}
			out = append(out, imp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
