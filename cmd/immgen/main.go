// cmd/immgen/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

// This binary is a code-generation tool.
//
// It reads a YAML class spec and generates typed wrappers over
// immutable.Record for every class in it.
//
// Key behaviors:
// - Reads and validates the spec (all problems reported at once)
// - Reuses imports from the package's own files so default expressions can refer to them
// - Resolves the runtime import: -runtime flag, spec runtime, package imports, generator module
// - Formats the output and drops unused imports (golang.org/x/tools/imports)
// - Writes output atomically (temp file + rename) to avoid partial writes

// run executes the generator and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("immgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	specPath := flags.String("spec", "", "path to <name>.immutable.yaml")
	outPath := flags.String("out", "", "output .gen.go file path")
	runtimeImport := flags.String("runtime", "", "import path of the immutable runtime package (optional)")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*specPath) == "" || strings.TrimSpace(*outPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: immgen -spec <file.immutable.yaml> -out <file.gen.go> [-runtime <import path>]")
		return 2
	}

	if err := generate(*specPath, *outPath, *runtimeImport); err != nil {
		_, _ = fmt.Fprintln(stderr, "immgen:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// generate renders the wrappers for specPath into outPath.
func generate(specPath, outPath, runtimeOverride string) error {
	spec, err := LoadSpec(specPath)
	if err != nil {
		return err
	}

	generatedFilePath := filepath.Clean(outPath)
	packageDir := filepath.Dir(generatedFilePath)
	scanned := scanPackageImports(packageDir)

	if strings.TrimSpace(runtimeOverride) == "" {
		runtimeOverride = spec.Runtime
	}
	runtimePath, err := resolveRuntimeImport(runtimeOverride, scanned)
	if err != nil {
		return err
	}

	// The runtime import comes first so it keeps the "immutable" identifier
	// even if the package imports the same path under another alias.
	importsList := mergeImports([]ImportSpec{runtimeImport(runtimePath), {Path: "sync"}}, spec.Imports, scanned)

	src, err := render(spec, filepath.ToSlash(specPath), importsList)
	if err != nil {
		return err
	}

	formatted, err := imports.Process(generatedFilePath, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return fmt.Errorf("format generated code: %w", err)
	}

	return writeFileAtomic(generatedFilePath, formatted, 0o644)
}

// render executes the template for a validated spec.
func render(spec *Spec, specPath string, importsList []ImportSpec) ([]byte, error) {
	var out strings.Builder
	data := buildTemplateData(spec, specPath, importsList)
	if err := genTemplate.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return []byte(out.String()), nil
}

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes to a temporary file in the target directory and then
// renames it over the target path, so readers never observe partial writes.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	return renameFile(tmpPath, targetPath)
}
