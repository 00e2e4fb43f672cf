package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

const testRuntimeImport = "github.com/sghaida/immutable-base/immutable"

// shapesSpecYAML returns a spec that passes validateSpec and exercises
// literal, lazy and missing defaults, extension and re-declaration.
func shapesSpecYAML() []byte {
	return []byte(`package: shapes
imports:
  - path: time
classes:
  - name: Point
    properties:
      - { name: x, type: int, default: "0" }
      - { name: y, type: int, default: "0" }
  - name: Point3
    extends: Point
    properties:
      - { name: y, type: int, default: "1" }
      - { name: z, type: int, default: "0" }
  - name: Stamp
    properties:
      - { name: label, type: string }
      - { name: at, type: time.Time, lazy: time.Now() }
`)
}

// mustParseShapes parses shapesSpecYAML or fails the test.
func mustParseShapes(t *testing.T) *Spec {
	t.Helper()
	spec, err := ParseSpec(shapesSpecYAML())
	require.NoError(t, err)
	return spec
}

//
// -----------------------------------------------------------------------------
// Small helpers
// -----------------------------------------------------------------------------

func strPtr(v string) *string { return &v }

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// readFileString reads a file and returns its contents as string (fatal on error).
func readFileString(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic() seam helpers
// -----------------------------------------------------------------------------

// fakeTempFile is a controllable file-like object for writeFileAtomic tests.
// It lets tests force errors on Write and Close without touching real files.
type fakeTempFile struct {
	fileName string
	writeErr error
	closeErr error
}

func (f *fakeTempFile) Name() string { return f.fileName }

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *fakeTempFile) Close() error { return f.closeErr }

// snapshotWriteFileSeams captures the current global file seams and restores
// them when the test ends.
func snapshotWriteFileSeams(t *testing.T) {
	t.Helper()
	origCreate, origRemove, origChmod, origRename := createTempFile, removeFile, chmodFile, renameFile
	t.Cleanup(func() {
		createTempFile = origCreate
		removeFile = origRemove
		chmodFile = origChmod
		renameFile = origRename
	})
}
