package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

// enemySpecYAML is a two-arg binding spec that passes validateSpec.
const enemySpecYAML = `package: spawner
client: Enemy
requireInit: true
args:
  - { name: health, type: int }
  - { name: label,  type: string }
`

// turretSpecJSON is a single-arg binding spec written as JSON.
const turretSpecJSON = `{
  "package": "spawner",
  "client": "Turret",
  "args": [ { "name": "rate", "type": "time.Duration" } ],
  "imports": { "packages": ["time"] }
}`

func enemySpec() Spec {
	return Spec{
		Package:     "spawner",
		Client:      "Enemy",
		RequireInit: true,
		Args: []Arg{
			{Name: "health", Type: "int"},
			{Name: "label", Type: "string"},
		},
	}
}

//
// -----------------------------------------------------------------------------
// Small helpers
// -----------------------------------------------------------------------------

func boolPtr(v bool) *bool { return &v }

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// readFileString reads a file and returns its contents as string (fatal on error).
func readFileString(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

// parseGenerated parses src and returns the names of its top-level funcs and
// types, plus the import paths.
func parseGenerated(t *testing.T, src []byte) (decls map[string]bool, imports []string) {
	t.Helper()

	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err)

	decls = map[string]bool{}
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			decls[d.Name.Name] = true
		case *ast.GenDecl:
			for _, s := range d.Specs {
				if ts, ok := s.(*ast.TypeSpec); ok {
					decls[ts.Name.Name] = true
				}
			}
		}
	}
	for _, imp := range f.Imports {
		imports = append(imports, imp.Path.Value)
	}
	return decls, imports
}

// countTupleLiterals counts the composite literals of typeName in src, split by
// whether every element carries a field key.
func countTupleLiterals(t *testing.T, src []byte, typeName string) (keyed, unkeyed int) {
	t.Helper()

	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0)
	require.NoError(t, err)

	ast.Inspect(f, func(n ast.Node) bool {
		lit, ok := n.(*ast.CompositeLit)
		if !ok {
			return true
		}
		if id, ok := lit.Type.(*ast.Ident); !ok || id.Name != typeName {
			return true
		}
		for _, el := range lit.Elts {
			if _, ok := el.(*ast.KeyValueExpr); !ok {
				unkeyed++
				return true
			}
		}
		keyed++
		return true
	})
	return keyed, unkeyed
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic() seam helpers
// -----------------------------------------------------------------------------

// fakeTempFile is a controllable file-like object for writeFileAtomic tests.
// It lets us force errors on Write and Close without using a real file.
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

// restoreWriteFileSeams puts the real seams back when the test ends.
func restoreWriteFileSeams(t *testing.T) {
	t.Helper()
	origCreate, origRemove, origChmod, origRename := createTempFile, removeFile, chmodFile, renameFile
	t.Cleanup(func() {
		createTempFile = origCreate
		removeFile = origRemove
		chmodFile = origChmod
		renameFile = origRename
	})
}
