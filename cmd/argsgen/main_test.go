package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Version(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "argsgen dev\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing spec and out", []string{"generate"}, "usage: argsgen generate"},
		{"missing out", []string{"generate", "--spec", "x.yaml"}, "usage: argsgen generate"},
		{"unknown flag", []string{"generate", "--nope"}, "unknown flag"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), tc.wantErr)
		})
	}
}

func TestRun_GenerateWithConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	specPath := writeTempFile(t, dir, "enemy.args.yaml", enemySpecYAML)
	cfgPath := writeTempFile(t, dir, "odi.yaml", `logging:
  level: debug
  format: json
generator:
  di_import: example.com/vendored/di
  header: "//go:build !noargs"
`)
	outPath := filepath.Join(dir, "enemy_args.gen.go")

	var stdout, stderr bytes.Buffer
	code := run([]string{"generate", "--config", cfgPath, "--spec", specPath, "--out", outPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := readFileString(t, outPath)
	assert.Contains(t, out, `di "example.com/vendored/di"`)
	assert.Contains(t, out, "//go:build !noargs")

	logs := stderr.String()
	assert.Contains(t, logs, `"msg":"generating helpers"`)
	assert.Contains(t, logs, `"msg":"wrote helpers"`)
}

func TestRun_GenerateReportsSpecErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	specPath := writeTempFile(t, dir, "bad.args.yaml", "package: spawner\nclient: Enemy\nargs: []\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"generate", "--spec", specPath, "--out", filepath.Join(dir, "out.gen.go")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "argsgen: spec missing required fields")
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	specPath := writeTempFile(t, dir, "enemy.args.yaml", enemySpecYAML)
	cfgPath := writeTempFile(t, dir, "odi.yaml", "logging:\n  level: loud\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"generate", "-c", cfgPath, "--spec", specPath, "--out", filepath.Join(dir, "out.gen.go")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "logging.level")
}

func TestRun_EnvOverridesDIImport(t *testing.T) {
	// NOT parallel: t.Setenv.
	t.Setenv("ODI_GENERATOR_DI_IMPORT", "example.com/env/di")
	t.Setenv("ODI_LOGGING_FORMAT", "json")

	dir := t.TempDir()
	specPath := writeTempFile(t, dir, "enemy.args.yaml", enemySpecYAML)
	outPath := filepath.Join(dir, "enemy_args.gen.go")

	var stdout, stderr bytes.Buffer
	code := run([]string{"generate", "--spec", specPath, "--out", outPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, readFileString(t, outPath), `di "example.com/env/di"`)
}
