package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Arg is one staged argument slot.
type Arg struct {
	// Name is the parameter name used in generated helpers.
	Name string `yaml:"name"`

	// Type is the Go type of the slot, as written in the client's package.
	Type string `yaml:"type"`
}

// Imports overrides import paths used by generated code.
type Imports struct {
	// DI overrides generator.di_import from the config.
	DI string `yaml:"di"`

	// Packages are extra import paths referenced by arg types.
	Packages []string `yaml:"packages"`
}

// Spec is the binding schema consumed by the generator. JSON is accepted too,
// as the YAML flow subset.
type Spec struct {
	Package string `yaml:"package"`

	// Client is the client type name in Package, without a pointer.
	Client string `yaml:"client"`

	// Pointer keys the stage by *Client (default: true).
	Pointer *bool `yaml:"pointer"`

	Args []Arg `yaml:"args"`

	// RequireInit emits a compile-time assertion that the client implements
	// di.Initializer for its signature.
	RequireInit bool `yaml:"requireInit"`

	Imports Imports `yaml:"imports"`
}

// maxArity matches the largest di.TupleN.
const maxArity = 12

// reservedNames are identifiers the generated helpers already use.
var reservedNames = map[string]struct{}{
	"r": {}, "phase": {}, "c": {}, "args": {}, "ok": {}, "err": {}, "original": {}, "clone": {}, "di": {},
}

// templateData is the input passed to the Go template.
type templateData struct {
	Spec       Spec
	Header     string
	DIImport   string
	ClientType string
	ClientZero string
	Signature  string
	Params     string
	Pack       string
	Unpack     string
	Results    string
}

// parseSpec decodes a binding spec.
func parseSpec(raw []byte) (Spec, error) {
	var spec Spec
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return Spec{}, fmt.Errorf("parse spec: %w", err)
	}
	return spec, nil
}

// validateSpec validates semantic correctness of the input specification.
func validateSpec(spec *Spec) error {
	var missingFields []string

	requireNonEmpty := func(fieldName, value string) {
		if strings.TrimSpace(value) == "" {
			missingFields = append(missingFields, fieldName)
		}
	}

	requireNonEmpty("package", spec.Package)
	requireNonEmpty("client", spec.Client)

	if len(spec.Args) == 0 {
		missingFields = append(missingFields, "args (must have at least 1)")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("spec missing required fields: %v", missingFields)
	}

	if !token.IsIdentifier(spec.Package) {
		return fmt.Errorf("package %q is not a valid identifier", spec.Package)
	}
	if !token.IsIdentifier(spec.Client) {
		return fmt.Errorf("client %q is not a valid identifier", spec.Client)
	}
	if len(spec.Args) > maxArity {
		return fmt.Errorf("spec has %d args; at most %d are supported", len(spec.Args), maxArity)
	}

	seenNames := make(map[string]struct{}, len(spec.Args))
	for _, arg := range spec.Args {
		if arg.Name == "" || strings.TrimSpace(arg.Type) == "" {
			return fmt.Errorf("each arg must have name/type; got: %+v", arg)
		}
		if !token.IsIdentifier(arg.Name) {
			return fmt.Errorf("arg name %q is not a valid identifier", arg.Name)
		}
		if _, ok := reservedNames[arg.Name]; ok {
			return fmt.Errorf("arg name %q is reserved", arg.Name)
		}
		if _, ok := seenNames[arg.Name]; ok {
			return fmt.Errorf("duplicate arg name: %s", arg.Name)
		}
		seenNames[arg.Name] = struct{}{}
	}
	return nil
}

// buildTemplateData derives the expressions the template splices in.
func buildTemplateData(spec Spec, diImport, header string) templateData {
	if strings.TrimSpace(spec.Imports.DI) != "" {
		diImport = spec.Imports.DI
	}

	clientType, clientZero := spec.Client, "*new("+spec.Client+")"
	if spec.Pointer == nil || *spec.Pointer {
		clientType, clientZero = "*"+spec.Client, "(*"+spec.Client+")(nil)"
	}

	names := make([]string, len(spec.Args))
	types := make([]string, len(spec.Args))
	params := make([]string, len(spec.Args))
	fields := make([]string, len(spec.Args))
	for i, arg := range spec.Args {
		names[i] = arg.Name
		types[i] = arg.Type
		params[i] = arg.Name + " " + arg.Type
		fields[i] = fmt.Sprintf("args.V%d", i+1)
	}

	data := templateData{
		Spec:       spec,
		Header:     strings.TrimSpace(header),
		DIImport:   diImport,
		ClientType: clientType,
		ClientZero: clientZero,
		Params:     strings.Join(params, ", "),
		Results:    strings.Join(params, ", "),
	}

	if len(spec.Args) == 1 {
		data.Signature = types[0]
		data.Pack = names[0]
		data.Unpack = "args"
		return data
	}
	data.Signature = fmt.Sprintf("di.Tuple%d[%s]", len(spec.Args), strings.Join(types, ", "))
	keyed := make([]string, len(names))
	for i, n := range names {
		keyed[i] = fmt.Sprintf("V%d: %s", i+1, n)
	}
	data.Pack = spec.Client + "Args{" + strings.Join(keyed, ", ") + "}"
	data.Unpack = strings.Join(fields, ", ")
	return data
}

// render executes the template and gofmt's the result.
func render(data templateData) ([]byte, error) {
	var out bytes.Buffer
	if err := genTemplate.Execute(&out, data); err != nil {
		return nil, err
	}
	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

// generate reads specPath and writes the generated file to outPath.
func generate(specPath, outPath, diImport, header string) error {
	raw, err := os.ReadFile(specPath)
	if err != nil {
		return err
	}
	spec, err := parseSpec(raw)
	if err != nil {
		return err
	}
	if err := validateSpec(&spec); err != nil {
		return err
	}
	src, err := render(buildTemplateData(spec, diImport, header))
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Clean(outPath), src, 0o644)
}

// genTemplate is the Go source template used to generate the staging helpers.
var genTemplate = template.Must(
	template.New("argsgen").Parse(`{{if .Header}}{{.Header}}

{{end}}// Code generated by argsgen; DO NOT EDIT.

package {{.Spec.Package}}

import (
{{- range .Spec.Imports.Packages}}
	"{{.}}"
{{- end}}
	di "{{.DIImport}}"
)

// {{.Spec.Client}}Args is the staged argument signature of {{.ClientType}}.
type {{.Spec.Client}}Args = {{.Signature}}
{{if .Spec.RequireInit}}
var _ di.Initializer[{{.Spec.Client}}Args] = {{.ClientZero}}
{{end}}
// Stage{{.Spec.Client}} stages arguments for the next {{.ClientType}} to be constructed.
func Stage{{.Spec.Client}}(r *di.Registry, {{.Params}}) (di.Generation, error) {
	return di.SetFor[{{.ClientType}}](r, {{.Pack}})
}

// TryGet{{.Spec.Client}}Args resolves the arguments for c through the stage and its fallbacks.
func TryGet{{.Spec.Client}}Args(r *di.Registry, phase di.Phase, c {{.ClientType}}) ({{.Results}}, ok bool, err error) {
	args, ok, err := di.TryGet[{{.Spec.Client}}Args](r, phase, c)
	if !ok || err != nil {
		return
	}
	return {{.Unpack}}, true, nil
}

// Clear{{.Spec.Client}} removes a pending entry and reports whether it was never consumed.
func Clear{{.Spec.Client}}(r *di.Registry) (bool, error) {
	return di.ClearFor[{{.ClientType}}, {{.Spec.Client}}Args](r)
}

// Instantiate{{.Spec.Client}} clones original and delivers the arguments exactly once.
func Instantiate{{.Spec.Client}}(r *di.Registry, original {{.ClientType}}, {{.Params}}, clone di.CloneFunc[{{.ClientType}}]) ({{.ClientType}}, error) {
	return di.Instantiate(r, original, {{.Pack}}, clone)
}
`),
)

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

// writeFileAtomic writes a file atomically.
//
// It writes to a temporary file in the same directory and then renames it
// over the target path, ensuring readers never observe partial writes.
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
