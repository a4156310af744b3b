package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"isomorphic/internal/common"
	"isomorphic/internal/decl"
	"isomorphic/internal/plan"
)

// RuntimePath is the import path of the package holding the primitives.
const RuntimePath = "isomorphic"

// Header is the first line of every generated file.
const Header = "// Code generated by isogen. DO NOT EDIT."

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// RuntimePath is the import path of the primitives package.
	RuntimePath string
	// OutputDir receives a *.unformatted.go sidecar when formatting fails.
	OutputDir string
	// GenerateComments enables doc comments on generated functions.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		RuntimePath:      RuntimePath,
		GenerateComments: true,
	}
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.RuntimePath == "" {
		config.RuntimePath = RuntimePath
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "isomorphic_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// templateData holds all data needed for the file template.
type templateData struct {
	Header      string
	PackageName string
	Imports     []plan.Import
	SizeGuards  []plan.SizeGuard
	Funcs       []funcData
}

// funcData is one rendered capability.
type funcData struct {
	Doc       []string
	Signature string
	Body      string
	Assert    string
}

// Generate generates the Go file for a ResolvedPlan. A plan carrying error
// diagnostics is rejected.
func (g *Generator) Generate(p *plan.ResolvedPlan) ([]GeneratedFile, error) {
	if err := p.Diagnostics.Error(); err != nil {
		return nil, fmt.Errorf("plan has errors: %w", err)
	}

	data, err := g.buildTemplateData(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, p.Output, buf.Bytes())
		}

		return []GeneratedFile{{
			Filename: p.Output,
			Content:  buf.Bytes(),
		}}, fmt.Errorf("formatting code: %w", err)
	}

	return []GeneratedFile{{
		Filename: p.Output,
		Content:  formatted,
	}}, nil
}

func (g *Generator) buildTemplateData(p *plan.ResolvedPlan) (*templateData, error) {
	data := &templateData{
		Header:      Header,
		PackageName: p.PackageName,
		SizeGuards:  p.SizeGuards,
	}

	rt := common.PkgAlias(g.config.RuntimePath) + "."
	selfRuntime := p.PkgPath == g.config.RuntimePath

	if selfRuntime {
		rt = ""
	}

	reserved := map[string]string{}
	if len(p.Impls) > 0 && !selfRuntime {
		data.Imports = append(data.Imports, plan.Import{Path: g.config.RuntimePath})
		reserved[common.PkgAlias(g.config.RuntimePath)] = g.config.RuntimePath
	}

	if len(p.SizeGuards) > 0 {
		data.Imports = append(data.Imports, plan.Import{Path: "unsafe"})
		reserved["unsafe"] = "unsafe"
	}

	for _, imp := range p.Imports {
		name := imp.Alias
		if name == "" {
			name = common.PkgAlias(imp.Path)
		}

		if path, ok := reserved[name]; ok {
			if path == imp.Path {
				continue
			}

			return nil, fmt.Errorf("qualifier %q of %s clashes with the generated import of %s", name, imp.Path, path)
		}

		data.Imports = append(data.Imports, imp)
	}

	for _, impl := range p.Impls {
		data.Funcs = append(data.Funcs, g.buildFunc(impl, rt))
	}

	return data, nil
}

func (g *Generator) buildFunc(impl plan.ResolvedImpl, rt string) funcData {
	var (
		fd      funcData
		tparams string
	)

	if !impl.TypeParams.IsEmpty() {
		tparams = "[" + impl.TypeParams.String() + "]"
	}

	switch impl.Kind {
	case decl.KindRef, decl.KindMut:
		primitive, capability := "RefOf", "RefFunc"
		if impl.Kind == decl.KindMut {
			primitive, capability = "MutRefOf", "MutFunc"
		}

		if impl.Method {
			fd.Signature = fmt.Sprintf("func (in *%s) %s() *%s", impl.From, impl.FuncName, impl.To)
		} else {
			fd.Signature = fmt.Sprintf("func %s%s(in *%s) *%s", impl.FuncName, tparams, impl.From, impl.To)
		}

		fd.Body = fmt.Sprintf("%s%s[%s](in)", rt, primitive, impl.To)

		if impl.Concrete {
			target := impl.FuncName
			if impl.Method {
				target = fmt.Sprintf("(*%s).%s", impl.From, impl.FuncName)
			}

			fd.Assert = fmt.Sprintf("%s%s[%s, %s] = %s", rt, capability, impl.From, impl.To, target)
		}

	case decl.KindTransmute:
		fd.Signature = fmt.Sprintf("func %s%s(in %s) %s", impl.FuncName, tparams, impl.From, impl.To)
		fd.Body = fmt.Sprintf("%sCloneOf[%s](&in)", rt, impl.To)

		if impl.Concrete {
			fd.Assert = fmt.Sprintf("%sFromFunc[%s, %s] = %s", rt, impl.From, impl.To, impl.FuncName)
		}
	}

	if g.config.GenerateComments {
		fd.Doc = docLines(impl)
	}

	return fd
}

func docLines(impl plan.ResolvedImpl) []string {
	var lines []string

	switch impl.Kind {
	case decl.KindRef:
		lines = []string{
			fmt.Sprintf("%s views *%s as *%s without copying.", impl.FuncName, impl.From, impl.To),
			"The result aliases in and is meant for reading.",
		}
	case decl.KindMut:
		lines = []string{
			fmt.Sprintf("%s views *%s as a mutable *%s without copying.", impl.FuncName, impl.From, impl.To),
			"Writes through the result are visible through in.",
		}
	case decl.KindTransmute:
		lines = []string{
			fmt.Sprintf("%s converts a %s to a %s by copying its bytes.", impl.FuncName, impl.From, impl.To),
			"Resources referenced by in are shared, not duplicated.",
		}
	}

	if impl.Origin != "" {
		lines = append(lines, "", "Declared at "+impl.Origin+".")
	}

	// Multi-line type expressions would break the comment.
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(l, "\n", " ")
	}

	return lines
}

var fileTemplate = template.Must(template.New("isomorphic").Parse(`{{.Header}}

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{- if .SizeGuards}}
// Each array length below underflows, failing the build, when the sizes of
// a declared pair differ.
var (
{{range .SizeGuards}}	_ [unsafe.Sizeof(*new({{.A}})) - unsafe.Sizeof(*new({{.B}}))]struct{}
	_ [unsafe.Sizeof(*new({{.B}})) - unsafe.Sizeof(*new({{.A}}))]struct{}
{{end}})
{{end}}
{{- range .Funcs}}
{{range .Doc}}//{{if .}} {{.}}{{end}}
{{end}}{{.Signature}} {
	return {{.Body}}
}
{{if .Assert}}
var _ {{.Assert}}
{{end}}{{end}}`))
