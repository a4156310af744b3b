package analyze

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/tools/go/packages"

	"isomorphic/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes |
	packages.NeedImports

// Analyzer loads Go packages and collects what the planner needs from them.
type Analyzer struct {
	dir     string
	overlay map[string][]byte
	graph   *Graph
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		overlay: make(map[string][]byte),
		graph:   NewGraph(),
	}
}

// WithDir sets the directory package patterns are resolved from.
func (a *Analyzer) WithDir(dir string) *Analyzer {
	a.dir = dir
	return a
}

// Exclude hides the contents of a source file from type checking, keeping
// only its package clause. It is used for the generator's own previous output,
// which may no longer compile against edited declarations. Missing files are
// ignored.
func (a *Analyzer) Exclude(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	src, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := parser.ParseFile(token.NewFileSet(), abs, src, parser.PackageClauseOnly)
	if err != nil {
		return fmt.Errorf("parsing package clause of %s: %w", path, err)
	}

	a.overlay[abs] = []byte("package " + f.Name.Name + "\n")

	return nil
}

// ExcludeOutput lists the packages matching patterns without type checking
// them and excludes every file named output, so a stale generated file cannot
// break the load that is about to regenerate it.
func (a *Analyzer) ExcludeOutput(output string, patterns ...string) error {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to list packages: %w", err)
	}

	for _, pkg := range pkgs {
		for _, file := range pkg.GoFiles {
			if filepath.Base(file) != output {
				continue
			}

			if err := a.Exclude(file); err != nil {
				return err
			}
		}
	}

	return nil
}

// LoadPackages loads the specified packages and collects their types and
// directives. Patterns are standard Go package patterns (e.g., ".",
// "isomorphic/examples/temperature").
func (a *Analyzer) LoadPackages(patterns ...string) (*Graph, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Dir:     a.dir,
		Overlay: a.overlay,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}

	// Type errors are expected while generated code is hidden: the package
	// may call capabilities that only the next output declares. Scope, syntax
	// and layouts stay usable, so only list and parse errors are fatal.
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind != packages.TypeError {
				errs = append(errs, e)
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current graph.
func (a *Analyzer) Graph() *Graph {
	return a.graph
}

// processPackage extracts types and directives from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	info := &PackageInfo{
		Path:    pkg.PkgPath,
		Name:    pkg.Name,
		Types:   make(map[string]*TypeInfo),
		Imports: make(map[string]string),
		types:   pkg.Types,
		fset:    pkg.Fset,
		sizes:   pkg.TypesSizes,
	}

	for _, f := range pkg.Syntax {
		info.files = append(info.files, f.Name.Pos())
	}

	for _, e := range pkg.Errors {
		if e.Kind == packages.TypeError {
			info.TypeErrors = append(info.TypeErrors, e.Error())
		}
	}

	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	if info.sizes == nil {
		info.sizes = types.SizesFor("gc", "amd64")
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only process type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		ti := &TypeInfo{
			ID:  TypeID{PkgPath: pkg.PkgPath, Name: name},
			Obj: typeName,
		}

		if named, ok := typeName.Type().(*types.Named); ok {
			qualifier := types.RelativeTo(pkg.Types)

			tparams := named.TypeParams()
			for i := 0; i < tparams.Len(); i++ {
				tp := tparams.At(i)
				ti.TypeParams = append(ti.TypeParams, tp.Obj().Name())
				ti.Constraints = append(ti.Constraints, types.TypeString(tp.Constraint(), qualifier))
			}
		}

		info.Types[name] = ti
	}

	collectImports(pkg, info.Imports)

	directives, err := collectDirectives(pkg.Fset, pkg.Syntax)
	if err != nil {
		return err
	}

	info.Directives = directives

	if _, seen := a.graph.Packages[pkg.PkgPath]; !seen {
		a.graph.Order = append(a.graph.Order, pkg.PkgPath)
	}

	a.graph.Packages[pkg.PkgPath] = info

	return nil
}

// collectImports records the qualifier each file uses for its imports.
func collectImports(pkg *packages.Package, into map[string]string) {
	for _, f := range pkg.Syntax {
		for _, spec := range f.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}

			var name string

			switch {
			case spec.Name != nil:
				name = spec.Name.Name
			case pkg.Imports[path] != nil:
				name = pkg.Imports[path].Name
			default:
				name = common.PkgAlias(path)
			}

			if name == "_" || name == "." {
				continue
			}

			into[name] = path
		}
	}
}
