package plan

import (
	"isomorphic/internal/analyze"
	"isomorphic/internal/config"
	"isomorphic/internal/decl"
	"isomorphic/internal/diagnostic"
)

// ResolvedPlan is the final output of the resolution pipeline.
// It contains everything needed for code generation.
type ResolvedPlan struct {
	// PackageName is the package clause of the generated file.
	PackageName string
	// PkgPath is the import path of the generated package (if known).
	PkgPath string
	// Dir is the directory of the generated package (if known).
	Dir string
	// Output is the generated file name.
	Output string
	// Impls is the list of capabilities to emit, in declaration order.
	Impls []ResolvedImpl
	// SizeGuards are the concrete pairs that get a compile-time size check.
	SizeGuards []SizeGuard
	// Imports lists the packages referenced by declared type expressions.
	Imports []Import
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// ResolvedImpl is one directional capability ready for generation.
type ResolvedImpl struct {
	decl.Impl
	// FuncName is the name of the generated function or method.
	FuncName string
	// Method is true when the capability is a method on the source type.
	Method bool
	// Concrete is true when the impl has no type parameters.
	Concrete bool
	// FromLayout and ToLayout are set when both sides could be evaluated.
	FromLayout, ToLayout *analyze.Layout
}

// SizeGuard asks the generator to reject a build where A and B differ in size.
type SizeGuard struct {
	A, B string
}

// Import is a package imported by the generated file.
type Import struct {
	Alias string // empty when the alias matches the package name
	Path  string
}

// Config controls resolution.
type Config struct {
	// PackageName overrides the name taken from the analyzed package.
	PackageName string
	// Output is the generated file name.
	Output string
	// Style selects function or method emission for ref/mut capabilities.
	Style config.Style
	// AssertSize emits compile-time size guards for concrete pairs.
	AssertSize bool
	// Imports maps extra qualifiers to import paths.
	Imports map[string]string
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{
		Output: config.DefaultOutput,
		Style:  config.StyleFunctions,
	}
}

// ConfigFromFile builds a resolution config from a declaration file.
func ConfigFromFile(f *config.File) Config {
	return Config{
		PackageName: f.Package,
		Output:      f.Output,
		Style:       f.Style,
		AssertSize:  f.AssertSize,
		Imports:     f.Imports,
	}
}
