package analyze

import (
	"go/token"
	"go/types"

	"isomorphic/internal/decl"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "isomorphic/examples/temperature"
	Name    string // e.g., "Celsius"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeInfo describes a named type declared in a loaded package.
type TypeInfo struct {
	ID          TypeID
	TypeParams  []string        // Type parameter names, in declaration order
	Constraints []string        // Constraint of each type parameter, package-relative
	Obj         *types.TypeName // The original go/types object
}

// IsGeneric returns true if the type declares type parameters.
func (t *TypeInfo) IsGeneric() bool {
	return len(t.TypeParams) > 0
}

// Directive is an //isomorphic:<kind> comment found in a source file.
//
//	//isomorphic:ref Celsius = float64
//	//isomorphic:transmute name=CelsiusBits From[Celsius] for uint64
type Directive struct {
	Kind decl.Kind
	Text string // declaration text after the kind and options
	Name string // value of the optional name= option
	Pos  token.Position
}

// Layout is the size and alignment of a type, in bytes.
type Layout struct {
	Size  int64
	Align int64
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path       string               // Import path
	Name       string               // Package name
	Dir        string               // Directory containing the package sources
	Types      map[string]*TypeInfo // Named types declared at package scope
	Imports    map[string]string    // Qualifier -> import path, across all files
	Directives []Directive          // Directives in file order
	TypeErrors []string             // Tolerated type errors, e.g. calls into hidden output

	types *types.Package
	fset  *token.FileSet
	sizes types.Sizes
	files []token.Pos // one position inside each file, for file-scoped lookups
}

// Lookup returns the named type declared in this package, or nil.
func (p *PackageInfo) Lookup(name string) *TypeInfo {
	return p.Types[name]
}

// Declares reports whether an object with the given name exists at package
// scope.
func (p *PackageInfo) Declares(name string) bool {
	return p.types != nil && p.types.Scope().Lookup(name) != nil
}

// CanHaveMethods reports whether methods may be declared on the named type:
// it must not be a pointer or interface type.
func (t *TypeInfo) CanHaveMethods() bool {
	if t.Obj == nil {
		return false
	}

	switch t.Obj.Type().Underlying().(type) {
	case *types.Pointer, *types.Interface:
		return false
	default:
		return true
	}
}

// HasMember reports whether the type (or a pointer to it) already has a field
// or method with the given name.
func (t *TypeInfo) HasMember(name string) bool {
	if t.Obj == nil {
		return false
	}

	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(t.Obj.Type()), true, t.Obj.Pkg(), name)

	return obj != nil
}

// Graph holds all loaded packages.
type Graph struct {
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
	// Order lists package paths in load order.
	Order []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{Packages: make(map[string]*PackageInfo)}
}

// Package returns the PackageInfo for a given path, or nil if not loaded.
func (g *Graph) Package(path string) *PackageInfo {
	return g.Packages[path]
}

// All returns the loaded packages in load order.
func (g *Graph) All() []*PackageInfo {
	out := make([]*PackageInfo, 0, len(g.Order))
	for _, path := range g.Order {
		out = append(out, g.Packages[path])
	}

	return out
}
