// Package analyze provides package loading and directive discovery.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build the
// model the planner needs:
//   - TypeID: package import path + type name
//   - TypeInfo: a named type declared in the package and its type parameters
//   - Directive: an //isomorphic:<kind> comment found in the sources
//   - Layout: size and alignment of a concrete type expression, evaluated in
//     the package scope
package analyze
