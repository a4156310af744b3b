// Package gen provides deterministic Go code generation for isomorphism
// capabilities.
//
// Generation approach uses text/template + go/format. Every generated
// function is a one-line delegation to a primitive of package isomorphic:
//   - ref: isomorphic.RefOf
//   - mut: isomorphic.MutRefOf
//   - transmute: isomorphic.CloneOf
//
// Concrete impls are followed by a conformance assertion against
// isomorphic.RefFunc, MutFunc or FromFunc, and opt-in size guards turn a
// layout mismatch into a compile error.
package gen
