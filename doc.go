// Package isomorphic provides unchecked reinterpretation between types that
// share one memory layout.
//
// Two types are isomorphic when they have the same size, the same alignment
// and the same bit validity, e.g. a single-field wrapper struct and the type of
// its field. The package never verifies that claim: every function here
// assumes the caller has already established it. Getting it wrong is undefined
// behavior, not a reported error.
//
// Primitives:
//   - RefOf views *Src as *Dst for reading, without copying
//   - MutRefOf views *Src as *Dst for writing, without copying
//   - CloneOf copies the bytes of *Src out as a fresh Dst
//
// Conversion capabilities for declared type pairs are produced at build time
// by cmd/isogen; the generated code only delegates to the primitives above and
// conforms to RefFunc, MutFunc and FromFunc.
package isomorphic
