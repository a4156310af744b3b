// Package match finds the closest known name to a misspelled one.
//
// It backs the "did you mean" hints in diagnostics: a directive keyword such
// as //isomorphic:reff, a receiver type missing from the package, or an
// unknown package qualifier.
package match
