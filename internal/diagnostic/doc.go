// Package diagnostic provides structured errors, warnings and notes produced
// while planning generated conversions.
//
// Key capabilities:
//   - Malformed or conflicting declaration errors
//   - Layout mismatch warnings for concrete type pairs
//   - Notes on why an impl fell back from a method to a function
package diagnostic
