// Package decl parses isomorphism declarations.
//
// A declaration names two types that share one memory layout and says which
// conversions to generate between them. Each capability kind (ref, mut,
// transmute) accepts three spellings:
//   - Directional: "A => B" generates A to B only
//   - Symmetric: "A = B" generates both A to B and B to A
//   - Canonical: "AsRef[B] for A", "AsMut[B] for A" or "From[A] for B",
//     which is the directional form written the way the capability reads
//
// Any spelling may end with "where <type params>", e.g. "where T any". The
// parameters are copied verbatim into the generated declarations so one
// declaration covers every instantiation.
package decl
