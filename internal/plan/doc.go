// Package plan provides the resolution pipeline that produces a final
// ResolvedPlan consumed by code generation.
//
// Resolution pipeline:
//  1. Analyze the target package → declared types, imports, directives
//  2. Load YAML declarations (optional) and parse directives
//  3. For each declaration:
//     - Expand the symmetric form into two directional impls
//     - Name the generated function (or method) and drop duplicates
//     - Pick method or function style
//     - Compare layouts of concrete pairs and queue size guards
//  4. Emit diagnostics (collisions, layout mismatches, style fallbacks)
package plan
