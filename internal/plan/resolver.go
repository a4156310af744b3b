package plan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"isomorphic/internal/analyze"
	"isomorphic/internal/common"
	"isomorphic/internal/config"
	"isomorphic/internal/decl"
	"isomorphic/internal/match"
)

// Resolver performs the resolution pipeline.
type Resolver struct {
	pkg   *analyze.PackageInfo
	decls []*decl.Declaration
	cfg   Config
	log   zerolog.Logger
}

// NewResolver creates a Resolver for the declarations of one generated
// package. pkg may be nil when no package was analyzed; method style, layout
// checks and import discovery are then unavailable.
func NewResolver(pkg *analyze.PackageInfo, decls []*decl.Declaration, cfg Config) *Resolver {
	return &Resolver{
		pkg:   pkg,
		decls: decls,
		cfg:   cfg,
		log:   zerolog.Nop(),
	}
}

// WithLogger sets the logger used for debug output.
func (r *Resolver) WithLogger(log zerolog.Logger) *Resolver {
	r.log = log
	return r
}

type implKey struct {
	kind     decl.Kind
	from, to string
}

// resolution is the mutable state of one Resolve call.
type resolution struct {
	plan       *ResolvedPlan
	seen       map[implKey]int
	names      map[string]string
	guards     map[[2]string]struct{}
	laidOut    map[[2]string]struct{}
	qualifiers map[string]string // qualifier -> origin of first use
}

// Resolve runs the pipeline. Problems with individual declarations are
// reported through ResolvedPlan.Diagnostics; the returned error is reserved
// for configurations that cannot produce a plan at all.
func (r *Resolver) Resolve() (*ResolvedPlan, error) {
	p := &ResolvedPlan{
		PackageName: r.cfg.PackageName,
		Output:      r.cfg.Output,
	}

	if r.pkg != nil {
		p.PkgPath = r.pkg.Path
		p.Dir = r.pkg.Dir

		if p.PackageName == "" {
			p.PackageName = r.pkg.Name
		}
	}

	if p.PackageName == "" {
		return nil, errors.New("package name is unknown: analyze a package or configure one")
	}

	if p.Output == "" {
		p.Output = config.DefaultOutput
	}

	if r.cfg.Style == "" {
		r.cfg.Style = config.StyleFunctions
	}

	if !r.cfg.Style.IsValid() {
		return nil, fmt.Errorf("invalid style %q", r.cfg.Style)
	}

	res := &resolution{
		plan:       p,
		seen:       make(map[implKey]int),
		names:      make(map[string]string),
		guards:     make(map[[2]string]struct{}),
		laidOut:    make(map[[2]string]struct{}),
		qualifiers: make(map[string]string),
	}

	for _, d := range r.decls {
		for _, impl := range d.Expand() {
			r.resolveImpl(res, impl)
		}
	}

	r.resolveImports(res)

	r.log.Debug().
		Str("package", p.PackageName).
		Int("impls", len(p.Impls)).
		Int("guards", len(p.SizeGuards)).
		Msg("plan resolved")

	return p, nil
}

func (r *Resolver) resolveImpl(res *resolution, impl decl.Impl) {
	p := res.plan
	desc := impl.String()
	key := implKey{kind: impl.Kind, from: impl.From, to: impl.To}

	if idx, ok := res.seen[key]; ok {
		prev := p.Impls[idx]
		if prev.TypeParams.String() != impl.TypeParams.String() {
			p.Diagnostics.AddError("conflicting_impl",
				fmt.Sprintf("already declared at %s with different type parameters", prev.Origin), desc, impl.Origin)
		} else if prev.Origin != impl.Origin {
			p.Diagnostics.AddInfo("duplicate_impl",
				fmt.Sprintf("already declared at %s", prev.Origin), desc, impl.Origin)
		}

		return
	}

	if impl.Name != "" && !IsIdent(impl.Name) {
		p.Diagnostics.AddError("invalid_name", fmt.Sprintf("%q is not a Go identifier", impl.Name), desc, impl.Origin)
		return
	}

	ri := ResolvedImpl{
		Impl:     impl,
		Concrete: impl.TypeParams.IsEmpty(),
	}

	ri.Method = r.methodEligible(res, impl, desc)

	switch {
	case impl.Name != "":
		ri.FuncName = impl.Name
	case ri.Method:
		ri.FuncName = MethodName(impl)
	default:
		ri.FuncName = FuncName(impl)
	}

	if !IsIdent(ri.FuncName) {
		p.Diagnostics.AddError("unnamed_impl", "cannot derive a function name from the types; set a name explicitly", desc, impl.Origin)
		return
	}

	nameKey := ri.FuncName
	if ri.Method {
		recv, _, _ := receiverParts(impl.From)
		nameKey = recv + "." + ri.FuncName
	}

	if other, ok := res.names[nameKey]; ok {
		p.Diagnostics.AddError("name_collision", fmt.Sprintf("%s is already generated for %s", nameKey, other), desc, impl.Origin)
		return
	}

	if !ri.Method && r.pkg != nil && r.pkg.Declares(ri.FuncName) {
		p.Diagnostics.AddError("name_taken",
			fmt.Sprintf("package %s already declares %s", r.pkg.Name, ri.FuncName), desc, impl.Origin)
		return
	}

	res.names[nameKey] = desc

	r.checkLayout(res, &ri, desc)
	r.addSizeGuard(res, ri, desc)
	collectQualifiers(impl, res.qualifiers)

	res.seen[key] = len(p.Impls)
	p.Impls = append(p.Impls, ri)

	r.log.Debug().
		Str("impl", desc).
		Str("name", ri.FuncName).
		Bool("method", ri.Method).
		Str("origin", impl.Origin).
		Msg("resolved impl")
}

// methodEligible decides whether a ref or mut impl becomes a method on its
// source type.
func (r *Resolver) methodEligible(res *resolution, impl decl.Impl, desc string) bool {
	if r.cfg.Style != config.StyleMethods || impl.Kind == decl.KindTransmute {
		return false
	}

	fallback := func(reason string) bool {
		res.plan.Diagnostics.AddInfo("method_fallback", reason+"; emitting a function", desc, impl.Origin)
		return false
	}

	if r.pkg == nil {
		return fallback("no package was analyzed")
	}

	name, args, ok := receiverParts(impl.From)
	if !ok {
		return fallback(impl.From + " is not a named type")
	}

	ti := r.pkg.Lookup(name)
	if ti == nil {
		return fallback(fmt.Sprintf("%s is not declared in package %s%s", name, r.pkg.Name, match.Hint(name, lo.Keys(r.pkg.Types))))
	}

	if !ti.CanHaveMethods() {
		return fallback(fmt.Sprintf("%s is a pointer or interface type", name))
	}

	if len(args) != len(ti.TypeParams) || !slices.Equal(args, impl.TypeParams.Names()) {
		return fallback("type arguments of the receiver must repeat the where clause in order")
	}

	if ti.IsGeneric() && !slices.Equal(constraintsOf(impl.TypeParams), ti.Constraints) {
		return fallback(fmt.Sprintf("where clause constraints differ from those of %s", name))
	}

	method := impl.Name
	if method == "" {
		method = MethodName(impl)
	}

	if ti.HasMember(method) {
		return fallback(fmt.Sprintf("%s already has a field or method %s", name, method))
	}

	return true
}

// checkLayout compares the layouts of a concrete pair once per unordered pair.
// A mismatch is only a warning: the claim belongs to the caller.
func (r *Resolver) checkLayout(res *resolution, ri *ResolvedImpl, desc string) {
	if r.pkg == nil || !ri.Concrete {
		return
	}

	from, err := r.pkg.Layout(ri.From)
	if err != nil {
		r.log.Debug().Err(err).Str("type", ri.From).Msg("layout unavailable")
		return
	}

	to, err := r.pkg.Layout(ri.To)
	if err != nil {
		r.log.Debug().Err(err).Str("type", ri.To).Msg("layout unavailable")
		return
	}

	ri.FromLayout, ri.ToLayout = &from, &to

	pair := unordered(ri.From, ri.To)
	if _, done := res.laidOut[pair]; done {
		return
	}

	res.laidOut[pair] = struct{}{}

	switch {
	case from.Size != to.Size:
		res.plan.Diagnostics.AddWarning("size_mismatch",
			fmt.Sprintf("%s is %d bytes but %s is %d bytes; converting between them is undefined behavior",
				ri.From, from.Size, ri.To, to.Size), desc, ri.Origin)
	case from.Align != to.Align:
		res.plan.Diagnostics.AddWarning("align_mismatch",
			fmt.Sprintf("%s is aligned to %d bytes but %s to %d", ri.From, from.Align, ri.To, to.Align), desc, ri.Origin)
	}
}

func (r *Resolver) addSizeGuard(res *resolution, ri ResolvedImpl, desc string) {
	if !r.cfg.AssertSize || ri.From == ri.To {
		return
	}

	if !ri.Concrete {
		res.plan.Diagnostics.AddInfo("size_guard_skipped",
			"sizes of parameterized types cannot be checked at compile time", desc, ri.Origin)
		return
	}

	pair := unordered(ri.From, ri.To)
	if _, done := res.guards[pair]; done {
		return
	}

	res.guards[pair] = struct{}{}
	res.plan.SizeGuards = append(res.plan.SizeGuards, SizeGuard{A: pair[0], B: pair[1]})
}

// resolveImports maps every qualifier used by the declarations to an import.
func (r *Resolver) resolveImports(res *resolution) {
	quals := lo.Keys(res.qualifiers)
	slices.Sort(quals)

	for _, q := range quals {
		path := r.cfg.Imports[q]
		if path == "" && r.pkg != nil {
			path = r.pkg.Imports[q]
		}

		if path == "" {
			known := lo.Keys(r.cfg.Imports)
			if r.pkg != nil {
				known = append(known, lo.Keys(r.pkg.Imports)...)
			}

			res.plan.Diagnostics.AddError("unknown_qualifier",
				fmt.Sprintf("no import found for %q; add it to imports%s", q, match.Hint(q, known)), "", res.qualifiers[q])

			continue
		}

		imp := Import{Path: path}
		if common.PkgAlias(path) != q {
			imp.Alias = q
		}

		res.plan.Imports = append(res.plan.Imports, imp)
	}
}

// receiverParts splits "Name" or "Name[A, B]" into its parts. ok is false for
// any other shape, including type arguments that are not plain identifiers.
func receiverParts(expr string) (name string, args []string, ok bool) {
	e, err := decl.ParseTypeExpr(expr)
	if err != nil {
		return "", nil, false
	}

	var (
		base    ast.Expr
		indices []ast.Expr
	)

	switch t := e.(type) {
	case *ast.Ident:
		return t.Name, nil, true
	case *ast.IndexExpr:
		base, indices = t.X, []ast.Expr{t.Index}
	case *ast.IndexListExpr:
		base, indices = t.X, t.Indices
	default:
		return "", nil, false
	}

	id, isIdent := base.(*ast.Ident)
	if !isIdent {
		return "", nil, false
	}

	for _, idx := range indices {
		arg, isIdent := idx.(*ast.Ident)
		if !isIdent {
			return "", nil, false
		}

		args = append(args, arg.Name)
	}

	return id.Name, args, true
}

// constraintsOf returns one constraint per parameter name.
func constraintsOf(tp decl.TypeParams) []string {
	var out []string
	for _, p := range tp {
		for range p.Names {
			out = append(out, p.Constraint)
		}
	}

	return out
}

// collectQualifiers records the package qualifiers an impl mentions.
func collectQualifiers(impl decl.Impl, into map[string]string) {
	exprs := []string{impl.From, impl.To}
	for _, p := range impl.TypeParams {
		exprs = append(exprs, p.Constraint)
	}

	for _, s := range exprs {
		e, err := parser.ParseExpr(s)
		if err != nil {
			continue
		}

		ast.Inspect(e, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if id, ok := sel.X.(*ast.Ident); ok {
				if _, seen := into[id.Name]; !seen {
					into[id.Name] = impl.Origin
				}
			}

			return false
		})
	}
}

func unordered(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}

	return [2]string{a, b}
}
