package decl

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
)

// ParseError reports a declaration that matches none of the accepted shapes.
type ParseError struct {
	Text   string
	Reason string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid declaration %q: %s", e.Text, e.Reason)
}

func parseErr(text, format string, args ...any) error {
	return &ParseError{Text: text, Reason: fmt.Sprintf(format, args...)}
}

// Parse parses one declaration of the given kind.
func Parse(kind Kind, text string) (*Declaration, error) {
	if kind == KindUnknown {
		return nil, errors.New("declaration kind is unknown")
	}

	src := strings.TrimSpace(text)
	if src == "" {
		return nil, parseErr(text, "empty declaration")
	}

	body, where := splitWhere(src)
	if body == "" {
		return nil, parseErr(src, "missing type pair before \"where\"")
	}

	d := &Declaration{Kind: kind, Text: src}

	if where != "" {
		tp, err := parseTypeParams(where)
		if err != nil {
			return nil, parseErr(src, "bad where clause: %v", err)
		}

		d.TypeParams = tp
	}

	from, to, canonical, err := parseCanonical(kind, body)
	if err != nil {
		return nil, parseErr(src, "%v", err)
	}

	if canonical {
		d.Form = FormCanonical
	} else {
		var form Form

		from, to, form, err = splitRelation(body)
		if err != nil {
			return nil, parseErr(src, "%v", err)
		}

		d.Form = form
	}

	if d.From, err = parseType(from); err != nil {
		return nil, parseErr(src, "source type: %v", err)
	}

	if d.To, err = parseType(to); err != nil {
		return nil, parseErr(src, "destination type: %v", err)
	}

	return d, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables.
func MustParse(kind Kind, text string) *Declaration {
	d, err := Parse(kind, text)
	if err != nil {
		panic(err)
	}

	return d
}

// scanTopLevel calls fn for every byte offset of s that is outside brackets
// and string literals. Scanning stops when fn returns false.
func scanTopLevel(s string, fn func(i int) bool) {
	depth := 0

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '`':
			quote = c
			continue
		case '(', '[', '{':
			depth++
			continue
		case ')', ']', '}':
			depth--
			continue
		}

		if depth == 0 && !fn(i) {
			return
		}
	}
}

// splitWhere separates "A => B where T any" into "A => B" and "T any".
func splitWhere(s string) (body, where string) {
	idx := -1

	scanTopLevel(s, func(i int) bool {
		if isWordAt(s, i, "where") {
			idx = i
			return false
		}

		return true
	})

	if idx < 0 {
		return s, ""
	}

	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len("where"):])
}

// isWordAt reports whether word occurs at s[i:] delimited by whitespace or the
// string boundaries.
func isWordAt(s string, i int, word string) bool {
	if !strings.HasPrefix(s[i:], word) {
		return false
	}

	if i > 0 && !unicode.IsSpace(rune(s[i-1])) {
		return false
	}

	end := i + len(word)

	return end == len(s) || unicode.IsSpace(rune(s[end]))
}

// parseCanonical recognizes "Trait[X] for Y". It returns canonical=false
// without error when body is not written in that shape.
func parseCanonical(kind Kind, body string) (from, to string, canonical bool, err error) {
	open := strings.IndexByte(body, '[')
	if open <= 0 {
		return "", "", false, nil
	}

	trait := strings.TrimSpace(body[:open])
	if !isTraitName(trait) {
		return "", "", false, nil
	}

	closing := matchingBracket(body, open)
	if closing < 0 {
		return "", "", false, nil
	}

	rest := strings.TrimLeftFunc(body[closing+1:], unicode.IsSpace)
	if !isWordAt(rest, 0, "for") {
		return "", "", false, nil
	}

	if trait != kind.Trait() {
		return "", "", false, fmt.Errorf("%s does not match %s declarations (use %s)", trait, kind, kind.Trait())
	}

	inner := strings.TrimSpace(body[open+1 : closing])
	target := strings.TrimSpace(rest[len("for"):])

	if kind == KindTransmute {
		// From[A] for B converts A into B.
		return inner, target, true, nil
	}

	// AsRef[B] for A views A as B.
	return target, inner, true, nil
}

func isTraitName(s string) bool {
	for _, k := range Kinds {
		if k.Trait() == s {
			return true
		}
	}

	return false
}

// matchingBracket returns the index of the ']' closing the '[' at open.
func matchingBracket(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// splitRelation splits "A => B" or "A = B" around its single top-level operator.
func splitRelation(body string) (from, to string, form Form, err error) {
	type op struct {
		at   int
		size int
		form Form
	}

	var ops []op

	scanTopLevel(body, func(i int) bool {
		if body[i] != '=' {
			return true
		}

		if i+1 < len(body) && body[i+1] == '>' {
			ops = append(ops, op{at: i, size: 2, form: FormDirectional})
			return true
		}

		ops = append(ops, op{at: i, size: 1, form: FormSymmetric})

		return true
	})

	switch len(ops) {
	case 0:
		return "", "", 0, errors.New(`expected "A => B", "A = B" or "Trait[B] for A"`)
	case 1:
	default:
		return "", "", 0, errors.New("more than one relation operator")
	}

	o := ops[0]
	from = strings.TrimSpace(body[:o.at])
	to = strings.TrimSpace(body[o.at+o.size:])

	if from == "" || to == "" {
		return "", "", 0, errors.New("relation needs a type on both sides")
	}

	return from, to, o.form, nil
}

// parseType validates a Go type expression and returns it in canonical
// formatting.
func parseType(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.New("empty type")
	}

	fset := token.NewFileSet()

	expr, err := parser.ParseExprFrom(fset, "", s, parser.SkipObjectResolution)
	if err != nil {
		return "", fmt.Errorf("%q is not a Go type: %w", s, err)
	}

	if !isTypeExpr(expr) {
		return "", fmt.Errorf("%q is not a Go type", s)
	}

	return render(fset, expr)
}

// render prints node in gofmt style. Unlike types.ExprString it keeps struct
// tags, which are part of a struct type's identity.
func render(fset *token.FileSet, node any) (string, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		return "", fmt.Errorf("formatting %T: %w", node, err)
	}

	return buf.String(), nil
}

// ParseTypeExpr parses a type expression previously accepted by Parse.
func ParseTypeExpr(s string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return nil, err
	}

	if !isTypeExpr(expr) {
		return nil, fmt.Errorf("%q is not a Go type", s)
	}

	return expr, nil
}

func isTypeExpr(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name != "_"
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(t.X)
	case *ast.ParenExpr:
		return isTypeExpr(t.X)
	case *ast.ArrayType:
		if _, ok := t.Len.(*ast.Ellipsis); ok {
			return false
		}

		return isTypeExpr(t.Elt)
	case *ast.MapType:
		return isTypeExpr(t.Key) && isTypeExpr(t.Value)
	case *ast.ChanType:
		return isTypeExpr(t.Value)
	case *ast.FuncType, *ast.StructType, *ast.InterfaceType:
		return true
	case *ast.IndexExpr:
		return isTypeExpr(t.X) && isTypeExpr(t.Index)
	case *ast.IndexListExpr:
		if !isTypeExpr(t.X) {
			return false
		}

		for _, idx := range t.Indices {
			if !isTypeExpr(idx) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// parseTypeParams parses the body of a where clause as a Go type parameter
// list.
func parseTypeParams(where string) (TypeParams, error) {
	src := "package p\n\nfunc _[" + where + "]() {}\n"

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("%q is not a type parameter list: %w", where, err)
	}

	if len(f.Decls) != 1 {
		return nil, fmt.Errorf("%q is not a type parameter list", where)
	}

	fd, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok || fd.Type.TypeParams == nil || len(fd.Type.TypeParams.List) == 0 {
		return nil, fmt.Errorf("%q is not a type parameter list", where)
	}

	var tp TypeParams

	for _, field := range fd.Type.TypeParams.List {
		if len(field.Names) == 0 || field.Type == nil {
			return nil, fmt.Errorf("%q: every type parameter needs a name and a constraint", where)
		}

		constraint, err := render(fset, field.Type)
		if err != nil {
			return nil, err
		}

		p := TypeParam{Constraint: constraint}
		for _, n := range field.Names {
			p.Names = append(p.Names, n.Name)
		}

		tp = append(tp, p)
	}

	return tp, nil
}
