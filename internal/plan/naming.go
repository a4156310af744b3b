package plan

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"isomorphic/internal/decl"
)

// TypeName derives an identifier fragment from a type expression:
//
//	float64          -> Float64
//	time.Duration    -> TimeDuration
//	*Node            -> PtrNode
//	[]byte           -> SliceByte
//	[4]byte          -> Array4Byte
//	Wrapper[T]       -> WrapperT
//	map[string]int   -> MapStringInt
func TypeName(expr string) string {
	e, err := decl.ParseTypeExpr(expr)
	if err != nil {
		return sanitize(expr)
	}

	return typeName(e)
}

func typeName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return upperFirst(t.Name)
	case *ast.SelectorExpr:
		return typeName(t.X) + upperFirst(t.Sel.Name)
	case *ast.StarExpr:
		return "Ptr" + typeName(t.X)
	case *ast.ParenExpr:
		return typeName(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "Slice" + typeName(t.Elt)
		}

		if lit, ok := t.Len.(*ast.BasicLit); ok {
			return "Array" + sanitize(lit.Value) + typeName(t.Elt)
		}

		return "Array" + typeName(t.Len) + typeName(t.Elt)
	case *ast.MapType:
		return "Map" + typeName(t.Key) + typeName(t.Value)
	case *ast.ChanType:
		return "Chan" + typeName(t.Value)
	case *ast.FuncType:
		return "Func"
	case *ast.StructType:
		return "Struct"
	case *ast.InterfaceType:
		return "Interface"
	case *ast.IndexExpr:
		return typeName(t.X) + typeName(t.Index)
	case *ast.IndexListExpr:
		var sb strings.Builder

		sb.WriteString(typeName(t.X))

		for _, idx := range t.Indices {
			sb.WriteString(typeName(idx))
		}

		return sb.String()
	default:
		return ""
	}
}

// FuncName returns the default generated name of an impl.
//
//	ref:       {From}As{To}
//	mut:       {From}AsMut{To}
//	transmute: {To}From{From}
func FuncName(impl decl.Impl) string {
	from, to := TypeName(impl.From), TypeName(impl.To)

	switch impl.Kind {
	case decl.KindRef:
		return from + "As" + to
	case decl.KindMut:
		return from + "AsMut" + to
	case decl.KindTransmute:
		return to + "From" + from
	default:
		return ""
	}
}

// MethodName returns the default generated method name of a ref or mut impl.
func MethodName(impl decl.Impl) string {
	switch impl.Kind {
	case decl.KindRef:
		return "As" + TypeName(impl.To)
	case decl.KindMut:
		return "AsMut" + TypeName(impl.To)
	default:
		return ""
	}
}

// IsIdent reports whether s can name a generated function or method: a Go
// identifier that is neither a keyword nor the blank identifier.
func IsIdent(s string) bool {
	return token.IsIdentifier(s) && s != "_"
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

func sanitize(s string) string {
	var sb strings.Builder

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}

	return upperFirst(sb.String())
}
