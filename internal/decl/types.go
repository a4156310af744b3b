package decl

import (
	"fmt"
	"strings"

	"isomorphic/internal/common"
	"isomorphic/internal/match"
)

// Kind selects which capability a declaration generates.
type Kind int

const (
	KindUnknown   Kind = iota
	KindRef            // read-only reference conversion
	KindMut            // mutable reference conversion
	KindTransmute      // value conversion by byte copy
)

// Kinds lists every valid Kind in emission order.
var Kinds = []Kind{KindRef, KindMut, KindTransmute}

// String returns the directive keyword of the kind.
func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindMut:
		return "mut"
	case KindTransmute:
		return "transmute"
	default:
		return common.UnknownStr
	}
}

// Trait returns the canonical capability name used in the trait-style spelling.
func (k Kind) Trait() string {
	switch k {
	case KindRef:
		return "AsRef"
	case KindMut:
		return "AsMut"
	case KindTransmute:
		return "From"
	default:
		return ""
	}
}

// ParseKind converts a directive keyword to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}

	names := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		names = append(names, k.String())
	}

	return KindUnknown, fmt.Errorf("unknown capability kind %q (expected ref, mut or transmute)%s", s, match.Hint(s, names))
}

// Form records which spelling a declaration was written in.
type Form int

const (
	FormDirectional Form = iota // A => B
	FormSymmetric               // A = B
	FormCanonical               // AsRef[B] for A
)

// String returns a human-readable form name.
func (f Form) String() string {
	switch f {
	case FormDirectional:
		return "directional"
	case FormSymmetric:
		return "symmetric"
	case FormCanonical:
		return "canonical"
	default:
		return common.UnknownStr
	}
}

// TypeParam is one group of a "where" clause, e.g. "K comparable" or "T, U any".
type TypeParam struct {
	Names      []string
	Constraint string
}

// TypeParams is a parsed "where" clause.
type TypeParams []TypeParam

// Names returns every declared parameter name in order.
func (tp TypeParams) Names() []string {
	var names []string
	for _, p := range tp {
		names = append(names, p.Names...)
	}

	return names
}

// String renders the parameters in Go syntax without brackets.
func (tp TypeParams) String() string {
	parts := make([]string, 0, len(tp))
	for _, p := range tp {
		parts = append(parts, strings.Join(p.Names, ", ")+" "+p.Constraint)
	}

	return strings.Join(parts, ", ")
}

// IsEmpty returns true if no type parameters were declared.
func (tp TypeParams) IsEmpty() bool {
	return common.IsEmpty(tp)
}

// Declaration is one parsed declaration.
type Declaration struct {
	Kind       Kind
	Form       Form
	From       string // source type expression, normalized
	To         string // destination type expression, normalized
	TypeParams TypeParams
	// Name overrides the generated function name of the From->To impl.
	Name string
	// Text is the declaration as written.
	Text string
	// Origin says where the declaration came from (file:line or config key).
	Origin string
}

// Impl is a single directional capability to generate.
type Impl struct {
	Kind       Kind
	From       string
	To         string
	TypeParams TypeParams
	Name       string
	Origin     string
}

// String returns a compact description, e.g. "ref Celsius => float64".
func (i Impl) String() string {
	s := fmt.Sprintf("%s %s => %s", i.Kind, i.From, i.To)
	if !i.TypeParams.IsEmpty() {
		s += " where " + i.TypeParams.String()
	}

	return s
}

// Expand returns the directional impls a declaration stands for: one for the
// directional and canonical forms, two for the symmetric form. A custom Name
// only applies to the first impl.
func (d *Declaration) Expand() []Impl {
	impls := []Impl{{
		Kind:       d.Kind,
		From:       d.From,
		To:         d.To,
		TypeParams: d.TypeParams,
		Name:       d.Name,
		Origin:     d.Origin,
	}}

	if d.Form == FormSymmetric {
		impls = append(impls, Impl{
			Kind:       d.Kind,
			From:       d.To,
			To:         d.From,
			TypeParams: d.TypeParams,
			Origin:     d.Origin,
		})
	}

	return impls
}
