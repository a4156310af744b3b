package analyze

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
)

// ErrNotConcrete is returned by Layout for expressions that cannot be
// evaluated in the package scope, typically because they mention type
// parameters.
var ErrNotConcrete = errors.New("type is not concrete in package scope")

// Layout evaluates a type expression in the package scope and returns its
// size and alignment for the architecture the package was loaded for.
func (p *PackageInfo) Layout(expr string) (Layout, error) {
	if p.types == nil {
		return Layout{}, errors.New("package has no type information")
	}

	// Qualified names resolve only in the scope of a file importing them.
	tv, err := types.Eval(p.fset, p.types, token.NoPos, expr)
	for _, pos := range p.files {
		if err == nil {
			break
		}

		tv, err = types.Eval(p.fset, p.types, pos, expr)
	}

	if err != nil {
		return Layout{}, fmt.Errorf("%w: %s: %v", ErrNotConcrete, expr, err)
	}

	if !tv.IsType() {
		return Layout{}, fmt.Errorf("%s is not a type", expr)
	}

	return Layout{
		Size:  p.sizes.Sizeof(tv.Type),
		Align: p.sizes.Alignof(tv.Type),
	}, nil
}
