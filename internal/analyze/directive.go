package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"
	"unicode"

	"isomorphic/internal/decl"
)

// DirectivePrefix starts every generator directive. Like //go: directives it
// must not be followed by a space.
const DirectivePrefix = "//isomorphic:"

// ParseDirective parses the text of a single comment. ok is false when the
// comment is not a directive at all.
func ParseDirective(text string) (d Directive, ok bool, err error) {
	rest, found := strings.CutPrefix(text, DirectivePrefix)
	if !found {
		return Directive{}, false, nil
	}

	keyword, body := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		keyword, body = rest[:i], rest[i:]
	}

	kind, err := decl.ParseKind(keyword)
	if err != nil {
		return Directive{}, true, err
	}

	d = Directive{Kind: kind}

	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "name=") {
		opt, after := body, ""
		if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
			opt, after = body[:i], body[i:]
		}

		d.Name = strings.TrimPrefix(opt, "name=")
		if d.Name == "" {
			return Directive{}, true, fmt.Errorf("empty name= option in %q", text)
		}

		body = strings.TrimSpace(after)
	}

	if body == "" {
		return Directive{}, true, fmt.Errorf("directive %q has no declaration", text)
	}

	d.Text = body

	return d, true, nil
}

// collectDirectives scans every comment of the given files.
func collectDirectives(fset *token.FileSet, files []*ast.File) ([]Directive, error) {
	var (
		out  []Directive
		errs []string
	)

	for _, f := range files {
		for _, group := range f.Comments {
			for _, c := range group.List {
				d, ok, err := ParseDirective(c.Text)
				if !ok {
					continue
				}

				pos := fset.Position(c.Slash)
				if err != nil {
					errs = append(errs, fmt.Sprintf("%s: %v", pos, err))
					continue
				}

				d.Pos = pos
				out = append(out, d)
			}
		}
	}

	if len(errs) > 0 {
		return out, fmt.Errorf("bad directives: %s", strings.Join(errs, "; "))
	}

	return out, nil
}

// Origin returns the directive position as "file.go:line", without the
// directory so generated code does not depend on where it was built.
func (d Directive) Origin() string {
	if !d.Pos.IsValid() {
		return ""
	}

	return fmt.Sprintf("%s:%d", filepath.Base(d.Pos.Filename), d.Pos.Line)
}

// Declaration parses the directive text into a declaration.
func (d Directive) Declaration() (*decl.Declaration, error) {
	parsed, err := decl.Parse(d.Kind, d.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Origin(), err)
	}

	parsed.Name = d.Name
	parsed.Origin = d.Origin()

	return parsed, nil
}
