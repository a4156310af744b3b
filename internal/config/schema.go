package config

import (
	"isomorphic/internal/common"
	"isomorphic/internal/decl"
)

// DefaultOutput is the generated file name used when none is configured.
const DefaultOutput = "isomorphic_gen.go"

// File represents the root of a declaration file.
type File struct {
	// Version of the file schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Package is the name of the generated package. Empty means "same as the
	// loaded package".
	Package string `yaml:"package,omitempty"`

	// Output is the generated file name, relative to the package directory.
	Output string `yaml:"output,omitempty"`

	// Style selects whether ref/mut capabilities become methods where possible.
	Style Style `yaml:"style,omitempty"`

	// AssertSize emits compile-time size guards for concrete type pairs.
	AssertSize bool `yaml:"assert_size,omitempty"`

	// Imports maps package qualifiers used in declarations to import paths,
	// e.g. {time: time}. Qualifiers the loaded package already imports do not
	// need to be listed.
	Imports map[string]string `yaml:"imports,omitempty"`

	Ref       EntryArray `yaml:"ref,omitempty"`
	Mut       EntryArray `yaml:"mut,omitempty"`
	Transmute EntryArray `yaml:"transmute,omitempty"`

	// path is the file the declarations were read from, used for origins.
	path string
}

// Entry is one declaration in a file.
type Entry struct {
	// Decl is the declaration text, e.g. "Celsius = float64".
	Decl string `yaml:"decl"`
	// Name overrides the generated function name.
	Name string `yaml:"name,omitempty"`
}

// EntryArray holds the entries of one capability kind.
type EntryArray []Entry

// IsEmpty returns true if there are no entries.
func (e EntryArray) IsEmpty() bool {
	return common.IsEmpty(e)
}

// Style selects how ref and mut capabilities are emitted.
type Style string

const (
	// StyleFunctions emits package-level functions only.
	StyleFunctions Style = "functions"
	// StyleMethods emits methods on the source type when it is declared in
	// the generated package, and functions otherwise.
	StyleMethods Style = "methods"
)

// IsValid returns true if the style is known.
func (s Style) IsValid() bool {
	return s == StyleFunctions || s == StyleMethods
}

// Entries returns the entries declared for kind.
func (f *File) Entries(kind decl.Kind) EntryArray {
	switch kind {
	case decl.KindRef:
		return f.Ref
	case decl.KindMut:
		return f.Mut
	case decl.KindTransmute:
		return f.Transmute
	default:
		return nil
	}
}

// Path returns the file the configuration was loaded from, if any.
func (f *File) Path() string {
	return f.path
}
