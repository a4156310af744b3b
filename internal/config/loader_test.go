package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isomorphic/internal/decl"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
package: temperature
output: temps_gen.go
style: methods
assert_size: true
ref:
  - Celsius = float64
  - decl: Wrapper[T] => T where T any
    name: Unwrap
mut: AsMut[float64] for Kelvin
transmute:
  - From[Celsius] for float64
  - "[2]int32 = Point"
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "temperature", f.Package)
	assert.Equal(t, "temps_gen.go", f.Output)
	assert.Equal(t, StyleMethods, f.Style)
	assert.True(t, f.AssertSize)

	require.Len(t, f.Ref, 2)
	assert.Equal(t, Entry{Decl: "Celsius = float64"}, f.Ref[0])
	assert.Equal(t, Entry{Decl: "Wrapper[T] => T where T any", Name: "Unwrap"}, f.Ref[1])

	require.Len(t, f.Mut, 1)
	assert.Equal(t, "AsMut[float64] for Kelvin", f.Mut[0].Decl)

	require.Len(t, f.Transmute, 2)
	assert.Equal(t, "[2]int32 = Point", f.Transmute[1].Decl)
}

func TestParseMinimal(t *testing.T) {
	f, err := Parse([]byte(`ref: A => B`))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, DefaultOutput, f.Output)
	assert.Equal(t, StyleFunctions, f.Style)
	assert.False(t, f.AssertSize)
	assert.Empty(t, f.Package)
	assert.True(t, f.Mut.IsEmpty())
	assert.Equal(t, EntryArray{{Decl: "A => B"}}, f.Entries(decl.KindRef))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad version", `version: "2"`},
		{"bad style", `style: classes`},
		{"entry without decl", "ref:\n  - name: X\n"},
		{"empty entry", "ref:\n  - \"\"\n"},
		{"nested list", "ref:\n  - [A, B]\n"},
		{"not yaml", "ref: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestDeclarations(t *testing.T) {
	f, err := Parse([]byte(`
ref:
  - decl: Celsius = float64
    name: CelsiusFloat
mut: AsMut[float64] for Kelvin
transmute: From[Celsius] for Kelvin
`))
	require.NoError(t, err)

	decls, err := f.Declarations()
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.Equal(t, decl.KindRef, decls[0].Kind)
	assert.Equal(t, decl.FormSymmetric, decls[0].Form)
	assert.Equal(t, "CelsiusFloat", decls[0].Name)
	assert.Equal(t, "config:ref[0]", decls[0].Origin)

	assert.Equal(t, decl.KindMut, decls[1].Kind)
	assert.Equal(t, "Kelvin", decls[1].From)
	assert.Equal(t, "float64", decls[1].To)

	assert.Equal(t, decl.KindTransmute, decls[2].Kind)
	assert.Equal(t, "Celsius", decls[2].From)
	assert.Equal(t, "Kelvin", decls[2].To)
}

func TestDeclarations_ReportsEveryBadEntry(t *testing.T) {
	f, err := Parse([]byte(`
ref:
  - A ~ B
  - C => D
mut: AsRef[B] for A
`))
	require.NoError(t, err)

	_, err = f.Declarations()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ref[0]")
	assert.Contains(t, err.Error(), "mut[0]")
	assert.NotContains(t, err.Error(), "ref[1]")
}

func TestLoadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iso.yaml")

	orig := &File{
		Version: "1",
		Package: "temperature",
		Output:  DefaultOutput,
		Style:   StyleFunctions,
		Ref:     EntryArray{{Decl: "Celsius = float64"}, {Decl: "Kelvin => float64", Name: "KelvinValue"}},
		Mut:     EntryArray{{Decl: "Celsius => float64"}},
	}

	require.NoError(t, WriteFile(orig, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mut: Celsius => float64")
	assert.Contains(t, string(data), "name: KelvinValue")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Path())
	assert.Equal(t, orig.Ref, loaded.Ref)
	assert.Equal(t, orig.Mut, loaded.Mut)
	assert.Empty(t, loaded.Transmute)

	decls, err := loaded.Declarations()
	require.NoError(t, err)
	assert.Equal(t, "iso.yaml:ref[1]", decls[1].Origin)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	f := Default()
	assert.Equal(t, StyleFunctions, f.Style)
	assert.Equal(t, DefaultOutput, f.Output)

	decls, err := f.Declarations()
	require.NoError(t, err)
	assert.Empty(t, decls)
}
