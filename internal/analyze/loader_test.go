package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isomorphic/internal/decl"
)

const (
	temperaturePkg = "isomorphic/examples/temperature"
	wrapperPkg     = "isomorphic/examples/wrapper"
)

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(temperaturePkg, wrapperPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	assert.Contains(t, graph.Packages, temperaturePkg)
	assert.Contains(t, graph.Packages, wrapperPkg)
	assert.Len(t, graph.All(), 2)

	temp := graph.Package(temperaturePkg)
	require.NotNil(t, temp)
	assert.Equal(t, "temperature", temp.Name)
	assert.NotEmpty(t, temp.Dir)
	assert.Contains(t, temp.Types, "Celsius")
	assert.Contains(t, temp.Types, "Kelvin")
	assert.True(t, temp.Declares("CelsiusAsFloat64"), "generated functions are part of the package scope")
}

func TestAnalyzer_Directives(t *testing.T) {
	graph, err := NewAnalyzer().LoadPackages(temperaturePkg)
	require.NoError(t, err)

	temp := graph.Package(temperaturePkg)
	require.Len(t, temp.Directives, 6)

	first := temp.Directives[0]
	assert.Equal(t, decl.KindRef, first.Kind)
	assert.Equal(t, "Celsius = float64", first.Text)
	assert.Equal(t, "temperature.go:9", first.Origin())

	named := temp.Directives[3]
	assert.Equal(t, "KelvinValue", named.Name)
	assert.Equal(t, "AsRef[float64] for Kelvin", named.Text)

	d, err := named.Declaration()
	require.NoError(t, err)
	assert.Equal(t, decl.FormCanonical, d.Form)
	assert.Equal(t, "Kelvin", d.From)
	assert.Equal(t, "float64", d.To)
	assert.Equal(t, "KelvinValue", d.Name)
	assert.Equal(t, "temperature.go:18", d.Origin)
}

func TestAnalyzer_GenericTypeInfo(t *testing.T) {
	graph, err := NewAnalyzer().LoadPackages(wrapperPkg)
	require.NoError(t, err)

	pkg := graph.Package(wrapperPkg)
	require.NotNil(t, pkg)

	w := pkg.Lookup("Wrapper")
	require.NotNil(t, w)
	assert.True(t, w.IsGeneric())
	assert.Equal(t, []string{"T"}, w.TypeParams)
	assert.Equal(t, []string{"any"}, w.Constraints)
	assert.True(t, w.CanHaveMethods())
	assert.True(t, w.HasMember("V"))
	assert.True(t, w.HasMember("AsT"))
	assert.False(t, w.HasMember("Missing"))

	m := pkg.Lookup("Millis")
	require.NotNil(t, m)
	assert.False(t, m.IsGeneric())
	assert.True(t, m.HasMember("Milliseconds"))

	assert.Nil(t, pkg.Lookup("Nope"))
	assert.Equal(t, "time", pkg.Imports["time"])
}

func TestPackageInfo_Layout(t *testing.T) {
	graph, err := NewAnalyzer().LoadPackages(wrapperPkg)
	require.NoError(t, err)

	pkg := graph.Package(wrapperPkg)

	pair, err := pkg.Layout("Pair")
	require.NoError(t, err)

	arr, err := pkg.Layout("[2]int32")
	require.NoError(t, err)
	assert.Equal(t, pair, arr)
	assert.Equal(t, Layout{Size: 8, Align: 4}, pair)

	millis, err := pkg.Layout("Millis")
	require.NoError(t, err)

	dur, err := pkg.Layout("time.Duration")
	require.NoError(t, err, "qualified names resolve through file imports")
	assert.Equal(t, millis.Size, dur.Size)

	inst, err := pkg.Layout("Wrapper[int16]")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inst.Size)

	_, err = pkg.Layout("Wrapper[T]")
	require.ErrorIs(t, err, ErrNotConcrete)
}

func TestAnalyzer_ExcludeKeepsPackageClause(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		return path
	}

	write("go.mod", "module example.com/stale\n\ngo 1.21\n")
	write("types.go", "package stale\n\n//isomorphic:ref A = int64\ntype A struct{ N int64 }\n")
	stale := write("isomorphic_gen.go", "package stale\n\nfunc broken() { undefined() }\n")

	analyzer := NewAnalyzer().WithDir(dir)
	require.NoError(t, analyzer.Exclude(stale))
	require.NoError(t, analyzer.Exclude(filepath.Join(dir, "missing.go")))

	graph, err := analyzer.LoadPackages(".")
	require.NoError(t, err)

	pkg := graph.Package("example.com/stale")
	require.NotNil(t, pkg)
	assert.False(t, pkg.Declares("broken"))
	require.Len(t, pkg.Directives, 1)
	assert.Equal(t, "types.go:3", pkg.Directives[0].Origin())
}

func TestAnalyzer_PackageErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/bad\n\ngo 1.21\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.go"), []byte("package bad\n\nfunc {\n"), 0o600))

	_, err := NewAnalyzer().WithDir(dir).LoadPackages(".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package errors")
}

func TestAnalyzer_ToleratesTypeErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		return path
	}

	write("go.mod", "module example.com/calls\n\ngo 1.21\n")
	write("types.go", `package calls

//isomorphic:ref Meters = float64
type Meters struct{ V float64 }

func (m *Meters) Raw() float64 { return *MetersAsFloat64(m) }
`)
	generated := write("isomorphic_gen.go", "package calls\n\nfunc MetersAsFloat64(in *Meters) *float64 { return nil }\n")

	analyzer := NewAnalyzer().WithDir(dir)
	require.NoError(t, analyzer.Exclude(generated))

	graph, err := analyzer.LoadPackages(".")
	require.NoError(t, err)

	pkg := graph.Package("example.com/calls")
	require.NotNil(t, pkg)
	require.Len(t, pkg.TypeErrors, 1)
	assert.Contains(t, pkg.TypeErrors[0], "MetersAsFloat64")
	require.Len(t, pkg.Directives, 1)

	layout, err := pkg.Layout("Meters")
	require.NoError(t, err)
	assert.Equal(t, int64(8), layout.Size)
}

func TestTypeID_String(t *testing.T) {
	assert.Equal(t, "int", TypeID{Name: "int"}.String())
	assert.Equal(t, "isomorphic/examples/wrapper.Pair", TypeID{PkgPath: wrapperPkg, Name: "Pair"}.String())
}

func TestAnalyzer_ExcludeOutput(t *testing.T) {
	analyzer := NewAnalyzer()
	require.NoError(t, analyzer.ExcludeOutput("isomorphic_gen.go", temperaturePkg))

	graph, err := analyzer.LoadPackages(temperaturePkg)
	require.NoError(t, err)

	temp := graph.Package(temperaturePkg)
	assert.False(t, temp.Declares("CelsiusAsFloat64"))
	assert.True(t, temp.Declares("Celsius"))
}
