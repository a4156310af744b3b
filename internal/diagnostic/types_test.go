package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Collect(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddInfo("method_fallback", "emitted as function", "ref T => Wrapper[T]", "")
	d.AddWarning("size_mismatch", "sizes differ: 8 vs 4", "ref A => B", "a.go:3:1")
	d.AddError("name_collision", "AAsB already defined", "", "iso.yaml:ref[1]")

	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	assert.Equal(t, []string{"name_collision", "size_mismatch", "method_fallback"}, d.Codes())

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t, "iso.yaml:ref[1]: [name_collision] AAsB already defined", err.Error())
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{"message only", Diagnostic{Message: "boom"}, "boom"},
		{"code", Diagnostic{Code: "x", Message: "boom"}, "[x] boom"},
		{"impl", Diagnostic{Code: "x", Message: "boom", Impl: "ref A => B"}, "[ref A => B]: [x] boom"},
		{"origin and impl", Diagnostic{Message: "boom", Impl: "mut A => B", Origin: "a.go:1:1"}, "a.go:1:1 [mut A => B]: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.String())
		})
	}
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning("w1", "", "", "")
	b.AddError("e1", "", "", "")
	b.AddInfo("i1", "", "", "")

	a.Merge(b)

	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
