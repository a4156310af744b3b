package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes the rejected template output next to the
// intended file so the broken declaration can be inspected. This is
// best-effort and never replaces the formatting error.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	// The sidecar keeps a .go suffix for syntax highlighting but carries a
	// build constraint so it never joins the package.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"
	body := append([]byte("//go:build ignore\n\n"), content...)

	return os.WriteFile(filepath.Join(outDir, debugName), body, filePerm)
}
