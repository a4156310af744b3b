package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"isomorphic/internal/decl"
)

const filePerm = 0o644

// LoadFile loads and parses a YAML declaration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f.path = path

	return f, nil
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse declaration YAML: %w", err)
	}

	applyDefaults(&f)

	if err := validate(&f); err != nil {
		return nil, err
	}

	return &f, nil
}

// Default returns an empty File with defaults applied.
func Default() *File {
	var f File
	applyDefaults(&f)

	return &f
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.Output == "" {
		f.Output = DefaultOutput
	}

	if f.Style == "" {
		f.Style = StyleFunctions
	}
}

func validate(f *File) error {
	if f.Version != "1" {
		return fmt.Errorf("unsupported declaration file version %q", f.Version)
	}

	if !f.Style.IsValid() {
		return fmt.Errorf("invalid style %q (expected %q or %q)", f.Style, StyleFunctions, StyleMethods)
	}

	return nil
}

// Declarations parses every entry of the file. All malformed entries are
// reported together.
func (f *File) Declarations() ([]*decl.Declaration, error) {
	var (
		out  []*decl.Declaration
		errs []error
	)

	// Origins end up in generated comments, which must not depend on the
	// directory the generator ran from.
	src := "config"
	if f.path != "" {
		src = filepath.Base(f.path)
	}

	for _, kind := range decl.Kinds {
		for i, entry := range f.Entries(kind) {
			d, err := decl.Parse(kind, entry.Decl)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %s[%d]: %w", src, kind, i, err))
				continue
			}

			d.Name = entry.Name
			d.Origin = fmt.Sprintf("%s:%s[%d]", src, kind, i)
			out = append(out, d)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return out, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal declarations: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write declaration file %s: %w", path, err)
	}

	return nil
}
