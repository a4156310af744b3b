package gen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory and returns
// the names of the files whose content changed. Files that already hold the
// same bytes are left untouched so repeated go:generate runs keep their
// modification times.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	// Create output directory if it doesn't exist
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var changed []string

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		old, err := os.ReadFile(outputPath)
		if err == nil && bytes.Equal(old, file.Content) {
			continue
		}

		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return changed, fmt.Errorf("reading file %s: %w", file.Filename, err)
		}

		if err := writeAtomic(outputPath, file.Content); err != nil {
			return changed, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		changed = append(changed, file.Filename)
	}

	return changed, nil
}

// writeAtomic writes through a temporary file in the same directory so a
// failed run never leaves half a file behind for the next package load.
func writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// RemoveStale deletes filename from dir when it is a file this generator
// wrote, and reports whether it did. Files without the generated header are
// left alone.
func RemoveStale(dir, filename string) (bool, error) {
	path := filepath.Join(dir, filename)

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading file %s: %w", filename, err)
	}

	if !bytes.HasPrefix(content, []byte(Header+"\n")) {
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("removing file %s: %w", filename, err)
	}

	return true, nil
}
