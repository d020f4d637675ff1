// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/veracity/internal/classifier"
	"github.com/pdiddy/veracity/internal/features"
)

// Save writes features.json and model.json into dir as a pair. Both files
// are staged next to their targets first. If either write or either rename
// fails, the directory keeps the artifacts it had before the call.
func Save(dir string, p *features.Pipeline, m *classifier.Softmax) error {
	if _, err := New(p, m); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	featuresTmp, err := stage(dir, ".features-*.json", p.Write)
	if err != nil {
		return fmt.Errorf("writing feature state: %w", err)
	}
	defer os.Remove(featuresTmp)

	modelTmp, err := stage(dir, ".model-*.json", m.Write)
	if err != nil {
		return fmt.Errorf("writing classifier: %w", err)
	}
	defer os.Remove(modelTmp)

	featuresPath := filepath.Join(dir, FeaturesFile)
	prev, err := setAside(featuresPath)
	if err != nil {
		return fmt.Errorf("installing feature state: %w", err)
	}
	if err := os.Rename(featuresTmp, featuresPath); err != nil {
		return errors.Join(fmt.Errorf("installing feature state: %w", err), putBack(prev, featuresPath))
	}
	if err := os.Rename(modelTmp, filepath.Join(dir, ModelFile)); err != nil {
		return errors.Join(fmt.Errorf("installing classifier: %w", err), putBack(prev, featuresPath))
	}
	if prev != "" {
		os.Remove(prev)
	}
	return nil
}

// stage writes a temp file in dir with the given name pattern and returns
// its path. The file is removed on error.
func stage(dir, pattern string, write func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// setAside moves an existing file at path out of the way and returns where
// it went. It returns "" when there was nothing at path.
func setAside(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	prev := path + ".prev"
	if err := os.Rename(path, prev); err != nil {
		return "", err
	}
	return prev, nil
}

// putBack undoes setAside, removing whatever now sits at path when there
// was no earlier file.
func putBack(prev, path string) error {
	if prev == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing partial artifact: %w", err)
		}
		return nil
	}
	if err := os.Rename(prev, path); err != nil {
		return fmt.Errorf("restoring previous artifact: %w", err)
	}
	return nil
}
