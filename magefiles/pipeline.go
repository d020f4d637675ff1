package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Train fits the model from data/train.tsv and data/test.tsv into models/.
func Train() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "train", filepath.Join("data", "train.tsv"), filepath.Join("data", "test.tsv"))
}

// Evaluate scores models/ against data/valid.tsv.
func Evaluate() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "evaluate", filepath.Join("data", "valid.tsv"))
}

// Serve starts the prediction server on the configured address.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "serve")
}
