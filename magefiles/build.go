//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binaryPath = "bin/anima-atlas"

// Builds a static anima-atlas binary into bin/.
func (Build) Binary() error {
	_, err := executeCmd("go",
		withArgs("build", "-trimpath", "-o", binaryPath, "."),
		withEnv("CGO_ENABLED=0"),
		withStream(),
	)
	return err
}

// Runs the test suite with the race detector.
func (Build) Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Tidies go.mod and vets every package.
func (Build) Tidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
