//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/spaghettifunk/anima-atlas/testbed"
)

type Run mg.Namespace

const sampleDir = "build/sample"

// Writes the sample asset tree and packs it into build/sample/out.
func (Run) Sample() error {
	mg.Deps(Build.Binary)

	src := filepath.Join(sampleDir, "assets")
	if err := testbed.SampleTree().Write(src); err != nil {
		return err
	}
	fmt.Println("Packing sample atlas...")
	_, err := executeCmd(binaryPath, withArgs(src,
		"--atlas", filepath.Join(sampleDir, "out", "tileset.png"),
		"--manifest", filepath.Join(sampleDir, "out", "tileset.txt"),
		"--log-level", "debug",
	), withStream())
	if err != nil {
		return err
	}
	return nil
}

// Packs an arbitrary asset directory given in $ATLAS_SRC.
func (Run) Atlas() error {
	mg.Deps(Build.Binary)

	src := os.Getenv("ATLAS_SRC")
	if src == "" {
		src = "assets"
	}
	if _, err := executeCmd(binaryPath, withArgs(src), withStream()); err != nil {
		return err
	}
	return nil
}
