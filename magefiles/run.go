//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Testbed opens the two window demo using aviatrix3d.toml.
func (Run) Testbed() error {
	mg.Deps(Build.Testbed)
	fmt.Println("Run testbed...")
	if _, err := executeCmd("bin/testbed", withArgs("-config", "aviatrix3d.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
