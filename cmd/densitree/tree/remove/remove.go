// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package remove implements a command to remove trees
// from a densitree project.
package remove

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/densitree/phylo"
	"github.com/js-arias/densitree/project"
)

var Command = &command.Command{
	Usage: "remove <project-file> <tree>...",
	Short: "remove trees from a project",
	Long: `
Command remove removes one or more trees from the tree file of a densitree
project. The remaining trees keep their relative order.

The first argument of the command is the name of the project file; the rest
of the arguments are the names of the trees to be removed.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting tree names")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	tc, err := p.Trees()
	if err != nil {
		return err
	}

	rm := make(map[string]bool, len(args)-1)
	for _, tn := range args[1:] {
		if tc.Tree(tn) == nil {
			return fmt.Errorf("tree %q not in project %q", tn, args[0])
		}
		rm[tn] = true
	}

	nc := phylo.NewCollection()
	for _, tn := range tc.Names() {
		if rm[tn] {
			continue
		}
		if err := nc.Add(tc.Tree(tn)); err != nil {
			return err
		}
	}

	if err := writeTrees(nc, p.Path(project.Trees)); err != nil {
		return err
	}
	return nil
}

func writeTrees(tc *phylo.Collection, name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := tc.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
