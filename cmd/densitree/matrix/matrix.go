// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package matrix implements a command to print
// the cophenetic distance matrices
// of the trees of a densitree project.
package matrix

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/densitree/cophenetic"
	"github.com/js-arias/densitree/project"
	"github.com/js-arias/densitree/tiporder"
)

var Command = &command.Command{
	Usage: "matrix [--tree <tree>] [--consensus] <project-file>",
	Short: "print cophenetic distance matrices",
	Long: `
Command matrix reads the trees of a densitree project and prints their
cophenetic distance matrices (the matrix of the path length between every
pair of terminals) to the standard output, as a tab-delimited table with the
fields "taxon-a", "taxon-b", and "distance".

The argument of the command is the name of the project file.

By default, the matrix of every tree of the project will be printed, each one
preceded by a comment line with the name of the tree. If the flag --tree is
set, only the matrix of the indicated tree will be printed.

If the flag --consensus is given, a single matrix will be printed instead:
the matrix of the euclidean distances between the distance profiles of every
pair of taxa across the whole tree set, which is the matrix used to build the
default tip ordering (see 'densitree help tip-ordering').
	`,
	SetFlags: setFlags,
	Run:      run,
}

var consensus bool
var treeName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&consensus, "consensus", false, "")
	c.Flags().StringVar(&treeName, "tree", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	tc, err := p.Trees()
	if err != nil {
		return err
	}

	if consensus {
		m, err := tiporder.ProfileDistances(tc.Trees())
		if err != nil {
			return err
		}
		return m.TSV(c.Stdout())
	}

	ls := tc.Names()
	if treeName != "" {
		ls = []string{treeName}
	}
	for _, tn := range ls {
		t := tc.Tree(tn)
		if t == nil {
			return fmt.Errorf("tree %q not in project %q", tn, args[0])
		}
		m, err := cophenetic.New(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "# tree: %s\n", tn)
		if err := m.TSV(c.Stdout()); err != nil {
			return fmt.Errorf("tree %q: %v", tn, err)
		}
	}
	return nil
}
