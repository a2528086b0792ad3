// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terms implements a command to print
// the list of the terminals in the trees
// of a densitree project.
package terms

import (
	"fmt"
	"slices"

	"github.com/js-arias/command"
	"github.com/js-arias/densitree/project"
)

var Command = &command.Command{
	Usage: "terms [--tree <tree>] <project-file>",
	Short: "print a list of tree terminals",
	Long: `
Command terms reads the trees from a densitree project and prints the name of
the terminals to the standard output, in alphabetical order.

The argument of the command is the name of the project file.

By default, the terminals of all trees will be printed. If the flag --tree is
set, only the terminals of the indicated tree will be printed.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeName string

func setFlags(c *command.Command) {
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

	ls := tc.Names()
	if treeName != "" {
		ls = []string{treeName}
	}

	terms := make(map[string]bool)
	for _, tn := range ls {
		t := tc.Tree(tn)
		if t == nil {
			return fmt.Errorf("tree %q not in project %q", tn, args[0])
		}
		for _, tax := range t.Terms() {
			terms[tax] = true
		}
	}

	names := make([]string, 0, len(terms))
	for tax := range terms {
		names = append(names, tax)
	}
	slices.Sort(names)
	for _, tax := range names {
		fmt.Fprintf(c.Stdout(), "%s\n", tax)
	}
	return nil
}
