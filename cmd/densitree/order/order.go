// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package order implements a command to print
// the tip ordering of the trees
// of a densitree project.
package order

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/densitree/layout"
	"github.com/js-arias/densitree/project"
	"github.com/js-arias/densitree/tiporder"
)

var Command = &command.Command{
	Usage: `order [--order <order>] [--order-file <file>]
	<project-file>`,
	Short: "print the tip ordering of a project",
	Long: `
Command order reads all the trees of a densitree project, builds the shared
ordering of their tips, and prints it to the standard output as a
tab-delimited table with the fields "position" and "taxon".

The argument of the command is the name of the project file.

By default, the ordering is built by a classical multidimensional scaling
over the whole tree set (see 'densitree help tip-ordering'). Use the flag
--order to set a different ordering: a tree number (1-based), or a comma
separated list of taxon names. An explicit ordering can also be read from a
tab-delimited file with a "taxon" field, using the flag --order-file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var orderFlag string
var orderFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&orderFlag, "order", "", "")
	c.Flags().StringVar(&orderFile, "order-file", "", "")
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

	sel := tiporder.MDS()
	if orderFile != "" {
		ord, err := readOrderFile(orderFile)
		if err != nil {
			return err
		}
		sel = tiporder.Explicit(ord...)
	} else if orderFlag != "" {
		sel, err = tiporder.Parse(orderFlag)
		if err != nil {
			return err
		}
	}

	ts := tc.Trees()
	tabs := make([]*layout.Tree, len(ts))
	for i, t := range ts {
		tabs[i] = layout.Fortify(t)
	}
	ord, err := sel.Order(ts, tabs)
	if err != nil {
		return err
	}

	if err := tiporder.TSV(c.Stdout(), ord); err != nil {
		return err
	}
	return nil
}

func readOrderFile(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	order, err := tiporder.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return order, nil
}
