// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add trees
// to a densitree project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/densitree/phylo"
	"github.com/js-arias/densitree/project"
	"github.com/js-arias/timetree"
)

var Command = &command.Command{
	Usage: `add [-f|--file <tree-file>]
	[--newick <name>] [--timetree]
	<project-file> [<input-file>...]`,
	Short: "add phylogenetic trees to a densitree project",
	Long: `
Command add reads one or more trees from one or more tree files, and adds the
trees to a densitree project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

One or more input files can be given as arguments. If no file is given, the
trees will be read from the standard input.

By default, the input is expected to be in the form of tab-delimited tree
files (see 'densitree help tree-files'). To import newick trees (i.e., trees
in parenthetical format), use the flag --newick with a name to be defined for
the trees found in the input files. To import time calibrated trees, in the
tab-delimited format of the timetree package, use the flag --timetree; the
ages of the nodes will be transformed into branch lengths in million years.

By default, the trees will be stored in the tree file currently defined for
the project. If the project does not have a tree file, a new one will be
created with the name 'trees.tab'. A different tree file name can be defined
using the flag --file, or -f. If this flag is used, and there is a tree file
already defined, then a new file with that name will be created, and used as
the tree file for the project (previously defined trees will be kept).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var useTimetree bool
var treeFile string
var newickName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&useTimetree, "timetree", false, "")
	c.Flags().StringVar(&treeFile, "file", "", "")
	c.Flags().StringVar(&treeFile, "f", "", "")
	c.Flags().StringVar(&newickName, "newick", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	pFile := args[0]
	p, err := openProject(pFile)
	if err != nil {
		return err
	}

	tc := phylo.NewCollection()
	if tf := p.Path(project.Trees); tf != "" {
		tc, err = readTreeFile(nil, tf)
		if err != nil {
			return fmt.Errorf("on project %q: %v", pFile, err)
		}
	}

	args = args[1:]
	if len(args) == 0 {
		args = append(args, "-")
	}
	for i, a := range args {
		fn := a
		if fn == "-" {
			fn = ""
			a = "stdin"
		}
		var nc *phylo.Collection
		switch {
		case newickName != "":
			tn := newickName
			if i > 0 {
				tn = fmt.Sprintf("%s.%d", newickName, i)
			}
			nc, err = readNewick(c.Stdin(), fn, tn)
		case useTimetree:
			nc, err = readTimetree(c.Stdin(), fn)
		default:
			nc, err = readTreeFile(c.Stdin(), fn)
		}
		if err != nil {
			return err
		}

		for _, tn := range nc.Names() {
			t := nc.Tree(tn)
			if err := tc.Add(t); err != nil {
				return fmt.Errorf("when adding trees from %q: %v", a, err)
			}
		}
	}

	if treeFile == "" {
		treeFile = p.Path(project.Trees)
		if treeFile == "" {
			treeFile = "trees.tab"
		}
	}

	if err := writeTrees(tc); err != nil {
		return err
	}
	p.Add(project.Trees, treeFile)
	if err := p.Write(); err != nil {
		return err
	}

	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func readTreeFile(r io.Reader, name string) (*phylo.Collection, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	c, err := phylo.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}

func readNewick(r io.Reader, newickFile, treeName string) (*phylo.Collection, error) {
	if newickFile != "" {
		f, err := os.Open(newickFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		newickFile = "stdin"
	}

	c, err := phylo.Newick(r, treeName)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", newickFile, err)
	}
	return c, nil
}

func readTimetree(r io.Reader, name string) (*phylo.Collection, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	tc, err := timetree.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}

	c := phylo.NewCollection()
	for _, tn := range tc.Names() {
		t, err := phylo.FromTimetree(tc.Tree(tn))
		if err != nil {
			return nil, fmt.Errorf("while reading file %q: %v", name, err)
		}
		if err := c.Add(t); err != nil {
			return nil, fmt.Errorf("while reading file %q: %v", name, err)
		}
	}
	return c, nil
}

func writeTrees(tc *phylo.Collection) (err error) {
	f, err := os.Create(treeFile)
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
		return fmt.Errorf("while writing to %q: %v", treeFile, err)
	}
	return nil
}
