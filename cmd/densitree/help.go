// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(paramFilesGuide)
	app.Add(projectsGuide)
	app.Add(tipOrderingGuide)
	app.Add(treeFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
DensiTree uses several files to build a drawing of overlapped trees. To reduce
the burden of keeping track of many files, a single project file is used to
hold the reference of all files required for the drawing. This guide explains
the structure of the file, but most of the time, the best and most secure way
to edit or view this file is by using densitree commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# densitree project files
	dataset	path
	trees	trees.tab
	params	draw-params.tab

The valid file types are:

- Phylogenetic trees. Defined by the dataset keyword "trees". This file
  contains one or more trees in the form of a tab-delimited file. The
  recommended way to add a tree file is by using the command
  'densitree tree add'.
- Drawing parameters. Defined by the dataset keyword "params". This file
  contains the parameters used to build the drawing in the form of a
  tab-delimited file. The recommended way to edit this file is by using the
  command 'densitree param'.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
In DensiTree, trees are stored in a tab-delimited file. This guide explains
the structure of the file. The recommended way to interact with a tree file is
by using densitree commands, but as the file is a simple text file, it can be
edited by hand or by other programs.

In a densitree drawing, all trees are expected to share the same set of
terminals, and the first tree of the file is used as the reference tree of the
drawing.

A tree file is a tab-delimited file with the following fields:

	- tree    for the name of the tree
	- node    for the ID of the node
	- parent  for the ID of the parent node
	- length  for the length of the branch that connects the node
	          with its parent
	- taxon   for the taxon name of a terminal node

Here is an example file:

	# densitree tree files
	tree	node	parent	length	taxon
	boot.1	0	-1
	boot.1	1	0	1.5
	boot.1	2	1	1	Brontostoma discus
	boot.1	3	1	1	Eupolemus bifidus
	boot.1	4	0	2.5	Macrodema varia

In each tree, node IDs must be sequential, starting from the root (node 0,
with parent -1), and a parent must be defined before any of its children. An
empty length indicates an undefined branch length; if any length of a tree is
undefined, the whole tree will be treated as if every branch has a length of
one.

Trees can be imported from newick files or from time calibrated tree files of
the timetree package, using the command 'densitree tree add'.
	`,
}

var paramFilesGuide = &command.Command{
	Usage: "param-files",
	Short: "about drawing parameter files",
	Long: `
The parameters used to build a densitree drawing are stored in a
tab-delimited file, so a drawing can be reproduced at any time. This guide
explains the structure of the file. The recommended way to view or edit the
parameters is by using the command 'densitree param'.

A parameter file is a tab-delimited file with the following fields:

	- parameter  for the name of the parameter
	- value      for the value of the parameter

Here is an example file:

	# densitree drawing parameters
	parameter	value
	layout	slanted
	order	mds
	aligntips	true
	jitter	0.1
	step	10

The valid parameters are:

- layout, the geometry of the drawing: "slanted" (the default),
  "rectangular", "fan", "circular", or "radial".
- order, the tip ordering of the drawing (see 'densitree help
  tip-ordering').
- aligntips, if true (the default), all trees will be shifted horizontally,
  so the most distant tip of each tree will end at the same position.
- jitter, the standard deviation of a gaussian noise added to the vertical
  position of the tips of every tree, except the first one. The default is
  zero (no jitter).
- step, the number of pixels used per branch length unit. The default is 10.
- open, the angle, in degrees, of the circle slice left without tips in a
  polar drawing ("fan", "circular", or "radial" layouts).
- ramp, if true, each tree will be drawn with its own color, taken from a
  color blind friendly ramp. By default, all trees are drawn with the same
  translucent blue.
- labels, if true (the default), the taxon names will be added to the
  drawing.
	`,
}

var tipOrderingGuide = &command.Command{
	Usage: "tip-ordering",
	Short: "about the ordering of the tips",
	Long: `
In a densitree drawing, all trees are drawn over the same vertical ordering
of the tips, so the disagreement between the trees is visible as the
divergence between the overlaid drawings, instead of an artifact of each tree
having its own ordering.

The ordering is controlled by the "order" parameter (see 'densitree help
param-files'), or by the --order flag of the drawing commands. There are
three alternatives:

- "mds", the default. The ordering is built from the whole tree set: the
  cophenetic distance matrix of each tree (the matrix of the path length
  between every pair of terminals) is aligned to the taxon order of the
  first tree; then all matrices are stacked, so each taxon gets a distance
  profile across the whole set; the taxa are embedded into a single
  dimension with a classical multidimensional scaling (principal
  coordinates) of the euclidean distances between the profiles, and sorted
  by the resulting coordinate. Taxa that keep a stable distance across the
  whole set end up close in the drawing, which reduces the line crossings of
  the overlay.

- A tree number (1-based). The ordering of the indicated tree, as stored in
  the tree file, will be used for the whole set.

- An explicit list of taxon names, separated by commas. The list will be
  used verbatim. An ordering can also be read from a tab-delimited file with
  a "taxon" field, using the --order-file flag.

With "mds", all trees must have exactly the same set of terminals as the
first tree; a tree with a different terminal set invalidates the whole
drawing.
	`,
}
