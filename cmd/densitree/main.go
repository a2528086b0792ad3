// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// DensiTree is a tool to draw a set of phylogenetic trees
// that share their terminals
// as a single overlapped drawing.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/densitree/cmd/densitree/draw"
	"github.com/js-arias/densitree/cmd/densitree/matrix"
	"github.com/js-arias/densitree/cmd/densitree/order"
	"github.com/js-arias/densitree/cmd/densitree/param"
	"github.com/js-arias/densitree/cmd/densitree/tree"
)

var app = &command.Command{
	Usage: "densitree <command> [<argument>...]",
	Short: "a tool to draw overlapped phylogenetic trees",
}

func init() {
	app.Add(draw.Command)
	app.Add(matrix.Command)
	app.Add(order.Command)
	app.Add(param.Command)
	app.Add(tree.Command)
}

func main() {
	app.Main()
}
