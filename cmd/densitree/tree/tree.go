// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree is a metapackage for commands
// that dealt with the trees of a densitree project.
package tree

import (
	"github.com/js-arias/command"
	"github.com/js-arias/densitree/cmd/densitree/tree/add"
	"github.com/js-arias/densitree/cmd/densitree/tree/list"
	"github.com/js-arias/densitree/cmd/densitree/tree/remove"
	"github.com/js-arias/densitree/cmd/densitree/tree/terms"
)

var Command = &command.Command{
	Usage: "tree <command> [<argument>...]",
	Short: "commands for the trees of a project",
}

func init() {
	Command.Add(add.Command)
	Command.Add(list.Command)
	Command.Add(remove.Command)
	Command.Add(terms.Command)
}
