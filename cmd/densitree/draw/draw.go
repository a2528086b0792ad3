// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// the trees of a densitree project
// as a single overlapped drawing.
package draw

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/densitree/drawparam"
	"github.com/js-arias/densitree/overlay"
	"github.com/js-arias/densitree/project"
	"github.com/js-arias/densitree/tiporder"
	"golang.org/x/exp/rand"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `draw [--png] [--width <value>] [--height <value>]
	[--layout <layout>] [--order <order>] [--order-file <file>]
	[--jitter <value>] [--seed <value>] [--noalign]
	[--step <value>] [--open <value>]
	[--ramp] [--nolabels]
	[-o|--output <out-prefix>]
	<project-file>`,
	Short: "draw the trees of a project as a densitree",
	Long: `
Command draw reads all the trees of a densitree project and draws them, one on
top of another, over a shared ordering of their tips, into an SVG-encoded
file.

The argument of the command is the name of the project file.

The drawing parameters defined in the project are used as defaults, and any
flag of the command overrides the stored value. Use the command 'densitree
param' to view or change the stored parameters.

By default, the output is an SVG file. If the flag --png is given, a PNG file
will be produced instead; use the flags --width and --height to set the size
of the PNG canvas in pixels (by default, 800 by 600).

The flag --layout sets the geometry of the drawing, one of "slanted" (the
default), "rectangular", "fan", "circular", or "radial".

The flag --order sets the ordering of the tips: "mds" (the default), a tree
number (1-based), or a comma separated list of taxon names; see 'densitree
help tip-ordering'. An explicit ordering can also be read from a
tab-delimited file with a "taxon" field, using the flag --order-file.

The flag --jitter sets the standard deviation of a gaussian noise added to
the vertical position of the tips of every tree, except the first one. By
default, the drawing is deterministic; use the flag --seed to set an explicit
random seed, so a jittered drawing can be reproduced.

If the flag --noalign is given, the trees will keep their own horizontal
scale, with all roots at the same position; by default, the trees are shifted
so the most distant tip of each tree ends at the same position.

The flag --step sets the number of pixels per branch length unit, and the
flag --open the angle, in degrees, left without tips in a polar drawing.

If the flag --ramp is given, each tree will be drawn with its own color,
taken from a color blind friendly ramp. If the flag --nolabels is given, the
taxon names will be omitted.

By default, the name of the project file will be used as the output file
name. Use the flag -o, or --output, to define a prefix for the resulting
file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var pngFlag bool
var noAlign bool
var rampFlag bool
var noLabels bool
var widthFlag float64
var heightFlag float64
var jitterFlag float64
var stepFlag float64
var openFlag float64
var seed uint64
var layoutFlag string
var orderFlag string
var orderFile string
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&pngFlag, "png", false, "")
	c.Flags().BoolVar(&noAlign, "noalign", false, "")
	c.Flags().BoolVar(&rampFlag, "ramp", false, "")
	c.Flags().BoolVar(&noLabels, "nolabels", false, "")
	c.Flags().Float64Var(&widthFlag, "width", 800, "")
	c.Flags().Float64Var(&heightFlag, "height", 600, "")
	c.Flags().Float64Var(&jitterFlag, "jitter", -1, "")
	c.Flags().Float64Var(&stepFlag, "step", 0, "")
	c.Flags().Float64Var(&openFlag, "open", -1, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&layoutFlag, "layout", "", "")
	c.Flags().StringVar(&orderFlag, "order", "", "")
	c.Flags().StringVar(&orderFile, "order-file", "", "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
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

	dp := drawparam.New("")
	if p.Path(project.Params) != "" {
		dp, err = p.Params()
		if err != nil {
			return err
		}
	}
	if err := setParams(dp); err != nil {
		return err
	}

	o := dp.Options()
	if orderFile != "" {
		order, err := readOrderFile(orderFile)
		if err != nil {
			return err
		}
		o.Order = tiporder.Explicit(order...)
	}
	if seed != 0 {
		o.Src = rand.NewSource(seed)
	}

	pl, err := overlay.New(tc.Trees(), o)
	if err != nil {
		return err
	}

	name := outPrefix
	if name == "" {
		name = strings.TrimSuffix(args[0], ".tab")
	}
	if pngFlag {
		return writePNG(pl, name+".png")
	}
	return writeSVG(pl, name+".svg")
}

func setParams(dp *drawparam.DP) error {
	if layoutFlag != "" {
		if err := dp.SetLayout(layoutFlag); err != nil {
			return err
		}
	}
	if orderFlag != "" {
		if err := dp.SetOrder(orderFlag); err != nil {
			return err
		}
	}
	if jitterFlag >= 0 {
		if err := dp.SetJitter(jitterFlag); err != nil {
			return err
		}
	}
	if stepFlag > 0 {
		if err := dp.SetStep(stepFlag); err != nil {
			return err
		}
	}
	if openFlag >= 0 {
		if err := dp.SetOpen(openFlag); err != nil {
			return err
		}
	}
	if noAlign {
		dp.SetAlignTips(false)
	}
	if rampFlag {
		dp.SetRamp(true)
	}
	if noLabels {
		dp.SetLabels(false)
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

func writeSVG(pl *overlay.Plot, name string) (err error) {
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

	bw := bufio.NewWriter(f)
	if err := pl.SVG(bw); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}

func writePNG(pl *overlay.Plot, name string) (err error) {
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

	if err := pl.PNG(f, vg.Length(widthFlag), vg.Length(heightFlag)); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}
