// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to view and edit
// the drawing parameters of a densitree project.
package param

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/densitree/drawparam"
	"github.com/js-arias/densitree/project"
)

var Command = &command.Command{
	Usage: `param [--layout <layout>] [--order <order>]
	[--aligntips <bool>] [--jitter <value>]
	[--step <value>] [--open <value>]
	[--ramp <bool>] [--labels <bool>]
	<project-file>`,
	Short: "view and edit the drawing parameters",
	Long: `
Command param reads the drawing parameters of a densitree project and prints
them to the standard output. If any flag is given, the indicated parameters
will be updated, and the parameter file will be written back.

The argument of the command is the name of the project file. If the project
does not have a parameter file, a new one, called 'draw-params.tab', will be
created and added to the project.

The flags mirror the stored parameters (see 'densitree help param-files'):
--layout and --order take the same values as the drawing command; --aligntips,
--ramp and --labels take a boolean value ("true" or "false"); --jitter, --step
and --open take a number.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var layoutFlag string
var orderFlag string
var alignFlag string
var rampFlag string
var labelsFlag string
var jitterFlag float64
var stepFlag float64
var openFlag float64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&layoutFlag, "layout", "", "")
	c.Flags().StringVar(&orderFlag, "order", "", "")
	c.Flags().StringVar(&alignFlag, "aligntips", "", "")
	c.Flags().StringVar(&rampFlag, "ramp", "", "")
	c.Flags().StringVar(&labelsFlag, "labels", "", "")
	c.Flags().Float64Var(&jitterFlag, "jitter", -1, "")
	c.Flags().Float64Var(&stepFlag, "step", 0, "")
	c.Flags().Float64Var(&openFlag, "open", -1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	dp, err := openParams(p)
	if err != nil {
		return err
	}

	edited, err := setParams(dp)
	if err != nil {
		return err
	}
	if edited {
		if err := dp.Write(); err != nil {
			return err
		}
		p.Add(project.Params, dp.Name())
		if err := p.Write(); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.Stdout(), "%s\t%s\n", drawparam.Layout, dp.Layout())
	fmt.Fprintf(c.Stdout(), "%s\t%s\n", drawparam.Order, dp.Order())
	fmt.Fprintf(c.Stdout(), "%s\t%t\n", drawparam.AlignTips, dp.AlignTips())
	fmt.Fprintf(c.Stdout(), "%s\t%g\n", drawparam.Jitter, dp.Jitter())
	fmt.Fprintf(c.Stdout(), "%s\t%g\n", drawparam.Step, dp.Step())
	fmt.Fprintf(c.Stdout(), "%s\t%g\n", drawparam.Open, dp.Open())
	fmt.Fprintf(c.Stdout(), "%s\t%t\n", drawparam.Ramp, dp.Ramp())
	fmt.Fprintf(c.Stdout(), "%s\t%t\n", drawparam.Labels, dp.Labels())
	return nil
}

func openParams(p *project.Project) (*drawparam.DP, error) {
	name := p.Path(project.Params)
	if name == "" {
		return drawparam.New("draw-params.tab"), nil
	}

	dp, err := drawparam.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		return drawparam.New(name), nil
	}
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return dp, nil
}

func setParams(dp *drawparam.DP) (bool, error) {
	edited := false
	if layoutFlag != "" {
		if err := dp.SetLayout(layoutFlag); err != nil {
			return false, err
		}
		edited = true
	}
	if orderFlag != "" {
		if err := dp.SetOrder(orderFlag); err != nil {
			return false, err
		}
		edited = true
	}
	if alignFlag != "" {
		b, err := strconv.ParseBool(alignFlag)
		if err != nil {
			return false, fmt.Errorf("--aligntips: %v", err)
		}
		dp.SetAlignTips(b)
		edited = true
	}
	if rampFlag != "" {
		b, err := strconv.ParseBool(rampFlag)
		if err != nil {
			return false, fmt.Errorf("--ramp: %v", err)
		}
		dp.SetRamp(b)
		edited = true
	}
	if labelsFlag != "" {
		b, err := strconv.ParseBool(labelsFlag)
		if err != nil {
			return false, fmt.Errorf("--labels: %v", err)
		}
		dp.SetLabels(b)
		edited = true
	}
	if jitterFlag >= 0 {
		if err := dp.SetJitter(jitterFlag); err != nil {
			return false, err
		}
		edited = true
	}
	if stepFlag > 0 {
		if err := dp.SetStep(stepFlag); err != nil {
			return false, err
		}
		edited = true
	}
	if openFlag >= 0 {
		if err := dp.SetOpen(openFlag); err != nil {
			return false, err
		}
		edited = true
	}
	return edited, nil
}
