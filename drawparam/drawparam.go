// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package drawparam implements reading and writing
// of the parameters of a densitree drawing.
package drawparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/densitree/overlay"
	"github.com/js-arias/densitree/tiporder"
)

// Param is a keyword to identify
// the type of parameter in a drawParam file.
type Param string

// Valid parameters.
const (
	// AlignTips indicates that all trees
	// are shifted horizontally,
	// so their most distant tips
	// end at the same position.
	AlignTips Param = "aligntips"

	// Jitter is the standard deviation
	// of the noise added
	// to the vertical position of the tips.
	Jitter Param = "jitter"

	// Labels indicates that taxon names
	// are added to the drawing.
	Labels Param = "labels"

	// Layout is the geometry of the drawing.
	Layout Param = "layout"

	// Open is the angle,
	// in degrees,
	// left without tips
	// in a polar drawing.
	Open Param = "open"

	// Order is the selection of the tip ordering.
	Order Param = "order"

	// Ramp indicates that each tree
	// is drawn with its own color,
	// taken from a color blind friendly ramp.
	Ramp Param = "ramp"

	// Step is the number of pixels
	// per branch length unit.
	Step Param = "step"
)

// DP represents a collection of parameters
// for a densitree drawing.
type DP struct {
	name string // file name

	layout overlay.Geometry
	order  tiporder.Selection
	align  bool
	jitter float64
	step   float64
	open   float64
	ramp   bool
	labels bool
}

// New creates a new parameter collection
// with the default values:
// a slanted drawing,
// a tip ordering build by multidimensional scaling,
// aligned tips,
// no jitter,
// and 10 pixels per branch length unit.
func New(name string) *DP {
	return &DP{
		name:   name,
		layout: overlay.Slanted,
		order:  tiporder.MDS(),
		align:  true,
		step:   10,
		labels: true,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a drawParam file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# densitree drawing parameters
//	parameter	value
//	layout	slanted
//	order	mds
//	aligntips	true
//	jitter	0.1
//	step	10
func Read(name string) (*DP, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	dp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "parameter"
		p := Param(strings.ToLower(row[fields[f]]))

		f = "value"
		v := row[fields[f]]
		switch p {
		case AlignTips:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			dp.align = b
		case Jitter:
			j, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := dp.SetJitter(j); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Labels:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			dp.labels = b
		case Layout:
			if err := dp.SetLayout(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Open:
			o, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := dp.SetOpen(o); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Order:
			if err := dp.SetOrder(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Ramp:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			dp.ramp = b
		case Step:
			s, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := dp.SetStep(s); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		}
	}
	return dp, nil
}

// AlignTips reports whether the tips of all trees
// end at the same horizontal position.
func (dp *DP) AlignTips() bool {
	return dp.align
}

// Jitter returns the standard deviation
// of the noise added
// to the vertical position of the tips.
func (dp *DP) Jitter() float64 {
	return dp.jitter
}

// Labels reports whether taxon names
// are added to the drawing.
func (dp *DP) Labels() bool {
	return dp.labels
}

// Layout returns the geometry of the drawing.
func (dp *DP) Layout() overlay.Geometry {
	return dp.layout
}

// Name returns the file name
// of the parameter collection.
func (dp *DP) Name() string {
	return dp.name
}

// Open returns the angle,
// in degrees,
// left without tips
// in a polar drawing.
func (dp *DP) Open() float64 {
	return dp.open
}

// Order returns the selection of the tip ordering.
func (dp *DP) Order() tiporder.Selection {
	return dp.order
}

// Ramp reports whether each tree
// is drawn with its own color.
func (dp *DP) Ramp() bool {
	return dp.ramp
}

// Step returns the number of pixels
// per branch length unit.
func (dp *DP) Step() float64 {
	return dp.step
}

// Options returns the drawing options
// defined by the parameter collection.
func (dp *DP) Options() overlay.Options {
	return overlay.Options{
		Geometry:  dp.layout,
		Order:     dp.order,
		NoAlign:   !dp.align,
		Jitter:    dp.jitter,
		OpenAngle: dp.open,
		StepX:     dp.step,
		Ramp:      dp.ramp,
		NoLabels:  !dp.labels,
	}
}

// SetAlignTips sets the tip alignment of the drawing.
func (dp *DP) SetAlignTips(b bool) {
	dp.align = b
}

// SetJitter sets the standard deviation
// of the noise added
// to the vertical position of the tips.
func (dp *DP) SetJitter(j float64) error {
	if j < 0 {
		return fmt.Errorf("invalid jitter value: %.6f", j)
	}
	dp.jitter = j
	return nil
}

// SetLabels sets the drawing of taxon names.
func (dp *DP) SetLabels(b bool) {
	dp.labels = b
}

// SetLayout sets the geometry of the drawing.
func (dp *DP) SetLayout(s string) error {
	g, err := overlay.ParseGeometry(s)
	if err != nil {
		return err
	}
	dp.layout = g
	return nil
}

// SetName sets the file name
// of a parameter collection.
func (dp *DP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	dp.name = name
}

// SetOpen sets the angle,
// in degrees,
// left without tips
// in a polar drawing.
func (dp *DP) SetOpen(o float64) error {
	if o < 0 || o >= 360 {
		return fmt.Errorf("invalid open angle: %.6f", o)
	}
	dp.open = o
	return nil
}

// SetOrder sets the selection of the tip ordering,
// using the string form of the selection:
// "mds",
// a 1-based tree number,
// or a comma separated list of taxon names.
func (dp *DP) SetOrder(s string) error {
	o, err := tiporder.Parse(s)
	if err != nil {
		return err
	}
	dp.order = o
	return nil
}

// SetRamp sets the use of a color ramp,
// with a different color per tree.
func (dp *DP) SetRamp(b bool) {
	dp.ramp = b
}

// SetStep sets the number of pixels
// per branch length unit.
func (dp *DP) SetStep(s float64) error {
	if s <= 0 {
		return fmt.Errorf("invalid step value: %.6f", s)
	}
	dp.step = s
	return nil
}

// Write writes the parameters into a file.
func (dp *DP) Write() (err error) {
	f, err := os.Create(dp.name)
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
	fmt.Fprintf(bw, "# densitree drawing parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", dp.name, err)
	}

	rows := [][]string{
		{string(AlignTips), strconv.FormatBool(dp.align)},
		{string(Jitter), strconv.FormatFloat(dp.jitter, 'g', -1, 64)},
		{string(Labels), strconv.FormatBool(dp.labels)},
		{string(Layout), dp.layout.String()},
		{string(Open), strconv.FormatFloat(dp.open, 'g', -1, 64)},
		{string(Order), dp.order.String()},
		{string(Ramp), strconv.FormatBool(dp.ramp)},
		{string(Step), strconv.FormatFloat(dp.step, 'g', -1, 64)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", dp.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", dp.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", dp.name, err)
	}
	return nil
}
