// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package overlay implements a densitree,
// a drawing of a set of phylogenetic trees,
// one on top of another,
// over a shared ordering of their tips,
// so the disagreement between the trees
// is visible as the divergence
// between the overlaid drawings.
package overlay

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/js-arias/blind"
	"github.com/js-arias/densitree/layout"
	"github.com/js-arias/densitree/phylo"
	"github.com/js-arias/densitree/tiporder"
	"golang.org/x/exp/rand"
)

// Geometry is the geometric interpretation
// of the tree coordinates in a drawing.
type Geometry int

// Valid geometries.
const (
	// The branches are drawn as direct lines
	// between the nodes.
	Slanted Geometry = iota

	// The branches are drawn as square elbows.
	Rectangular

	// As circular,
	// but leaving an open slice of the circle
	// without tips.
	Fan

	// A rectangular drawing in polar coordinates:
	// the horizontal positions become the radius,
	// and the vertical slots the angle.
	Circular

	// A slanted drawing in polar coordinates.
	Radial
)

// ParseGeometry returns the geometry
// of the indicated layout name.
func ParseGeometry(s string) (Geometry, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slanted", "":
		return Slanted, nil
	case "rectangular":
		return Rectangular, nil
	case "fan":
		return Fan, nil
	case "circular":
		return Circular, nil
	case "radial":
		return Radial, nil
	}
	return Slanted, fmt.Errorf("unknown layout %q", s)
}

// String returns the layout name of a geometry.
func (g Geometry) String() string {
	switch g {
	case Slanted:
		return "slanted"
	case Rectangular:
		return "rectangular"
	case Fan:
		return "fan"
	case Circular:
		return "circular"
	case Radial:
		return "radial"
	}
	return "unknown"
}

func (g Geometry) isPolar() bool {
	return g == Fan || g == Circular || g == Radial
}

// Options are the parameters of a densitree drawing.
// The zero value is a valid set of parameters:
// a slanted drawing,
// with a tip ordering build by multidimensional scaling,
// tips aligned,
// and no jitter.
type Options struct {
	// Geometry of the drawing.
	Geometry Geometry

	// Order is the selection of the tip ordering.
	Order tiporder.Selection

	// NoAlign disables the horizontal shift
	// that puts the most distant tip of every tree
	// at the same position.
	NoAlign bool

	// Jitter is the standard deviation
	// of the gaussian noise
	// added to the vertical position of the tips
	// of every tree,
	// except the first one.
	Jitter float64

	// Src is the source of random numbers
	// used for the jitter.
	// If nil,
	// the global random source will be used.
	Src rand.Source

	// OpenAngle is the angle,
	// in degrees,
	// of the circle slice
	// left without tips
	// in a polar drawing.
	OpenAngle float64

	// StepX is the number of pixels
	// per branch length unit.
	// If zero,
	// 10 pixels will be used.
	StepX float64

	// Ramp uses a different color per tree,
	// taken from a color blind friendly ramp,
	// instead of the same translucent blue
	// for every tree.
	Ramp bool

	// NoLabels omits the taxon names.
	NoLabels bool
}

// A Plot is a reconciled densitree:
// the shared tip ordering,
// and one coordinate table per tree,
// ready to be rendered.
type Plot struct {
	geom     Geometry
	open     float64
	stepX    float64
	ramp     bool
	noLabels bool

	order  []string
	layers []*layout.Tree
	maxX   float64
}

// New creates a densitree
// from a set of phylogenetic trees.
// The first tree of the set is the reference tree:
// its taxa define the expected taxa
// of all the other trees.
// Any error invalidates the whole drawing,
// no partial densitree is ever returned.
func New(ts []*phylo.Tree, o Options) (*Plot, error) {
	if len(ts) == 0 {
		return nil, errors.New("empty tree collection")
	}
	if o.Jitter < 0 {
		return nil, fmt.Errorf("invalid jitter value: %.6f", o.Jitter)
	}
	if o.Geometry < Slanted || o.Geometry > Radial {
		return nil, fmt.Errorf("unknown layout %d", o.Geometry)
	}
	if o.OpenAngle < 0 || o.OpenAngle >= 360 {
		return nil, fmt.Errorf("invalid open angle: %.6f", o.OpenAngle)
	}
	if o.StepX < 0 {
		return nil, fmt.Errorf("invalid step value: %.6f", o.StepX)
	}
	if o.StepX == 0 {
		o.StepX = 10
	}
	if o.Geometry == Fan && o.OpenAngle == 0 {
		o.OpenAngle = 40
	}

	tabs := make([]*layout.Tree, len(ts))
	for i, t := range ts {
		tabs[i] = layout.Fortify(t)
	}

	order, err := o.Order.Order(ts, tabs)
	if err != nil {
		return nil, err
	}
	if err := layout.Reconcile(ts, tabs, order, !o.NoAlign, o.Jitter, o.Src); err != nil {
		return nil, err
	}

	maxX := 0.0
	for _, tab := range tabs {
		if m := tab.MaxX(); m > maxX {
			maxX = m
		}
	}

	return &Plot{
		geom:     o.Geometry,
		open:     o.OpenAngle,
		stepX:    o.StepX,
		ramp:     o.Ramp,
		noLabels: o.NoLabels,
		order:    order,
		layers:   tabs,
		maxX:     maxX,
	}, nil
}

// Geometry returns the geometry of the drawing.
func (p *Plot) Geometry() Geometry {
	return p.geom
}

// Layers returns the reconciled coordinate tables
// of the drawing.
// The first table is the base layer.
func (p *Plot) Layers() []*layout.Tree {
	return slices.Clone(p.layers)
}

// Order returns the shared tip ordering of the drawing.
func (p *Plot) Order() []string {
	return slices.Clone(p.order)
}

func (p *Plot) layerColor(i int) color.RGBA {
	if !p.ramp {
		return color.RGBA{B: 255, A: 255}
	}
	pos := 0.0
	if len(p.layers) > 1 {
		pos = float64(i) / float64(len(p.layers)-1)
	}
	return blind.Sequential(blind.Iridescent, pos)
}

type point struct {
	x, y float64
}

// Polylines returns the branches of a coordinate table
// as point sequences in tree space
// (horizontal position,
// vertical slot).
func (p *Plot) polylines(tab *layout.Tree) [][]point {
	coord := make(map[int]point, len(tab.Nodes))
	for _, n := range tab.Nodes {
		coord[n.ID] = point{x: n.X, y: n.Y}
	}

	var lines [][]point
	for _, n := range tab.Nodes {
		if n.Parent < 0 {
			continue
		}
		pt := coord[n.ID]
		pa := coord[n.Parent]
		switch p.geom {
		case Rectangular, Circular, Fan:
			lines = append(lines, []point{pa, {x: pa.x, y: pt.y}, pt})
		default:
			lines = append(lines, []point{pa, pt})
		}
	}
	return lines
}

// Transform maps a tree space polyline
// into drawing coordinates.
// In a polar drawing,
// any segment that spans several slots
// is sampled,
// so arcs and chords are drawn as smooth curves.
func (p *Plot) transform(ln []point) []point {
	if !p.geom.isPolar() {
		out := make([]point, 0, len(ln))
		for _, pt := range ln {
			out = append(out, p.cartesian(pt))
		}
		return out
	}

	var out []point
	for i, pt := range ln {
		if i == 0 {
			out = append(out, p.polar(pt))
			continue
		}
		prev := ln[i-1]
		steps := int(math.Ceil(math.Abs(p.angle(pt.y)-p.angle(prev.y)) / (4 * math.Pi / 180)))
		for s := 1; s < steps; s++ {
			f := float64(s) / float64(steps)
			out = append(out, p.polar(point{
				x: prev.x + f*(pt.x-prev.x),
				y: prev.y + f*(pt.y-prev.y),
			}))
		}
		out = append(out, p.polar(pt))
	}
	return out
}

const margin = 10
const yStep = 12

func (p *Plot) cartesian(pt point) point {
	return point{
		x: margin + pt.x*p.stepX,
		y: pt.y * yStep,
	}
}

func (p *Plot) angle(y float64) float64 {
	n := float64(len(p.order))
	span := 360 - p.open
	deg := p.open/2 + (y-0.5)*span/n
	return (deg + 90) * math.Pi / 180
}

func (p *Plot) polar(pt point) point {
	r := pt.x * p.stepX
	a := p.angle(pt.y)
	c := p.center()
	return point{
		x: c.x + r*math.Sin(a),
		y: c.y + r*math.Cos(a),
	}
}

func (p *Plot) center() point {
	r := p.maxX*p.stepX + p.labelSpace() + margin
	return point{x: r, y: r}
}

// LabelSpace returns the width reserved
// for the taxon names,
// assuming that each character is 6 pixels wide.
func (p *Plot) labelSpace() float64 {
	if p.noLabels {
		return 0
	}
	max := 0
	for _, tax := range p.order {
		if len(tax) > max {
			max = len(tax)
		}
	}
	return float64(max*6 + 5)
}

// TipPoint returns the drawing coordinates
// of a tip slot
// (0-based),
// at the right margin of the tips.
func (p *Plot) tipPoint(i int) point {
	pt := point{x: p.maxX, y: float64(i + 1)}
	if p.geom.isPolar() {
		r := pt.x*p.stepX + 5
		a := p.angle(pt.y)
		c := p.center()
		return point{
			x: c.x + r*math.Sin(a),
			y: c.y + r*math.Cos(a),
		}
	}
	cp := p.cartesian(pt)
	cp.x += 5
	return cp
}

func (p *Plot) canvasSize() (width, height int) {
	if p.geom.isPolar() {
		c := p.center()
		return int(2*c.x) + margin, int(2*c.y) + margin
	}
	w := margin + p.maxX*p.stepX + p.labelSpace() + margin
	h := float64(len(p.order)+1) * yStep
	return int(w), int(h)
}
