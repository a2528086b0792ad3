// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package layout implements the tabular coordinate view
// of a phylogenetic tree,
// and the reconciliation of the coordinates
// of a set of trees
// to a shared tip ordering,
// so the trees can be drawn
// one on top of another.
package layout

import (
	"errors"
	"fmt"

	"github.com/js-arias/densitree/phylo"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// A Node is a row of the coordinate table of a tree.
// X is the horizontal position of the node,
// in branch length units,
// with the root at zero;
// Y is the vertical slot of the node,
// in tip slot units
// (the first tip is at slot one).
type Node struct {
	ID     int
	Parent int // -1 for the root
	X      float64
	Y      float64
	IsTip  bool
	Label  string // taxon name, tips only
}

// A Tree is the coordinate table of a phylogenetic tree,
// one row per node.
// Tip rows are always at the leading positions
// of the table,
// in the preorder of the tree.
type Tree struct {
	Name  string
	Nodes []Node
}

// Fortify creates the coordinate table of a tree.
// The horizontal position of a node is its depth,
// using branch lengths if every branch has one,
// or a unit length per branch otherwise.
// The vertical slots of the tips
// follow the preorder of the tree,
// and each internal node is placed at the mean
// of the slots of its children.
func Fortify(t *phylo.Tree) *Tree {
	depth := t.Depths()

	y := make(map[int]float64, t.Len())
	slot := 0.0
	var setY func(id int) float64
	setY = func(id int) float64 {
		if t.IsTerm(id) {
			slot++
			y[id] = slot
			return slot
		}
		sum := 0.0
		children := t.Children(id)
		for _, c := range children {
			sum += setY(c)
		}
		v := sum / float64(len(children))
		y[id] = v
		return v
	}
	setY(t.Root())

	tab := &Tree{
		Name:  t.Name(),
		Nodes: make([]Node, 0, t.Len()),
	}
	var addTips func(id int)
	addTips = func(id int) {
		if t.IsTerm(id) {
			tab.Nodes = append(tab.Nodes, Node{
				ID:     id,
				Parent: t.Parent(id),
				X:      depth[id],
				Y:      y[id],
				IsTip:  true,
				Label:  t.Taxon(id),
			})
			return
		}
		for _, c := range t.Children(id) {
			addTips(c)
		}
	}
	addTips(t.Root())

	var addInner func(id int)
	addInner = func(id int) {
		if t.IsTerm(id) {
			return
		}
		tab.Nodes = append(tab.Nodes, Node{
			ID:     id,
			Parent: t.Parent(id),
			X:      depth[id],
			Y:      y[id],
		})
		for _, c := range t.Children(id) {
			addInner(c)
		}
	}
	addInner(t.Root())

	return tab
}

// Validate checks that a coordinate table
// is well formed:
// all tip rows are at the leading positions
// of the table,
// every tip has a unique label,
// there is a single root,
// and every parent reference
// points to a node of the table.
func (t *Tree) Validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree %q: empty coordinate table", t.Name)
	}

	ids := make(map[int]bool, len(t.Nodes))
	labels := make(map[string]bool)
	inner := false
	root := -1
	for _, n := range t.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("tree %q: node %d: repeated node", t.Name, n.ID)
		}
		ids[n.ID] = true
		if n.IsTip {
			if inner {
				return fmt.Errorf("tree %q: node %d: tip row after an internal node row", t.Name, n.ID)
			}
			if n.Label == "" {
				return fmt.Errorf("tree %q: node %d: tip without label", t.Name, n.ID)
			}
			if labels[n.Label] {
				return fmt.Errorf("tree %q: taxon %q: repeated taxon", t.Name, n.Label)
			}
			labels[n.Label] = true
		} else {
			inner = true
		}
		if n.Parent < 0 {
			if root >= 0 {
				return fmt.Errorf("tree %q: node %d: multiple root nodes", t.Name, n.ID)
			}
			root = n.ID
		}
	}
	if root < 0 {
		return fmt.Errorf("tree %q: tree without root", t.Name)
	}
	for _, n := range t.Nodes {
		if n.Parent < 0 {
			continue
		}
		if !ids[n.Parent] {
			return fmt.Errorf("tree %q: node %d: parent %d not in table", t.Name, n.ID, n.Parent)
		}
	}
	return nil
}

// MaxX returns the largest horizontal position
// of the table
// (i.e. the position of the most distant tip).
func (t *Tree) MaxX() float64 {
	max := 0.0
	for _, n := range t.Nodes {
		if n.X > max {
			max = n.X
		}
	}
	return max
}

// YCoords returns the vertical position of every node
// of a tree,
// indexed by node ID,
// given an explicit ordering of the tips.
// The slot of a tip is its 1-based position
// in the given order,
// and each internal node is placed at the mean
// of the positions of its children.
// It is an error if a terminal of the tree
// is not in the given order.
func YCoords(t *phylo.Tree, order []string) (map[int]float64, error) {
	pos := make(map[string]float64, len(order))
	for i, tax := range order {
		pos[tax] = float64(i + 1)
	}

	y := make(map[int]float64, t.Len())
	var walk func(id int) error
	walk = func(id int) error {
		if t.IsTerm(id) {
			p, ok := pos[t.Taxon(id)]
			if !ok {
				return fmt.Errorf("tree %q: taxon %q: not in tip order", t.Name(), t.Taxon(id))
			}
			y[id] = p
			return nil
		}
		sum := 0.0
		children := t.Children(id)
		for _, c := range children {
			if err := walk(c); err != nil {
				return err
			}
			sum += y[c]
		}
		y[id] = sum / float64(len(children))
		return nil
	}
	if err := walk(t.Root()); err != nil {
		return nil, err
	}
	return y, nil
}

// SetYOrder updates the vertical positions
// of a coordinate table
// to follow an explicit ordering of the tips.
func SetYOrder(t *phylo.Tree, tab *Tree, order []string) error {
	y, err := YCoords(t, order)
	if err != nil {
		return err
	}
	for i, n := range tab.Nodes {
		v, ok := y[n.ID]
		if !ok {
			return fmt.Errorf("tree %q: node %d: not in tree", tab.Name, n.ID)
		}
		tab.Nodes[i].Y = v
	}
	return nil
}

// AlignTips shifts the horizontal positions
// of a set of coordinate tables,
// so the most distant tip of every tree
// is at the same horizontal position.
func AlignTips(tabs []*Tree) {
	max := 0.0
	for _, tab := range tabs {
		if m := tab.MaxX(); m > max {
			max = m
		}
	}
	for _, tab := range tabs {
		d := max - tab.MaxX()
		if d == 0 {
			continue
		}
		for i := range tab.Nodes {
			tab.Nodes[i].X += d
		}
	}
}

// AddJitter adds a gaussian noise
// with a zero mean
// and the indicated standard deviation
// to the vertical position of the tips of a table.
// Internal node rows are never modified.
// If src is nil,
// the global random source will be used.
func AddJitter(tab *Tree, sd float64, src rand.Source) error {
	if sd < 0 {
		return fmt.Errorf("tree %q: invalid jitter value: %.6f", tab.Name, sd)
	}
	if sd == 0 {
		return nil
	}

	n := distuv.Normal{
		Mu:    0,
		Sigma: sd,
		Src:   src,
	}
	for i := range tab.Nodes {
		if !tab.Nodes[i].IsTip {
			continue
		}
		tab.Nodes[i].Y += n.Rand()
	}
	return nil
}

// Reconcile updates the coordinates
// of a set of trees,
// so all of them can be drawn
// over the same tip ordering.
// Every table gets the vertical positions
// defined by the given order;
// if alignTips is true,
// the tables are shifted horizontally
// so all tips end at the same position;
// if jitter is greater than zero,
// a gaussian noise is added
// to the tip positions of every tree,
// except the first one.
// If src is nil,
// the global random source will be used.
func Reconcile(ts []*phylo.Tree, tabs []*Tree, order []string, alignTips bool, jitter float64, src rand.Source) error {
	if len(ts) == 0 {
		return errors.New("empty tree collection")
	}
	if len(ts) != len(tabs) {
		return fmt.Errorf("got %d coordinate tables, want %d", len(tabs), len(ts))
	}
	if jitter < 0 {
		return fmt.Errorf("invalid jitter value: %.6f", jitter)
	}

	for i, tab := range tabs {
		if err := tab.Validate(); err != nil {
			return fmt.Errorf("tree %d: %v", i+1, err)
		}
		if err := SetYOrder(ts[i], tab, order); err != nil {
			return fmt.Errorf("tree %d: %v", i+1, err)
		}
	}
	if alignTips {
		AlignTips(tabs)
	}
	for _, tab := range tabs[1:] {
		if err := AddJitter(tab, jitter, src); err != nil {
			return err
		}
	}
	return nil
}
