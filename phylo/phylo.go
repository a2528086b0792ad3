// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package phylo provides rooted phylogenetic trees
// with optional branch lengths.
//
// Trees are the input of a densitree drawing,
// in which several trees that share their terminals
// are drawn one on top of another.
package phylo

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// A Tree is a rooted phylogenetic tree
// with named terminals
// and optional branch lengths.
//
// Nodes are identified by sequential IDs,
// the root is always node 0.
// Terminal names are unique inside a tree.
// A branch length is the length of the branch
// that connects a node with its parent;
// an undefined length is stored as NaN.
type Tree struct {
	name  string
	nodes []*node
	taxa  map[string]int
}

type node struct {
	id       int
	parent   int
	children []int
	taxon    string
	brLen    float64 // NaN if undefined
}

// New creates a new tree with the indicated name
// and a root node (node 0).
func New(name string) *Tree {
	name = canon(name)
	t := &Tree{
		name: name,
		taxa: make(map[string]int),
	}
	t.nodes = append(t.nodes, &node{
		id:     0,
		parent: -1,
		brLen:  math.NaN(),
	})
	return t
}

// Add adds a new node as a child of the indicated node,
// and returns the ID of the added node.
// The taxon name should be empty,
// unless the node will be a terminal.
// Use NaN to indicate an undefined branch length.
func (t *Tree) Add(parent int, taxon string, brLen float64) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return -1, fmt.Errorf("tree %q: parent node %d not in tree", t.name, parent)
	}
	taxon = canon(taxon)
	if taxon != "" {
		if _, dup := t.taxa[taxon]; dup {
			return -1, fmt.Errorf("tree %q: taxon %q already in tree", t.name, taxon)
		}
	}
	if math.IsInf(brLen, 0) {
		return -1, fmt.Errorf("tree %q: taxon %q: invalid branch length", t.name, taxon)
	}

	n := &node{
		id:     len(t.nodes),
		parent: parent,
		taxon:  taxon,
		brLen:  brLen,
	}
	t.nodes = append(t.nodes, n)
	p := t.nodes[parent]
	p.children = append(p.children, n.id)
	if taxon != "" {
		t.taxa[taxon] = n.id
	}
	return n.id, nil
}

// BrLen returns the length of the branch
// that connects a node with its parent.
// The root,
// as well as any node with an undefined length,
// returns NaN.
func (t *Tree) BrLen(id int) float64 {
	if id < 0 || id >= len(t.nodes) {
		return math.NaN()
	}
	return t.nodes[id].brLen
}

// Children returns the IDs of the children of a node,
// in their addition order.
func (t *Tree) Children(id int) []int {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// Depths returns the depth
// (i.e. the path length from the root)
// of every node,
// indexed by node ID.
// If any branch length of the tree is undefined,
// all branches are assumed to be of length one.
func (t *Tree) Depths() []float64 {
	unit := !t.HasLengths()
	d := make([]float64, len(t.nodes))
	// parents always have smaller IDs than their children
	for _, n := range t.nodes[1:] {
		ln := n.brLen
		if unit {
			ln = 1
		}
		d[n.id] = d[n.parent] + ln
	}
	return d
}

// HasLengths reports whether every branch of the tree
// has a defined length.
func (t *Tree) HasLengths() bool {
	for _, n := range t.nodes[1:] {
		if math.IsNaN(n.brLen) {
			return false
		}
	}
	return true
}

// IsRoot reports whether a node is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	return id == 0
}

// IsTerm reports whether a node is a terminal
// (i.e. it has no children).
func (t *Tree) IsTerm(id int) bool {
	if id < 0 || id >= len(t.nodes) {
		return false
	}
	return len(t.nodes[id].children) == 0
}

// Len returns the number of nodes of the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Nodes returns the IDs of all nodes of the tree.
// Parents are always before their children.
func (t *Tree) Nodes() []int {
	ids := make([]int, 0, len(t.nodes))
	for _, n := range t.nodes {
		ids = append(ids, n.id)
	}
	return ids
}

// NumTerms returns the number of terminals of the tree.
func (t *Tree) NumTerms() int {
	num := 0
	for _, n := range t.nodes {
		if len(n.children) == 0 {
			num++
		}
	}
	return num
}

// Parent returns the ID of the parent of a node.
// The root returns -1.
func (t *Tree) Parent(id int) int {
	if id < 0 || id >= len(t.nodes) {
		return -1
	}
	return t.nodes[id].parent
}

// Root returns the ID of the root node,
// which is always 0.
func (t *Tree) Root() int {
	return 0
}

// TaxNode returns the ID of the node
// of the indicated taxon,
// or -1 if the taxon is not in the tree.
func (t *Tree) TaxNode(taxon string) int {
	taxon = canon(taxon)
	id, ok := t.taxa[taxon]
	if !ok {
		return -1
	}
	return id
}

// Taxon returns the taxon name of a node.
// Nodes without a name return an empty string.
func (t *Tree) Taxon(id int) string {
	if id < 0 || id >= len(t.nodes) {
		return ""
	}
	return t.nodes[id].taxon
}

// Terms returns the taxon names of the terminals of the tree,
// in preorder
// (i.e. the order in which terminals are drawn).
func (t *Tree) Terms() []string {
	var terms []string
	var walk func(id int)
	walk = func(id int) {
		n := t.nodes[id]
		if len(n.children) == 0 {
			terms = append(terms, n.taxon)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(0)
	return terms
}

// A Collection is a set of trees with unique names.
// Trees are stored in their addition order,
// as in a densitree the first tree of the set
// is used as the reference tree.
type Collection struct {
	names []string
	trees map[string]*Tree
}

// NewCollection creates a new empty collection.
func NewCollection() *Collection {
	return &Collection{
		trees: make(map[string]*Tree),
	}
}

// Add adds a tree to the collection.
// It returns an error if the tree has no name,
// or if there is a tree with the same name
// already in the collection.
func (c *Collection) Add(t *Tree) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tree without name")
	}
	if _, dup := c.trees[name]; dup {
		return fmt.Errorf("tree %q already in collection", name)
	}
	c.names = append(c.names, name)
	c.trees[name] = t
	return nil
}

// Len returns the number of trees in the collection.
func (c *Collection) Len() int {
	return len(c.names)
}

// Names returns the names of the trees of the collection,
// in their addition order.
func (c *Collection) Names() []string {
	return slices.Clone(c.names)
}

// Tree returns the tree with the indicated name,
// or nil if the tree is not in the collection.
func (c *Collection) Tree(name string) *Tree {
	name = canon(name)
	return c.trees[name]
}

// Trees returns the trees of the collection,
// in their addition order.
func (c *Collection) Trees() []*Tree {
	ts := make([]*Tree, 0, len(c.names))
	for _, nm := range c.names {
		ts = append(ts, c.trees[nm])
	}
	return ts
}

// Canon returns a canonical version of a name:
// without external spaces,
// and any internal space sequence
// replaced by a single space character.
func canon(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
