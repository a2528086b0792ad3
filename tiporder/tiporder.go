// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tiporder implements the selection
// of a shared vertical ordering of the tips
// for a set of overlaid trees.
//
// The default ordering is build
// by a principal coordinate analysis:
// the cophenetic matrices of all trees
// are aligned to the taxon order of the first tree
// and stacked,
// so each taxon gets a distance profile
// across the whole tree set;
// then the taxa are embedded
// into a single dimension
// with a classical multidimensional scaling
// of the distances between the profiles,
// and sorted by the resulting coordinate.
// Taxa with a stable distance
// across all sampled trees
// end up close in the embedding,
// which reduces the line crossings
// of the overlaid drawing.
package tiporder

import (
	"bufio"
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/densitree/cophenetic"
	"github.com/js-arias/densitree/layout"
	"github.com/js-arias/densitree/phylo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/mds"
)

type kind int

const (
	byMDS kind = iota
	byTree
	byList
)

// A Selection indicates how the tip ordering
// of a tree set is defined.
// There are three alternatives:
// an ordering build by multidimensional scaling
// (the default,
// and the zero value of the type),
// the ordering of one of the trees of the set,
// or an explicit list of taxon names.
type Selection struct {
	k      kind
	index  int
	labels []string
}

// MDS returns a selection
// in which the tip ordering will be build
// by a classical multidimensional scaling
// over all the trees of the set.
func MDS() Selection {
	return Selection{}
}

// FromTree returns a selection
// in which the tip ordering will be borrowed
// from the current vertical ordering
// of the tree at the indicated position
// (0-based)
// of the tree set.
func FromTree(i int) Selection {
	return Selection{
		k:     byTree,
		index: i,
	}
}

// Explicit returns a selection
// in which the given taxon list
// will be used,
// verbatim,
// as the tip ordering.
func Explicit(labels ...string) Selection {
	return Selection{
		k:      byList,
		labels: slices.Clone(labels),
	}
}

// Parse reads the string form of a selection:
// the string "mds"
// (or an empty string)
// for a multidimensional scaling ordering,
// a 1-based tree number
// to borrow the ordering of a tree,
// or a comma separated list of taxon names.
func Parse(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ToLower(s) == "mds" {
		return MDS(), nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		if i < 1 {
			return Selection{}, fmt.Errorf("invalid tree number: %d", i)
		}
		return FromTree(i - 1), nil
	}

	var labels []string
	for _, tax := range strings.Split(s, ",") {
		tax = strings.Join(strings.Fields(tax), " ")
		if tax == "" {
			continue
		}
		labels = append(labels, tax)
	}
	if len(labels) == 0 {
		return Selection{}, fmt.Errorf("invalid tip order: %q", s)
	}
	return Explicit(labels...), nil
}

// String returns the string form of a selection,
// readable by Parse.
func (s Selection) String() string {
	switch s.k {
	case byTree:
		return strconv.Itoa(s.index + 1)
	case byList:
		return strings.Join(s.labels, ",")
	}
	return "mds"
}

// Order returns the tip ordering of a tree set,
// as defined by the selection.
// The coordinate tables must match
// the trees of the set,
// one per tree;
// they are only used when the ordering
// is borrowed from a tree of the set.
func (s Selection) Order(ts []*phylo.Tree, tabs []*layout.Tree) ([]string, error) {
	if len(ts) == 0 {
		return nil, errors.New("empty tree collection")
	}

	switch s.k {
	case byList:
		seen := make(map[string]bool, len(s.labels))
		for _, tax := range s.labels {
			if seen[tax] {
				return nil, fmt.Errorf("tip order: taxon %q: repeated taxon", tax)
			}
			seen[tax] = true
		}
		return slices.Clone(s.labels), nil
	case byTree:
		if s.index < 0 || s.index >= len(tabs) {
			return nil, fmt.Errorf("tip order: tree %d out of range [1-%d]", s.index+1, len(tabs))
		}
		return treeOrder(tabs[s.index]), nil
	}
	return mdsOrder(ts)
}

// TreeOrder returns the tip labels of a coordinate table
// sorted by their current vertical position.
func treeOrder(tab *layout.Tree) []string {
	type tipY struct {
		label string
		y     float64
	}
	var tips []tipY
	for _, n := range tab.Nodes {
		if !n.IsTip {
			continue
		}
		tips = append(tips, tipY{label: n.Label, y: n.Y})
	}
	slices.SortStableFunc(tips, func(a, b tipY) int {
		return cmp.Compare(a.y, b.y)
	})

	order := make([]string, 0, len(tips))
	for _, tp := range tips {
		order = append(order, tp.label)
	}
	return order
}

// MdsOrder returns the taxa of the first tree
// sorted by the first principal coordinate
// of the distances between the taxon profiles
// of the whole tree set.
// On a degenerate embedding
// (for example,
// if all distances are identical)
// it falls back to the taxon order
// of the first tree.
func mdsOrder(ts []*phylo.Tree) ([]string, error) {
	ref := ts[0].Terms()
	n := len(ref)

	dis, err := profileDistances(ts, ref)
	if err != nil {
		return nil, err
	}

	var coords mat.Dense
	eig := make([]float64, n)
	k, _ := mds.TorgersonScaling(&coords, eig, dis)
	if k < 1 {
		// degenerate embedding
		return slices.Clone(ref), nil
	}
	pc := mat.Col(nil, 0, &coords)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(pc[a], pc[b])
	})

	order := make([]string, 0, n)
	for _, i := range idx {
		order = append(order, ref[i])
	}
	return order, nil
}

// ProfileDistances returns the matrix
// of the euclidean distances
// between the distance profiles of every pair of taxa,
// that is,
// the distances of each taxon to every other taxon,
// on every tree of the set.
// The taxa follow the taxon order of the first tree.
func ProfileDistances(ts []*phylo.Tree) (*cophenetic.Matrix, error) {
	if len(ts) == 0 {
		return nil, errors.New("empty tree collection")
	}
	ref := ts[0].Terms()
	dis, err := profileDistances(ts, ref)
	if err != nil {
		return nil, err
	}

	n := len(ref)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			d[i][j] = dis.At(i, j)
		}
	}
	return cophenetic.NewMatrix(ref, d)
}

func profileDistances(ts []*phylo.Tree, ref []string) (*mat.SymDense, error) {
	stacked, err := stackMatrices(ts, ref)
	if err != nil {
		return nil, err
	}

	n := len(ref)
	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = mat.Col(nil, j, stacked)
	}

	dis := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dis.SetSym(i, j, floats.Distance(cols[i], cols[j], 2))
		}
	}
	return dis, nil
}

// StackMatrices builds the aligned cophenetic matrices
// of all the trees of the set,
// stacked vertically,
// so column k holds the distance profile
// of the reference taxon k
// across the whole set.
// Matrices are computed concurrently,
// one goroutine per tree.
func stackMatrices(ts []*phylo.Tree, ref []string) (*mat.Dense, error) {
	n := len(ref)
	stacked := mat.NewDense(len(ts)*n, n, nil)

	type answer struct {
		i   int
		m   *cophenetic.Matrix
		err error
	}
	ac := make(chan answer, len(ts))
	for i, t := range ts {
		go func(i int, t *phylo.Tree) {
			m, err := cophenetic.New(t)
			if err == nil {
				m, err = m.Align(ref)
			}
			if err != nil {
				err = fmt.Errorf("tree %d %q: %v", i+1, t.Name(), err)
			}
			ac <- answer{i: i, m: m, err: err}
		}(i, t)
	}

	var failed error
	for range ts {
		a := <-ac
		if a.err != nil {
			if failed == nil {
				failed = a.err
			}
			continue
		}
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				stacked.Set(a.i*n+r, c, a.m.At(r, c))
			}
		}
	}
	if failed != nil {
		return nil, failed
	}
	return stacked, nil
}

// ReadTSV reads an explicit tip ordering
// from a tab-delimited file
// with a field called "taxon",
// one taxon per row,
// in the desired order.
func ReadTSV(r io.Reader) ([]string, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	col := -1
	for i, h := range head {
		if strings.ToLower(h) == "taxon" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("expecting field %q", "taxon")
	}

	var order []string
	seen := make(map[string]bool)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		tax := strings.Join(strings.Fields(row[col]), " ")
		if tax == "" {
			continue
		}
		if seen[tax] {
			return nil, fmt.Errorf("on row %d: taxon %q: repeated taxon", ln, tax)
		}
		seen[tax] = true
		order = append(order, tax)
	}
	if len(order) == 0 {
		return nil, errors.New("no taxa in input")
	}
	return order, nil
}

// TSV writes a tip ordering
// as a tab-delimited file
// with the fields "position" and "taxon".
func TSV(w io.Writer, order []string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# densitree tip ordering\n")
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write([]string{"position", "taxon"}); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for i, tax := range order {
		if err := tsv.Write([]string{strconv.Itoa(i + 1), tax}); err != nil {
			return fmt.Errorf("taxon %q: %v", tax, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
