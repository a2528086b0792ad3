// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cophenetic implements the cophenetic
// (or patristic)
// distance matrix of a phylogenetic tree,
// that is,
// the matrix of the path length
// between every pair of terminals.
package cophenetic

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/js-arias/densitree/phylo"
)

// A Matrix is a symmetric pairwise distance matrix
// over the terminals of a tree,
// stored with an explicit taxon order.
type Matrix struct {
	taxa []string
	rank map[string]int
	d    [][]float64
}

// New creates the cophenetic distance matrix of a tree.
// The distance between two terminals is the sum
// of the branch lengths
// on the path that connects them.
// If any branch length of the tree is undefined,
// all branches are assumed to be of length one.
// Terminals are stored in the preorder of the tree
// (i.e. the order given by the Terms method).
func New(t *phylo.Tree) (*Matrix, error) {
	taxa := t.Terms()
	if len(taxa) == 0 {
		return nil, fmt.Errorf("tree %q: tree without terminals", t.Name())
	}
	rank := make(map[string]int, len(taxa))
	for i, tax := range taxa {
		if tax == "" {
			return nil, fmt.Errorf("tree %q: terminal without name", t.Name())
		}
		rank[tax] = i
	}

	m := &Matrix{
		taxa: slices.Clone(taxa),
		rank: rank,
		d:    newDists(len(taxa)),
	}

	depth := t.Depths()

	// the distance between two terminals is
	// d(a) + d(b) - 2 d(m),
	// with m the closest node
	// that contains both terminals
	var walk func(id int) []int
	walk = func(id int) []int {
		if t.IsTerm(id) {
			return []int{id}
		}
		var terms []int
		for _, c := range t.Children(id) {
			ct := walk(c)
			for _, a := range terms {
				i := rank[t.Taxon(a)]
				for _, b := range ct {
					j := rank[t.Taxon(b)]
					d := depth[a] + depth[b] - 2*depth[id]
					m.d[i][j] = d
					m.d[j][i] = d
				}
			}
			terms = append(terms, ct...)
		}
		return terms
	}
	walk(t.Root())

	return m, nil
}

// NewMatrix creates a matrix
// from an explicit taxon order
// and its pairwise distances.
func NewMatrix(taxa []string, d [][]float64) (*Matrix, error) {
	if len(taxa) == 0 {
		return nil, fmt.Errorf("matrix without taxa")
	}
	if len(d) != len(taxa) {
		return nil, fmt.Errorf("got %d rows, want %d", len(d), len(taxa))
	}
	rank := make(map[string]int, len(taxa))
	for i, tax := range taxa {
		if tax == "" {
			return nil, fmt.Errorf("taxon %d: taxon without name", i)
		}
		if _, dup := rank[tax]; dup {
			return nil, fmt.Errorf("taxon %q: repeated taxon", tax)
		}
		rank[tax] = i
	}

	for i, row := range d {
		if len(row) != len(taxa) {
			return nil, fmt.Errorf("row %d: got %d columns, want %d", i, len(row), len(taxa))
		}
	}
	nd := newDists(len(taxa))
	for i, row := range d {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("taxa %q-%q: invalid distance %.6f", taxa[i], taxa[j], v)
			}
			if d[j][i] != v {
				return nil, fmt.Errorf("taxa %q-%q: non symmetric distance", taxa[i], taxa[j])
			}
			nd[i][j] = v
		}
		if nd[i][i] != 0 {
			return nil, fmt.Errorf("taxon %q: non zero diagonal", taxa[i])
		}
	}

	return &Matrix{
		taxa: slices.Clone(taxa),
		rank: rank,
		d:    nd,
	}, nil
}

// Align creates a copy of a matrix
// with its rows and columns reordered
// to follow a reference taxon order,
// so matrices from different trees
// become directly comparable.
// The reference must contain
// exactly the same taxa as the matrix.
func (m *Matrix) Align(ref []string) (*Matrix, error) {
	if len(ref) != len(m.taxa) {
		return nil, fmt.Errorf("got %d taxa, want %d", len(ref), len(m.taxa))
	}

	rank := make(map[string]int, len(ref))
	for _, tax := range ref {
		i, ok := m.rank[tax]
		if !ok {
			return nil, fmt.Errorf("taxon %q: not in matrix", tax)
		}
		if _, dup := rank[tax]; dup {
			return nil, fmt.Errorf("taxon %q: repeated taxon", tax)
		}
		rank[tax] = i
	}

	d := newDists(len(ref))
	for i, ta := range ref {
		for j, tb := range ref {
			d[i][j] = m.d[rank[ta]][rank[tb]]
		}
	}

	nr := make(map[string]int, len(ref))
	for i, tax := range ref {
		nr[tax] = i
	}
	return &Matrix{
		taxa: slices.Clone(ref),
		rank: nr,
		d:    d,
	}, nil
}

// At returns the distance between taxon i and taxon j
// of the matrix order.
func (m *Matrix) At(i, j int) float64 {
	return m.d[i][j]
}

// Distance returns the distance
// between two taxa of the matrix.
func (m *Matrix) Distance(a, b string) (float64, error) {
	i, ok := m.rank[a]
	if !ok {
		return 0, fmt.Errorf("taxon %q: not in matrix", a)
	}
	j, ok := m.rank[b]
	if !ok {
		return 0, fmt.Errorf("taxon %q: not in matrix", b)
	}
	return m.d[i][j], nil
}

// Len returns the number of taxa of the matrix.
func (m *Matrix) Len() int {
	return len(m.taxa)
}

// Taxa returns the taxa of the matrix,
// in the matrix order.
func (m *Matrix) Taxa() []string {
	return slices.Clone(m.taxa)
}

// TSV writes a matrix as a tab-delimited file
// with the fields "taxon-a",
// "taxon-b",
// and "distance",
// one row per taxon pair.
func (m *Matrix) TSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# cophenetic distances\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write([]string{"taxon-a", "taxon-b", "distance"}); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for i, ta := range m.taxa {
		for j := i + 1; j < len(m.taxa); j++ {
			row := []string{
				ta,
				m.taxa[j],
				strconv.FormatFloat(m.d[i][j], 'g', -1, 64),
			}
			if err := tsv.Write(row); err != nil {
				return fmt.Errorf("taxon %q: %v", ta, err)
			}
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

func newDists(n int) [][]float64 {
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	return d
}
