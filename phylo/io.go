// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/timetree"
)

// Used to transform ages
// (in years)
// of a time calibrated tree
// into branch lengths in million years.
const millionYears = 1_000_000

var header = []string{
	"tree",
	"node",
	"parent",
	"length",
	"taxon",
}

// ReadTSV reads a collection of trees
// from a tab-delimited file.
//
// The TSV must contain the following fields:
//
//   - tree, the name of the tree
//   - node, the ID of the node
//   - parent, the ID of the parent node
//     (-1 for the root)
//   - length, the length of the branch
//     that connects the node with its parent
//     (an empty value indicates an undefined length)
//   - taxon, the taxon name of a terminal node
//
// Here is an example file:
//
//	# densitree tree files
//	tree	node	parent	length	taxon
//	boot.1	0	-1
//	boot.1	1	0	1.5
//	boot.1	2	1	1	Brontostoma discus
//	boot.1	3	1	1	Eupolemus bifidus
//	boot.1	4	0	2.5	Macrodema varia
//
// In each tree,
// node IDs must be sequential,
// starting from the root
// (node 0),
// and a parent must be defined
// before any of its children.
func ReadTSV(r io.Reader) (*Collection, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	c := NewCollection()
	var t *Tree
	next := 0
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "tree"
		name := canon(row[fields[f]])
		if name == "" {
			return nil, fmt.Errorf("on row %d, field %q: expecting tree name", ln, f)
		}

		f = "node"
		id, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}

		f = "parent"
		parent, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}

		f = "length"
		brLen := math.NaN()
		if v := strings.TrimSpace(row[fields[f]]); v != "" {
			brLen, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
			}
		}

		f = "taxon"
		taxon := canon(row[fields[f]])

		if t == nil || t.Name() != name {
			if id != 0 || parent != -1 {
				return nil, fmt.Errorf("on row %d: tree %q: expecting root node first", ln, name)
			}
			t = New(name)
			if err := c.Add(t); err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
			next = 1
			continue
		}
		if parent == -1 {
			return nil, fmt.Errorf("on row %d: tree %q: multiple root nodes", ln, name)
		}
		if id != next {
			return nil, fmt.Errorf("on row %d: tree %q: expecting node %d, got %d", ln, name, next, id)
		}
		if parent >= id {
			return nil, fmt.Errorf("on row %d: tree %q: node %d: parent %d not defined", ln, name, id, parent)
		}
		if _, err := t.Add(parent, taxon, brLen); err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
		next++
	}
	if c.Len() == 0 {
		return nil, errors.New("no trees in input")
	}
	return c, nil
}

// TSV writes a collection of trees
// into a tab-delimited file.
func (c *Collection) TSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# densitree tree files\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	for _, name := range c.Names() {
		t := c.Tree(name)
		for _, id := range t.Nodes() {
			ln := ""
			if v := t.BrLen(id); !math.IsNaN(v) {
				ln = strconv.FormatFloat(v, 'g', -1, 64)
			}
			row := []string{
				name,
				strconv.Itoa(id),
				strconv.Itoa(t.Parent(id)),
				ln,
				t.Taxon(id),
			}
			if err := tsv.Write(row); err != nil {
				return fmt.Errorf("tree %q: %v", name, err)
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

// FromTimetree transforms a time calibrated tree
// into a phylogenetic tree
// with branch lengths in million years.
func FromTimetree(src *timetree.Tree) (*Tree, error) {
	t := New(src.Name())
	ids := make(map[int]int, len(src.Nodes()))
	ids[src.Root()] = t.Root()

	// in a timetree,
	// parents are always before their children
	for _, id := range src.Nodes() {
		if id == src.Root() {
			continue
		}
		pt := src.Parent(id)
		p, ok := ids[pt]
		if !ok {
			return nil, fmt.Errorf("tree %q: node %d: undefined parent %d", src.Name(), id, pt)
		}
		brLen := float64(src.Age(pt)-src.Age(id)) / millionYears
		n, err := t.Add(p, src.Taxon(id), brLen)
		if err != nil {
			return nil, err
		}
		ids[id] = n
	}
	return t, nil
}
